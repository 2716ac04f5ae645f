package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"prompt_playground/playground"
	"prompt_playground/render"
)

// --- Payloads ---

type settingsPatchReq struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type generateResp struct {
	Output     string            `json:"output"`
	OutputHTML string            `json:"output_html"`
	Record     playground.Record `json:"record"`
}

type historyItem struct {
	Number     int               `json:"number"`
	Record     playground.Record `json:"record"`
	OutputHTML string            `json:"output_html"`
}

type historyResp struct {
	Count   int           `json:"count"`
	Results []historyItem `json:"results"`
}

type modelsResp struct {
	Models []playground.Model          `json:"models"`
	Fields []playground.Field          `json:"fields"`
	Help   map[playground.Field]string `json:"help"`
}

type pageData struct {
	Models   []playground.Model
	Help     map[string]string
	Settings playground.Settings
	Limits   map[string]float64
}

// --- Handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	help := make(map[string]string, len(playground.ParamHelp))
	for f, text := range playground.ParamHelp {
		help[string(f)] = text
	}
	data := pageData{
		Models:   playground.Models,
		Help:     help,
		Settings: sess.Settings(),
		Limits: map[string]float64{
			"MinTemperature": playground.MinTemperature,
			"MaxTemperature": playground.MaxTemperature,
			"MinMaxTokens":   playground.MinMaxTokens,
			"MaxMaxTokens":   playground.MaxMaxTokens,
			"MinPenalty":     playground.MinPenalty,
			"MaxPenalty":     playground.MaxPenalty,
		},
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Printf("[server] render index: %v", err)
	}
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modelsResp{Models: playground.Models, Fields: playground.Fields, Help: playground.ParamHelp})
}

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionFor(w, r).Settings())
}

// handleSettingsPatch applies one field. Range checks happen here, standing in for the form widgets.
func (s *Server) handleSettingsPatch(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	req, err := decodePatch(r)
	if err != nil {
		code := "BAD_REQUEST"
		if errors.Is(err, playground.ErrFieldType) || errors.Is(err, playground.ErrUnknownField) {
			code = "INVALID_FIELD"
		}
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}
	field := playground.Field(req.Field)

	next, err := sess.Settings().With(field, req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FIELD", err.Error())
		return
	}
	if err := next.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "OUT_OF_RANGE", err.Error())
		return
	}
	if field == playground.FieldModel && !playground.KnownModel(next.Model) {
		writeError(w, http.StatusBadRequest, "UNKNOWN_MODEL", fmt.Sprintf("model %q is not available", next.Model))
		return
	}
	if err := sess.Set(field, req.Value); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FIELD", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Settings())
}

func (s *Server) handleSettingsReset(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	sess.Seed(s.defaults)
	writeJSON(w, http.StatusOK, sess.Settings())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	rec, err := sess.Generate(ctx)
	if err != nil {
		kind := playground.KindOf(err)
		writeError(w, statusForKind(kind), codeForKind(kind), playground.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, generateResp{
		Output:     rec.Output,
		OutputHTML: render.MarkdownOrText(rec.Output),
		Record:     rec,
	})
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	out := s.sessionFor(w, r).Latest()
	writeJSON(w, http.StatusOK, map[string]string{"output": out, "output_html": render.MarkdownOrText(out)})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	entries := s.sessionFor(w, r).History()
	resp := historyResp{Count: len(entries), Results: make([]historyItem, 0, len(entries))}
	for _, e := range entries {
		resp.Results = append(resp.Results, historyItem{
			Number:     e.Number,
			Record:     e.Record,
			OutputHTML: render.MarkdownOrText(e.Record.Output),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	n := sess.HistoryLen()
	sess.ClearHistory()
	s.infof("session %s cleared %d results", sess.ID, n)
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// decodePatch 支持 JSON 与普通表单两种提交方式。
func decodePatch(r *http.Request) (settingsPatchReq, error) {
	var req settingsPatchReq
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Field = r.PostForm.Get("field")
		v, err := playground.ParseValue(playground.Field(req.Field), r.PostForm.Get("value"))
		if err != nil {
			return req, err
		}
		req.Value = v
		return req, nil
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

func statusForKind(k playground.Kind) int {
	switch k {
	case playground.KindConfiguration:
		return http.StatusServiceUnavailable
	case playground.KindProvider, playground.KindDecoding:
		return http.StatusBadGateway
	case playground.KindTransport:
		return http.StatusGatewayTimeout
	case playground.KindPending:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func codeForKind(k playground.Kind) string {
	switch k {
	case playground.KindConfiguration:
		return "CONFIGURATION_ERROR"
	case playground.KindTransport:
		return "TRANSPORT_ERROR"
	case playground.KindProvider:
		return "PROVIDER_ERROR"
	case playground.KindDecoding:
		return "DECODING_ERROR"
	case playground.KindPending:
		return "PENDING"
	}
	return "INTERNAL"
}

// writeJSON 先完整编码再写头，编码失败时返回 500。
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("[server] encode response: %v", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]any{
			"error": map[string]string{
				"code":    "INTERNAL",
				"message": "failed to encode response",
			},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
