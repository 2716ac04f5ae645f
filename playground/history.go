package playground

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record 记录一次成功生成：派发时的数值参数快照与输出。创建后不再修改。
type Record struct {
	ID               string    `json:"id"`
	Model            string    `json:"model"`
	Temperature      float64   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens"`
	PresencePenalty  float64   `json:"presence_penalty"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	Output           string    `json:"output"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewRecord builds a Record from the settings a request was dispatched with.
func NewRecord(s Settings, output string) Record {
	return Record{
		ID:               uuid.NewString(),
		Model:            s.Model,
		Temperature:      s.Temperature,
		MaxTokens:        s.MaxTokens,
		PresencePenalty:  s.PresencePenalty,
		FrequencyPenalty: s.FrequencyPenalty,
		Output:           output,
		CreatedAt:        time.Now(),
	}
}

// Entry is a Record paired with its 1-based position in insertion order.
type Entry struct {
	Number int    `json:"number"`
	Record Record `json:"record"`
}

// History is the append-only log of successful generations.
type History struct {
	mu      sync.RWMutex
	records []Record
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
}

// Clear drops every record.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// List returns the records newest first. The slice is a copy.
func (h *History) List() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Entry, 0, len(h.records))
	for i := len(h.records) - 1; i >= 0; i-- {
		out = append(out, Entry{Number: i + 1, Record: h.records[i]})
	}
	return out
}
