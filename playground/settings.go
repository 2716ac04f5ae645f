package playground

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Settings 描述下一次生成请求的全部参数。值类型，复制即快照。
type Settings struct {
	Model            string  `json:"model"`
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	PresencePenalty  float64 `json:"presence_penalty"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	SystemPrompt     string  `json:"system_prompt"`
	UserPrompt       string  `json:"user_prompt"`
}

// Field names one Settings field. Values match the JSON keys.
type Field string

const (
	FieldModel            Field = "model"
	FieldTemperature      Field = "temperature"
	FieldMaxTokens        Field = "max_tokens"
	FieldPresencePenalty  Field = "presence_penalty"
	FieldFrequencyPenalty Field = "frequency_penalty"
	FieldSystemPrompt     Field = "system_prompt"
	FieldUserPrompt       Field = "user_prompt"
)

// Fields lists every settable field in form order.
var Fields = []Field{
	FieldModel,
	FieldTemperature,
	FieldMaxTokens,
	FieldPresencePenalty,
	FieldFrequencyPenalty,
	FieldSystemPrompt,
	FieldUserPrompt,
}

// Widget ranges. The store does not enforce them; see Settings.Validate.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
	MinMaxTokens   = 1
	MaxMaxTokens   = 1000
	MinPenalty     = -2.0
	MaxPenalty     = 2.0
)

var (
	ErrUnknownField = errors.New("unknown settings field")
	ErrFieldType    = errors.New("wrong value type for settings field")
	ErrOutOfRange   = errors.New("settings value out of range")
)

// Model is one selectable completion model.
type Model struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Models 是界面下拉框中可选的固定模型集合。
var Models = []Model{
	{ID: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo"},
	{ID: "gpt-4", Label: "GPT-4"},
}

// KnownModel reports whether id is in Models.
func KnownModel(id string) bool {
	for _, m := range Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ParamHelp holds the tooltip text for the numeric parameters.
var ParamHelp = map[Field]string{
	FieldTemperature:      "Controls randomness: 0 is focused, 1 is balanced, 2 is creative",
	FieldMaxTokens:        "Maximum length of the generated response",
	FieldPresencePenalty:  "Reduces repetition of topics: -2 to 2",
	FieldFrequencyPenalty: "Reduces repetition of specific words: -2 to 2",
}

// DefaultSettings returns the values a new session starts with.
func DefaultSettings() Settings {
	return Settings{
		Model:            "gpt-3.5-turbo",
		Temperature:      0.7,
		MaxTokens:        150,
		PresencePenalty:  0,
		FrequencyPenalty: 0,
		SystemPrompt:     "You are a helpful assistant that writes product descriptions.",
		UserPrompt:       "Write a product description for the latest iPhone.",
	}
}

// Validate checks the ranges the input widgets allow.
func (s Settings) Validate() error {
	for _, v := range []float64{s.Temperature, s.PresencePenalty, s.FrequencyPenalty} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v is not a finite number", ErrOutOfRange, v)
		}
	}
	if s.Temperature < MinTemperature || s.Temperature > MaxTemperature {
		return fmt.Errorf("%w: temperature must be within [%g, %g]", ErrOutOfRange, MinTemperature, MaxTemperature)
	}
	if s.MaxTokens < MinMaxTokens || s.MaxTokens > MaxMaxTokens {
		return fmt.Errorf("%w: max_tokens must be within [%d, %d]", ErrOutOfRange, MinMaxTokens, MaxMaxTokens)
	}
	if s.PresencePenalty < MinPenalty || s.PresencePenalty > MaxPenalty {
		return fmt.Errorf("%w: presence_penalty must be within [%g, %g]", ErrOutOfRange, MinPenalty, MaxPenalty)
	}
	if s.FrequencyPenalty < MinPenalty || s.FrequencyPenalty > MaxPenalty {
		return fmt.Errorf("%w: frequency_penalty must be within [%g, %g]", ErrOutOfRange, MinPenalty, MaxPenalty)
	}
	return nil
}

// With returns a copy of s with field replaced by value.
func (s Settings) With(field Field, value any) (Settings, error) {
	switch field {
	case FieldModel, FieldSystemPrompt, FieldUserPrompt:
		v, ok := value.(string)
		if !ok {
			return s, fmt.Errorf("%w: %s wants string, got %T", ErrFieldType, field, value)
		}
		switch field {
		case FieldModel:
			s.Model = v
		case FieldSystemPrompt:
			s.SystemPrompt = v
		default:
			s.UserPrompt = v
		}
	case FieldTemperature, FieldPresencePenalty, FieldFrequencyPenalty:
		v, ok := toFloat(value)
		if !ok {
			return s, fmt.Errorf("%w: %s wants number, got %T", ErrFieldType, field, value)
		}
		switch field {
		case FieldTemperature:
			s.Temperature = v
		case FieldPresencePenalty:
			s.PresencePenalty = v
		default:
			s.FrequencyPenalty = v
		}
	case FieldMaxTokens:
		v, ok := toInt(value)
		if !ok {
			return s, fmt.Errorf("%w: %s wants integer, got %T", ErrFieldType, field, value)
		}
		s.MaxTokens = v
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return s, nil
}

// NaN 与 Inf 无法编码为 JSON，一律拒绝。
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		f := float64(n)
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// JSON 数字解码为 float64，整数值也接受。
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return n, true
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// Store holds the live Settings of one session.
type Store struct {
	mu  sync.RWMutex
	cur Settings
}

// NewStore creates a Store initialised with DefaultSettings.
func NewStore() *Store {
	return &Store{cur: DefaultSettings()}
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Set replaces one field. Ranges are not checked here.
func (s *Store) Set(field Field, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.cur.With(field, value)
	if err != nil {
		return err
	}
	s.cur = next
	return nil
}

// SetString parses raw form input for field and applies it.
func (s *Store) SetString(field Field, raw string) error {
	value, err := ParseValue(field, raw)
	if err != nil {
		return err
	}
	return s.Set(field, value)
}

// ParseValue converts form text into the Go type Set expects for field.
func ParseValue(field Field, raw string) (any, error) {
	switch field {
	case FieldModel, FieldSystemPrompt, FieldUserPrompt:
		return raw, nil
	case FieldTemperature, FieldPresencePenalty, FieldFrequencyPenalty:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFieldType, field, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %s: %q is not a finite number", ErrFieldType, field, raw)
		}
		return f, nil
	case FieldMaxTokens:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFieldType, field, err)
		}
		return int(n), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// Replace swaps in a whole Settings value, used to seed a session from config.
func (s *Store) Replace(next Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = next
}
