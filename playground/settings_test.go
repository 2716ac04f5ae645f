package playground

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestStoreSet_ChangesOnlyThatField(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value any
		check func(Settings) bool
	}{
		{"model", FieldModel, "gpt-4", func(s Settings) bool { return s.Model == "gpt-4" }},
		{"temperature", FieldTemperature, 1.3, func(s Settings) bool { return s.Temperature == 1.3 }},
		{"max tokens int", FieldMaxTokens, 512, func(s Settings) bool { return s.MaxTokens == 512 }},
		{"max tokens json number", FieldMaxTokens, float64(64), func(s Settings) bool { return s.MaxTokens == 64 }},
		{"presence penalty", FieldPresencePenalty, -1.5, func(s Settings) bool { return s.PresencePenalty == -1.5 }},
		{"frequency penalty int", FieldFrequencyPenalty, 2, func(s Settings) bool { return s.FrequencyPenalty == 2 }},
		{"system prompt", FieldSystemPrompt, "be terse", func(s Settings) bool { return s.SystemPrompt == "be terse" }},
		{"user prompt", FieldUserPrompt, "", func(s Settings) bool { return s.UserPrompt == "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := NewStore()
			before := store.Snapshot()

			if err := store.Set(tc.field, tc.value); err != nil {
				t.Fatalf("Set returned error: %v", err)
			}
			after := store.Snapshot()
			if !tc.check(after) {
				t.Errorf("Expected %s to be %v, got %+v", tc.field, tc.value, after)
			}

			// Put the changed field back and everything must match the original.
			restored, err := after.With(tc.field, fieldValue(before, tc.field))
			if err != nil {
				t.Fatalf("With returned error: %v", err)
			}
			if !reflect.DeepEqual(restored, before) {
				t.Errorf("Expected other fields unchanged\nbefore: %+v\nafter:  %+v", before, after)
			}
		})
	}
}

func fieldValue(s Settings, f Field) any {
	switch f {
	case FieldModel:
		return s.Model
	case FieldTemperature:
		return s.Temperature
	case FieldMaxTokens:
		return s.MaxTokens
	case FieldPresencePenalty:
		return s.PresencePenalty
	case FieldFrequencyPenalty:
		return s.FrequencyPenalty
	case FieldSystemPrompt:
		return s.SystemPrompt
	case FieldUserPrompt:
		return s.UserPrompt
	}
	return nil
}

func TestStoreSet_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value any
		want  error
	}{
		{"unknown field", Field("top_p"), 0.5, ErrUnknownField},
		{"string for number", FieldTemperature, "hot", ErrFieldType},
		{"number for string", FieldModel, 4, ErrFieldType},
		{"fractional max tokens", FieldMaxTokens, 10.5, ErrFieldType},
		{"max tokens beyond int32", FieldMaxTokens, 1e20, ErrFieldType},
		{"nan temperature", FieldTemperature, math.NaN(), ErrFieldType},
		{"infinite penalty", FieldPresencePenalty, math.Inf(-1), ErrFieldType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := NewStore()
			before := store.Snapshot()
			err := store.Set(tc.field, tc.value)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Expected %v, got %v", tc.want, err)
			}
			if store.Snapshot() != before {
				t.Errorf("Expected settings unchanged after rejected Set")
			}
		})
	}
}

func TestStoreSet_DoesNotValidateRange(t *testing.T) {
	store := NewStore()
	if err := store.Set(FieldTemperature, 9.0); err != nil {
		t.Fatalf("Expected out-of-range value to be stored, got %v", err)
	}
	if got := store.Snapshot().Temperature; got != 9.0 {
		t.Errorf("Expected temperature 9, got %v", got)
	}
	if err := store.Snapshot().Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected Validate to report ErrOutOfRange, got %v", err)
	}
}

func TestStoreSetString(t *testing.T) {
	store := NewStore()
	if err := store.SetString(FieldTemperature, "0.3"); err != nil {
		t.Fatalf("SetString temperature: %v", err)
	}
	if err := store.SetString(FieldMaxTokens, "42"); err != nil {
		t.Fatalf("SetString max_tokens: %v", err)
	}
	if err := store.SetString(FieldMaxTokens, "4.2"); !errors.Is(err, ErrFieldType) {
		t.Errorf("Expected ErrFieldType for non-integer, got %v", err)
	}
	got := store.Snapshot()
	if got.Temperature != 0.3 || got.MaxTokens != 42 {
		t.Errorf("Expected temperature 0.3 and max_tokens 42, got %+v", got)
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	store := NewStore()
	snap := store.Snapshot()
	_ = store.Set(FieldUserPrompt, "changed")
	if snap.UserPrompt == "changed" {
		t.Error("Expected earlier snapshot to be unaffected by later Set")
	}
}

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("Expected defaults to be valid, got %v", err)
	}
	if !KnownModel(s.Model) {
		t.Errorf("Expected default model %q to be in Models", s.Model)
	}
	if s.Temperature != 0.7 || s.MaxTokens != 150 {
		t.Errorf("Unexpected defaults: %+v", s)
	}
}

func TestStoreReplace(t *testing.T) {
	store := NewStore()
	_ = store.Set(FieldModel, "gpt-4")
	store.Replace(DefaultSettings())
	if store.Snapshot() != DefaultSettings() {
		t.Errorf("Expected defaults after Replace, got %+v", store.Snapshot())
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(FieldPresencePenalty, " -1.5 ")
	if err != nil || v != -1.5 {
		t.Errorf("Expected -1.5, got %v (%v)", v, err)
	}
	for _, raw := range []string{"NaN", "+Inf", "-inf"} {
		if _, err := ParseValue(FieldTemperature, raw); !errors.Is(err, ErrFieldType) {
			t.Errorf("Expected ErrFieldType for %q, got %v", raw, err)
		}
	}
	if _, err := ParseValue(FieldMaxTokens, "99999999999"); !errors.Is(err, ErrFieldType) {
		t.Errorf("Expected ErrFieldType for oversized max_tokens, got %v", err)
	}
	if _, err := ParseValue(Field("nope"), "1"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}

func TestValidate_RejectsNonFinite(t *testing.T) {
	s := DefaultSettings()
	s.FrequencyPenalty = math.NaN()
	if err := s.Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange for NaN, got %v", err)
	}
}

func TestSessionSetString(t *testing.T) {
	sess := NewSession("s", nil)
	if err := sess.SetString(FieldMaxTokens, "321"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if got := sess.Settings().MaxTokens; got != 321 {
		t.Errorf("Expected max_tokens 321, got %d", got)
	}
	if err := sess.SetString(FieldTemperature, "NaN"); !errors.Is(err, ErrFieldType) {
		t.Errorf("Expected ErrFieldType, got %v", err)
	}
}
