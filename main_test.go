package main

import (
	"testing"

	"prompt_playground/config"
	"prompt_playground/playground"
)

func TestBuildLLM(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
		mock    bool
	}{
		{"openai", config.Config{LLM: &config.LLMConfig{Provider: "openai", APIKey: "sk"}}, false, false},
		{"openai without key still builds", config.Config{LLM: &config.LLMConfig{Provider: "openai"}}, false, false},
		{"deepseek", config.Config{LLM: &config.LLMConfig{Provider: "deepseek", BaseURL: "https://api.deepseek.com/v1/"}}, false, false},
		{"mock", config.Config{LLM: &config.LLMConfig{Provider: "mock"}}, false, true},
		{"missing llm", config.Config{}, true, false},
		{"unknown", config.Config{LLM: &config.LLMConfig{Provider: "other"}}, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			llm, err := buildLLM(tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildLLM: %v", err)
			}
			_, isMock := llm.(playground.MockLLM)
			if isMock != tc.mock {
				t.Errorf("Expected mock=%v, got %T", tc.mock, llm)
			}
		})
	}
}
