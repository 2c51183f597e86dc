package main

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/koscakluka/ema-realtime/core/protocol"
	"github.com/koscakluka/ema-realtime/core/realtime"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv(realtime.APIKeyEnv, "sk-env")

	config, err := loadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if config.APIKey != "sk-env" {
		t.Fatalf("expected api key from environment, got %q", config.APIKey)
	}
	if config.Model != realtime.DefaultModel {
		t.Fatalf("expected model %q, got %q", realtime.DefaultModel, config.Model)
	}
	if config.TurnDetection.Mode != protocol.TurnDetectionSemanticVAD {
		t.Fatalf("expected semantic vad, got %q", config.TurnDetection.Mode)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("api_key", "sk-flag")
	viper.Set("voice", "verse")
	viper.Set("language", "de")
	viper.Set("transcription_model", "whisper-1")

	config, err := loadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if config.APIKey != "sk-flag" || config.Voice != "verse" || config.Language != "de" {
		t.Fatalf("expected overrides to apply, got %+v", config)
	}
	if config.TranscriptionModel != "whisper-1" {
		t.Fatalf("expected transcription model whisper-1, got %q", config.TranscriptionModel)
	}
}

func TestLoadTurnDetection(t *testing.T) {
	testCases := []struct {
		name     string
		values   map[string]any
		expected protocol.TurnDetection
		wantErr  bool
	}{
		{
			name:     "unset",
			expected: protocol.TurnDetection{Mode: protocol.TurnDetectionSemanticVAD},
		},
		{
			name:     "semantic with eagerness",
			values:   map[string]any{"turn_detection": "semantic_vad", "eagerness": "high"},
			expected: protocol.TurnDetection{Mode: protocol.TurnDetectionSemanticVAD, Eagerness: "high"},
		},
		{
			name:     "server defaults",
			values:   map[string]any{"turn_detection": "server_vad"},
			expected: protocol.ServerVAD(),
		},
		{
			name:   "server tuned",
			values: map[string]any{"turn_detection": "server_vad", "vad_threshold": 0.7, "vad_silence_ms": 500, "vad_prefix_ms": 100},
			expected: protocol.TurnDetection{
				Mode:              protocol.TurnDetectionServerVAD,
				Threshold:         0.7,
				PrefixPaddingMs:   100,
				SilenceDurationMs: 500,
			},
		},
		{
			name:     "none",
			values:   map[string]any{"turn_detection": "none"},
			expected: protocol.TurnDetection{Mode: protocol.TurnDetectionNone},
		},
		{
			name:    "unknown",
			values:  map[string]any{"turn_detection": "push_to_talk"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			for key, value := range tc.values {
				viper.Set(key, value)
			}

			got, err := loadTurnDetection()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tc.expected {
				t.Fatalf("expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}
