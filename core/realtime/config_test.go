package realtime

import (
	"errors"
	"strings"
	"testing"

	"github.com/koscakluka/ema-realtime/core/audio"
	"github.com/koscakluka/ema-realtime/core/protocol"
)

func TestValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.APIKey = "sk-valid"

	testCases := []struct {
		name        string
		modify      func(*Config)
		expectedErr error
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "missing api key", modify: func(c *Config) { c.APIKey = "" }, expectedErr: ErrInvalidAPIKey},
		{name: "wrong api key prefix", modify: func(c *Config) { c.APIKey = "abc" }, expectedErr: ErrInvalidAPIKey},
		{name: "unknown model passes through", modify: func(c *Config) { c.Model = "some-future-model" }},
		{name: "unknown voice passes through", modify: func(c *Config) { c.Voice = "nova" }},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			config := valid
			testCase.modify(&config)

			err := config.Validate()
			if testCase.expectedErr == nil && err != nil {
				t.Fatalf("expected config to be valid, got %v", err)
			}
			if testCase.expectedErr != nil && !errors.Is(err, testCase.expectedErr) {
				t.Fatalf("expected %v, got %v", testCase.expectedErr, err)
			}
		})
	}
}

func TestValidateRejectsUnsupportedEncodings(t *testing.T) {
	config := DefaultConfig()
	config.APIKey = "sk-valid"
	config.InputEncoding = audio.EncodingInfo{SampleRate: 16000, Format: audio.EncodingLinear16}

	if err := config.Validate(); err == nil {
		t.Fatalf("expected 16 kHz pcm input to be rejected")
	}
}

func TestWithDefaultsFallsBackToEnvironment(t *testing.T) {
	t.Setenv(APIKeyEnv, "sk-from-env")

	config := Config{Voice: "echo"}.withDefaults()

	if config.APIKey != "sk-from-env" {
		t.Fatalf("expected api key from environment, got %q", config.APIKey)
	}
	if config.Voice != "echo" {
		t.Fatalf("expected explicit voice to be kept, got %q", config.Voice)
	}
	if config.Model != DefaultModel || config.Language != DefaultLanguage || config.Instructions != DefaultInstructions {
		t.Fatalf("expected defaults to be filled, got %+v", config)
	}
	if config.TurnDetection.Mode != protocol.TurnDetectionSemanticVAD {
		t.Fatalf("expected semantic vad by default, got %q", config.TurnDetection.Mode)
	}
}

func TestEndpointKeepsExplicitModel(t *testing.T) {
	config := Config{URL: "wss://example.test/v1/realtime?model=custom", Model: "gpt-realtime"}

	endpoint, err := config.endpoint()
	if err != nil {
		t.Fatalf("expected endpoint, got %v", err)
	}
	if !strings.Contains(endpoint, "model=custom") || strings.Contains(endpoint, "gpt-realtime") {
		t.Fatalf("expected explicit model to be kept, got %q", endpoint)
	}
}

func TestSessionConfigIsDeepCopied(t *testing.T) {
	config := DefaultConfig()
	config.Modalities = []string{"audio"}

	session, err := config.sessionConfig()
	if err != nil {
		t.Fatalf("expected session config, got %v", err)
	}
	config.Modalities[0] = "text"

	if session.OutputModalities[0] != "audio" {
		t.Fatalf("expected snapshot to be unaffected by later changes, got %v", session.OutputModalities)
	}
	if session.InputFormat != (protocol.AudioFormat{Type: protocol.AudioFormatPCM, Rate: audio.DefaultSampleRate}) {
		t.Fatalf("expected pcm input at %d Hz, got %+v", audio.DefaultSampleRate, session.InputFormat)
	}
}

func TestClientConfigReturnsCopy(t *testing.T) {
	client, err := NewClient(Config{APIKey: "sk-test", Modalities: []string{"audio"}})
	if err != nil {
		t.Fatalf("expected client, got %v", err)
	}

	config := client.Config()
	config.Modalities[0] = "text"

	if got := client.Config().Modalities[0]; got != "audio" {
		t.Fatalf("expected client config to be unaffected, got %q", got)
	}
}

func TestSupportedListsIncludeDefaults(t *testing.T) {
	found := false
	for _, model := range SupportedModels {
		found = found || model == DefaultModel
	}
	if !found {
		t.Fatalf("expected %q in supported models", DefaultModel)
	}

	found = false
	for _, voice := range SupportedVoices {
		found = found || voice == DefaultVoice
	}
	if !found {
		t.Fatalf("expected %q in supported voices", DefaultVoice)
	}

	if _, ok := SupportedLanguages[DefaultLanguage]; !ok {
		t.Fatalf("expected %q in supported languages", DefaultLanguage)
	}
}
