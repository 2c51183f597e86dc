package realtime

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-realtime/core/audio"
	"github.com/koscakluka/ema-realtime/core/protocol"
)

const (
	DefaultModel    = "gpt-realtime"
	DefaultVoice    = "alloy"
	DefaultLanguage = "en"
	DefaultURL      = "wss://api.openai.com/v1/realtime"

	DefaultInstructions = "You are a helpful voice assistant. " +
		"Be concise and natural in your responses."

	// APIKeyEnv is read when no API key is configured.
	APIKeyEnv = "OPENAI_API_KEY"

	apiKeyPrefix = "sk-"
)

var SupportedModels = []string{
	"gpt-4o-realtime-preview-2024-12-17",
	"gpt-4o-realtime-preview",
	"gpt-realtime",
}

var SupportedVoices = []string{
	"alloy",
	"echo",
	"shimmer",
	"ash",
	"ballad",
	"coral",
	"sage",
	"verse",
}

// SupportedLanguages maps language codes to their native names.
var SupportedLanguages = map[string]string{
	"en": "English",
	"fr": "Français",
	"es": "Español",
	"de": "Deutsch",
	"it": "Italiano",
	"pt": "Português",
	"nl": "Nederlands",
	"pl": "Polski",
	"ru": "Русский",
	"ja": "日本語",
	"ko": "한국어",
	"zh": "中文",
	"ar": "العربية",
	"hi": "हिन्दी",
}

// Config is everything needed to open and configure a session. It is
// snapshotted on every Connect, so changing it requires a new connection.
type Config struct {
	APIKey       string
	Model        string
	Voice        string
	Instructions string
	Language     string
	URL          string

	TurnDetection protocol.TurnDetection
	// Modalities the server responds with, "audio" or "text".
	Modalities []string

	InputEncoding  audio.EncodingInfo
	OutputEncoding audio.EncodingInfo

	// TranscriptionModel enables transcription of the input audio when set.
	TranscriptionModel string
}

func DefaultConfig() Config {
	return Config{
		APIKey:         os.Getenv(APIKeyEnv),
		Model:          DefaultModel,
		Voice:          DefaultVoice,
		Instructions:   DefaultInstructions,
		Language:       DefaultLanguage,
		URL:            DefaultURL,
		TurnDetection:  protocol.TurnDetection{Mode: protocol.TurnDetectionSemanticVAD},
		Modalities:     []string{"audio"},
		InputEncoding:  audio.GetDefaultEncodingInfo(),
		OutputEncoding: audio.GetDefaultEncodingInfo(),
	}
}

// Validate checks the credential format and that the audio encodings can be
// expressed on the wire. Model, voice and language are passed through as is.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: no api key configured (set %s)", ErrInvalidAPIKey, APIKeyEnv)
	}
	if !strings.HasPrefix(c.APIKey, apiKeyPrefix) {
		return fmt.Errorf("%w: expected prefix %q", ErrInvalidAPIKey, apiKeyPrefix)
	}

	if _, err := audioFormat(c.InputEncoding); err != nil {
		return fmt.Errorf("invalid input encoding: %w", err)
	}
	if _, err := audioFormat(c.OutputEncoding); err != nil {
		return fmt.Errorf("invalid output encoding: %w", err)
	}

	if _, err := url.Parse(c.URL); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	return nil
}

// withDefaults fills every unset field from [DefaultConfig].
func (c Config) withDefaults() Config {
	defaults := DefaultConfig()

	if c.APIKey == "" {
		c.APIKey = defaults.APIKey
	}
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.Voice == "" {
		c.Voice = defaults.Voice
	}
	if c.Instructions == "" {
		c.Instructions = defaults.Instructions
	}
	if c.Language == "" {
		c.Language = defaults.Language
	}
	if c.URL == "" {
		c.URL = defaults.URL
	}
	if c.TurnDetection.Mode == "" {
		c.TurnDetection = defaults.TurnDetection
	}
	if len(c.Modalities) == 0 {
		c.Modalities = defaults.Modalities
	}
	if c.InputEncoding.IsZero() {
		c.InputEncoding = defaults.InputEncoding
	}
	if c.OutputEncoding.IsZero() {
		c.OutputEncoding = defaults.OutputEncoding
	}
	return c
}

// clone returns a deep copy so callers cannot mutate a snapshot through
// shared slices.
func (c Config) clone() (Config, error) {
	var snapshot Config
	if err := copier.CopyWithOption(&snapshot, &c, copier.Option{DeepCopy: true}); err != nil {
		return Config{}, fmt.Errorf("failed to snapshot config: %w", err)
	}
	return snapshot, nil
}

func (c Config) endpoint() (string, error) {
	endpoint, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	query := endpoint.Query()
	if query.Get("model") == "" {
		query.Set("model", c.Model)
	}
	endpoint.RawQuery = query.Encode()
	return endpoint.String(), nil
}

func (c Config) header() http.Header {
	return http.Header{"Authorization": {"Bearer " + c.APIKey}}
}

func (c Config) sessionConfig() (protocol.SessionConfig, error) {
	snapshot, err := c.clone()
	if err != nil {
		return protocol.SessionConfig{}, err
	}

	inputFormat, err := audioFormat(snapshot.InputEncoding)
	if err != nil {
		return protocol.SessionConfig{}, fmt.Errorf("invalid input encoding: %w", err)
	}
	outputFormat, err := audioFormat(snapshot.OutputEncoding)
	if err != nil {
		return protocol.SessionConfig{}, fmt.Errorf("invalid output encoding: %w", err)
	}

	return protocol.SessionConfig{
		Model:              snapshot.Model,
		Voice:              snapshot.Voice,
		Instructions:       snapshot.Instructions,
		InputFormat:        inputFormat,
		OutputFormat:       outputFormat,
		TurnDetection:      snapshot.TurnDetection,
		OutputModalities:   snapshot.Modalities,
		TranscriptionModel: snapshot.TranscriptionModel,
		Language:           snapshot.Language,
	}, nil
}

func audioFormat(encodingInfo audio.EncodingInfo) (protocol.AudioFormat, error) {
	switch encodingInfo.Format {
	case audio.EncodingLinear16:
		if encodingInfo.SampleRate != audio.DefaultSampleRate {
			return protocol.AudioFormat{}, fmt.Errorf("pcm audio must be %d Hz, got %d", audio.DefaultSampleRate, encodingInfo.SampleRate)
		}
		return protocol.AudioFormat{Type: protocol.AudioFormatPCM, Rate: encodingInfo.SampleRate}, nil
	case audio.EncodingMulaw:
		return protocol.AudioFormat{Type: protocol.AudioFormatPCMU}, nil
	case audio.EncodingALaw:
		return protocol.AudioFormat{Type: protocol.AudioFormatPCMA}, nil
	}
	return protocol.AudioFormat{}, fmt.Errorf("unsupported audio format %q", encodingInfo.Format.Name())
}
