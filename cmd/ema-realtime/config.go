package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/koscakluka/ema-realtime/core/protocol"
	"github.com/koscakluka/ema-realtime/core/realtime"
)

// loadConfig builds a session config from flags, config.yaml and the
// environment. Unset values fall back to [realtime.DefaultConfig].
func loadConfig() (realtime.Config, error) {
	config := realtime.DefaultConfig()

	if key := viper.GetString("api_key"); key != "" {
		config.APIKey = key
	}
	if model := viper.GetString("model"); model != "" {
		config.Model = model
	}
	if voice := viper.GetString("voice"); voice != "" {
		config.Voice = voice
	}
	if instructions := viper.GetString("instructions"); instructions != "" {
		config.Instructions = instructions
	}
	if language := viper.GetString("language"); language != "" {
		config.Language = language
	}
	if url := viper.GetString("url"); url != "" {
		config.URL = url
	}
	config.TranscriptionModel = viper.GetString("transcription_model")

	turnDetection, err := loadTurnDetection()
	if err != nil {
		return realtime.Config{}, err
	}
	config.TurnDetection = turnDetection

	return config, nil
}

func loadTurnDetection() (protocol.TurnDetection, error) {
	var turnDetection protocol.TurnDetection

	switch mode := protocol.TurnDetectionMode(viper.GetString("turn_detection")); mode {
	case "", protocol.TurnDetectionSemanticVAD:
		turnDetection.Mode = protocol.TurnDetectionSemanticVAD
		turnDetection.Eagerness = viper.GetString("eagerness")
	case protocol.TurnDetectionServerVAD:
		turnDetection = protocol.ServerVAD()
		if threshold := viper.GetFloat64("vad_threshold"); threshold > 0 {
			turnDetection.Threshold = threshold
		}
		if silence := viper.GetInt("vad_silence_ms"); silence > 0 {
			turnDetection.SilenceDurationMs = silence
		}
		if prefix := viper.GetInt("vad_prefix_ms"); prefix > 0 {
			turnDetection.PrefixPaddingMs = prefix
		}
	case protocol.TurnDetectionNone:
		turnDetection.Mode = protocol.TurnDetectionNone
	default:
		return protocol.TurnDetection{}, fmt.Errorf("unknown turn detection mode %q", mode)
	}

	return turnDetection, nil
}
