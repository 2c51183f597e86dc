package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ema-realtime",
	Short: "Talk to a realtime speech model",
	Long: `ema-realtime opens a realtime session over WebSocket and streams audio
and text both ways. Use chat for a typed conversation, talk for a voice
conversation through the default audio devices, and say or transcribe for
one-shot conversions.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("api-key", "", "API key (defaults to $OPENAI_API_KEY)")
	flags.String("model", "", "model to use")
	flags.String("voice", "", "voice the assistant speaks with")
	flags.String("instructions", "", "system instructions for the session")
	flags.String("language", "", "language code the assistant should use")
	flags.String("url", "", "realtime endpoint")
	flags.String("turn-detection", "", "turn detection: semantic_vad, server_vad or none")
	flags.Float64("vad-threshold", 0, "server VAD activation threshold")
	flags.Int("vad-silence-ms", 0, "server VAD silence duration before a turn ends")
	flags.Int("vad-prefix-ms", 0, "server VAD audio kept before detected speech")
	flags.String("eagerness", "", "semantic VAD eagerness: low, medium, high or auto")
	flags.String("transcription-model", "", "transcribe user audio with this model")

	for _, name := range []string{
		"api-key", "model", "voice", "instructions", "language", "url",
		"turn-detection", "vad-threshold", "vad-silence-ms", "vad-prefix-ms",
		"eagerness", "transcription-model",
	} {
		if err := viper.BindPFlag(configKey(name), flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to bind flag %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(chatCmd, talkCmd, sayCmd, transcribeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig layers config.yaml, a .env file and the environment under the
// command line flags.
func initConfig() {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("openai")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "failed to read config file: %v\n", err)
		}
	}
}

func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}
