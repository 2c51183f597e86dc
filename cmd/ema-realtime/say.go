package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-realtime/core/realtime"
	"github.com/koscakluka/ema-realtime/core/texttospeech"
)

var sayCmd = &cobra.Command{
	Use:   "say TEXT...",
	Short: "Synthesize speech into a WAV file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSay,
}

func init() {
	sayCmd.Flags().StringP("output", "o", "speech.wav", "file to write the audio to")
	sayCmd.Flags().Duration("timeout", texttospeech.DefaultTimeout, "give up after this long without audio")
}

func runSay(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	config, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := realtime.NewClient(config)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(cmd.Context()) }()

	synthesizer := texttospeech.NewSynthesizer(client, texttospeech.WithTimeout(timeout))
	wav, err := synthesizer.Synthesize(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, wav, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(wav), output)
	return nil
}
