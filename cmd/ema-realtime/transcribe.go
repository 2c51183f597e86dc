package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-realtime/core/audio"
	"github.com/koscakluka/ema-realtime/core/protocol"
	"github.com/koscakluka/ema-realtime/core/realtime"
	"github.com/koscakluka/ema-realtime/core/speechtotext"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe FILE",
	Short: "Transcribe a WAV or raw PCM16 file",
	Long: `Streams the file to a session and prints the transcript. WAV files must
match the configured input encoding, anything else is sent as raw 24kHz
PCM16.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().Duration("timeout", speechtotext.DefaultTimeout, "give up after this long without a transcript")
	transcribeCmd.Flags().Bool("partial", false, "print partial transcripts as they arrive")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	partial, _ := cmd.Flags().GetBool("partial")

	config, err := loadConfig()
	if err != nil {
		return err
	}
	// Turns are committed explicitly once the whole file is sent.
	config.TurnDetection = protocol.TurnDetection{Mode: protocol.TurnDetectionNone}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(args[0]), ".wav") {
		samples, encodingInfo, err := audio.DecodeWAV(data)
		if err != nil {
			return err
		}
		if encodingInfo != config.InputEncoding {
			return fmt.Errorf("%s is %d Hz %s, expected %d Hz %s", args[0],
				encodingInfo.SampleRate, encodingInfo.Format.Name(),
				config.InputEncoding.SampleRate, config.InputEncoding.Format.Name())
		}
		data = samples
	}

	client, err := realtime.NewClient(config)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(cmd.Context()) }()

	opts := []speechtotext.TranscriptionOption{speechtotext.WithTimeout(timeout)}
	if partial {
		opts = append(opts, speechtotext.WithPartialTranscriptionCallback(func(transcript string) {
			fmt.Fprint(cmd.ErrOrStderr(), transcript)
		}))
	}

	transcript, err := speechtotext.NewTranscriber(client, opts...).Transcribe(cmd.Context(), bytes.NewReader(data))
	if err != nil {
		return err
	}
	if partial {
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	fmt.Fprintln(cmd.OutOrStdout(), transcript)
	return nil
}
