package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-realtime/core/audio/miniaudio"
	"github.com/koscakluka/ema-realtime/core/protocol"
	"github.com/koscakluka/ema-realtime/core/realtime"
)

var talkCmd = &cobra.Command{
	Use:   "talk",
	Short: "Have a voice conversation through the default audio devices",
	Long: `Streams the microphone to the session and plays responses on the default
output device. Speaking over the assistant interrupts it. With
--turn-detection none, press Enter to end your turn.`,
	RunE: runTalk,
}

func runTalk(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	device, err := miniaudio.NewClient(config.InputEncoding)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	defer device.Close()

	out := cmd.OutOrStdout()
	client, err := realtime.NewClient(config,
		realtime.WithAudioCallback(func(audio []byte) {
			_ = device.SendAudio(audio)
		}),
		realtime.WithTranscriptCallback(func(text string) {
			fmt.Fprint(out, text)
		}),
		realtime.WithResponseDoneCallback(func() {
			fmt.Fprintln(out)
		}),
		realtime.WithSpeechStartedCallback(func() {
			device.ClearBuffer()
			fmt.Fprintln(out, "\n[listening]")
		}),
		realtime.WithErrorCallback(func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}),
	)
	if err != nil {
		return err
	}

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	if err := device.StartCapture(ctx, func(audio []byte) {
		if err := client.SendAudio(ctx, audio); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to send audio: %v\n", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	defer func() { _ = device.StopCapture() }()

	fmt.Fprintln(out, "Talking, ctrl+c to stop.")

	if config.TurnDetection.Mode == protocol.TurnDetectionNone {
		go commitOnEnter(ctx, cmd, client)
	}

	<-ctx.Done()
	return nil
}

// commitOnEnter ends the user turn each time a line is read from stdin.
func commitOnEnter(ctx context.Context, cmd *cobra.Command, client *realtime.Client) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if err := client.CommitAudio(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to commit audio: %v\n", err)
		}
	}
}
