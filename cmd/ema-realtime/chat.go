package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-realtime/core/audio/miniaudio"
	"github.com/koscakluka/ema-realtime/core/realtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#268BD2"))

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B58900"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DC322F"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the model by typing",
	Long: `Opens a session and sends every typed line as a user message. Responses
stream into the transcript as they arrive. Esc interrupts the current
response, ctrl+c quits.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("speak", false, "play the spoken response on the default output device")
}

type (
	transcriptMsg    string
	responseDoneMsg  struct{}
	speechStartedMsg struct{}
	chatErrMsg       struct{ err error }
)

func runChat(cmd *cobra.Command, _ []string) error {
	speak, _ := cmd.Flags().GetBool("speak")

	config, err := loadConfig()
	if err != nil {
		return err
	}
	if !speak {
		config.Modalities = []string{"text"}
	}

	events := make(chan tea.Msg, 256)
	quit := make(chan struct{})
	post := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-quit:
		}
	}

	opts := []realtime.Option{
		realtime.WithTranscriptCallback(func(text string) { post(transcriptMsg(text)) }),
		realtime.WithResponseDoneCallback(func() { post(responseDoneMsg{}) }),
		realtime.WithSpeechStartedCallback(func() { post(speechStartedMsg{}) }),
		realtime.WithErrorCallback(func(err error) { post(chatErrMsg{err: err}) }),
	}

	clearPlayback := func() {}
	if speak {
		player, err := miniaudio.NewClient(config.OutputEncoding)
		if err != nil {
			return fmt.Errorf("failed to open audio device: %w", err)
		}
		defer player.Close()
		opts = append(opts, realtime.WithAudioCallback(func(audio []byte) {
			_ = player.SendAudio(audio)
		}))
		clearPlayback = player.ClearBuffer
	}

	client, err := realtime.NewClient(config, opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	program := tea.NewProgram(newChatModel(ctx, client, events, clearPlayback), tea.WithAltScreen())
	_, err = program.Run()
	close(quit)
	return err
}

type chatEntry struct {
	user bool
	text string
}

type chatModel struct {
	ctx           context.Context
	client        *realtime.Client
	events        chan tea.Msg
	clearPlayback func()

	textInput textinput.Model
	viewport  viewport.Model
	ready     bool

	entries   []chatEntry
	streaming bool
	status    string
	err       error
}

func newChatModel(ctx context.Context, client *realtime.Client, events chan tea.Msg, clearPlayback func()) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Say something..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 80

	return chatModel{
		ctx:           ctx,
		client:        client,
		events:        events,
		clearPlayback: clearPlayback,
		textInput:     ti,
		status:        "connected",
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

func waitForEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.streaming = false
			m.status = "interrupted"
			m.clearPlayback()
			cmds = append(cmds, m.cancel())

		case "enter":
			text := strings.TrimSpace(m.textInput.Value())
			if text == "" {
				break
			}
			m.textInput.SetValue("")
			m.entries = append(m.entries, chatEntry{user: true, text: text})
			m.streaming = false
			m.status = "thinking"
			m.refresh()
			cmds = append(cmds, m.send(text))
		}

	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		footerHeight := lipgloss.Height(m.footerView())

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.textInput.Width = msg.Width - 4
		m.refresh()

	case transcriptMsg:
		if !m.streaming {
			m.entries = append(m.entries, chatEntry{})
			m.streaming = true
		}
		m.entries[len(m.entries)-1].text += string(msg)
		m.status = "responding"
		m.refresh()
		cmds = append(cmds, waitForEvent(m.events))

	case responseDoneMsg:
		m.streaming = false
		m.status = "ready"
		cmds = append(cmds, waitForEvent(m.events))

	case speechStartedMsg:
		m.streaming = false
		m.status = "listening"
		cmds = append(cmds, waitForEvent(m.events))

	case chatErrMsg:
		m.err = msg.err
		cmds = append(cmds, waitForEvent(m.events))

	case error:
		m.err = msg
	}

	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)
	// Keys belong to the input; the viewport only follows the transcript.
	if _, ok := msg.(tea.KeyMsg); !ok {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m chatModel) send(text string) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.SendText(m.ctx, text); err != nil {
			return err
		}
		return nil
	}
}

func (m chatModel) cancel() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.CancelResponse(m.ctx); err != nil {
			return err
		}
		return nil
	}
}

func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.contentView())
	m.viewport.GotoBottom()
}

func (m chatModel) contentView() string {
	width := m.viewport.Width - 2
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for i, entry := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if entry.user {
			b.WriteString(userStyle.Render(wordwrap.String("> "+entry.text, width)))
		} else {
			b.WriteString(assistantStyle.Render(wordwrap.String(entry.text, width)))
		}
	}
	return b.String()
}

func (m chatModel) headerView() string {
	return titleStyle.Render(" ema-realtime ") + " " + infoStyle.Render(m.status)
}

func (m chatModel) footerView() string {
	footer := m.textInput.View()
	if m.err != nil {
		footer = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + footer
	}
	return "\n" + footer
}

func (m chatModel) View() string {
	if !m.ready {
		return "\n  Connecting..."
	}
	return fmt.Sprintf("%s\n%s%s", m.headerView(), m.viewport.View(), m.footerView())
}
