package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/travellabs/tripbot/internal/cli/formatter"
	"github.com/travellabs/tripbot/internal/dialogue"
	"github.com/travellabs/tripbot/internal/domain"
)

// turnDoneMsg carries the result of one dialogue turn back to the model.
type turnDoneMsg struct {
	reply dialogue.Reply
	err   error
}

// chatModel is the terminal chat: a scrollback of turns above a single
// input line. A turn runs as a command so the spinner keeps moving while
// the assistant thinks.
type chatModel struct {
	ctx   context.Context
	sess  *dialogue.Session
	input textinput.Model
	spin  spinner.Model
	lines []string

	waiting   bool
	confirmed bool
	quitting  bool
	err       error
}

func newChatModel(ctx context.Context, sess *dialogue.Session) chatModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = `type "exit" to leave`
	ti.CharLimit = 1000
	ti.Focus()

	return chatModel{
		ctx:   ctx,
		sess:  sess,
		input: ti,
		spin:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
		lines: []string{formatter.AssistantPrefix() + sess.Start()},
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case turnDoneMsg:
		m.waiting = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.lines = append(m.lines, formatter.AssistantPrefix()+msg.reply.Text)
		if msg.reply.State == domain.StateConfirmed {
			m.confirmed = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		return m.leave()
	}
	if m.waiting {
		return m, nil
	}
	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return m, nil
	}
	if isExit(line) {
		return m.leave()
	}
	m.lines = append(m.lines, formatter.UserPrompt()+line)
	m.waiting = true
	return m, tea.Batch(m.spin.Tick, m.runTurn(line))
}

func (m chatModel) leave() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.lines = append(m.lines, formatter.AssistantPrefix()+m.sess.Texts().Get(dialogue.TextGoodbye))
	return m, tea.Quit
}

func (m chatModel) runTurn(line string) tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		reply, err := sess.Handle(ctx, line)
		return turnDoneMsg{reply: reply, err: err}
	}
}

func (m chatModel) View() string {
	var b strings.Builder
	b.WriteString(strings.Join(m.lines, "\n\n"))
	b.WriteString("\n\n")
	switch {
	case m.quitting, m.confirmed, m.err != nil:
	case m.waiting:
		b.WriteString("  " + m.spin.View() + " " + formatter.Dim("thinking") + "\n")
	default:
		b.WriteString(formatter.UserPrompt() + m.input.View() + "\n")
	}
	return b.String()
}

// runChatTUI runs the chat as a terminal program and hands a confirmed
// session to finishChat.
func runChatTUI(cmd *cobra.Command, app *App, lang domain.Language) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess := app.NewSession(lang)

	p := tea.NewProgram(newChatModel(ctx, sess),
		tea.WithContext(ctx),
		tea.WithInput(app.input()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running chat: %w", err)
	}

	m, ok := final.(chatModel)
	if !ok {
		return nil
	}
	if m.err != nil {
		return m.err
	}
	if m.confirmed {
		return finishChat(cmd, app, sess)
	}
	return nil
}
