// Package tui is the interactive chat console: a viewport transcript over a
// text input, driving one orchestrator turn per submitted line.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/maestrokit/maestro/pkg/models"
)

// TurnRunner runs one incoming activity and returns the outgoing ones. The
// orchestrator implements it.
type TurnRunner interface {
	RunTurn(ctx context.Context, incoming *models.Activity) ([]models.Activity, error)
}

// TurnResultMsg carries a finished turn back into the update loop.
type TurnResultMsg struct {
	Activities []models.Activity
	Err        error
}

// SystemLineMsg surfaces out-of-band notices (skills reload, watcher errors)
// as a dimmed line in the transcript. Senders use tea.Program.Send.
type SystemLineMsg struct {
	Text string
}

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	botStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	traceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	inputTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// Console is the bubbletea model for the chat console.
type Console struct {
	runner TurnRunner

	viewport viewport.Model
	input    textinput.Model

	conversationID string
	userID         string
	locale         string

	lines     []string
	showTrace bool
	ready     bool
	waiting   bool
	quitting  bool
	width     int
	height    int
}

// NewConsole builds a console over a turn runner.
func NewConsole(runner TurnRunner, userID, locale string) *Console {
	ti := textinput.New()
	ti.Placeholder = "Say something..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	return &Console{
		runner:         runner,
		input:          ti,
		conversationID: uuid.NewString(),
		userID:         userID,
		locale:         locale,
	}
}

// Init implements tea.Model: the assistant greets first, as if the user just
// joined the conversation.
func (c *Console) Init() tea.Cmd {
	greeting := models.Activity{
		Type:           models.ActivityConversationUpdate,
		ID:             uuid.NewString(),
		ConversationID: c.conversationID,
		From:           c.userID,
		Recipient:      "maestro",
		Locale:         c.locale,
	}
	return tea.Batch(textinput.Blink, c.runTurn(greeting))
}

// runTurn executes one turn off the update loop.
func (c *Console) runTurn(incoming models.Activity) tea.Cmd {
	return func() tea.Msg {
		out, err := c.runner.RunTurn(context.Background(), &incoming)
		return TurnResultMsg{Activities: out, Err: err}
	}
}

// Update implements tea.Model.
func (c *Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			c.quitting = true
			return c, tea.Quit

		case "ctrl+t":
			c.showTrace = !c.showTrace
			c.appendSystem(fmt.Sprintf("trace display %s", onOff(c.showTrace)))
			return c, nil

		case "enter":
			text := strings.TrimSpace(c.input.Value())
			if text == "" || c.waiting {
				return c, nil
			}
			c.input.Reset()
			c.appendLine(userStyle.Render("You: ") + text)
			c.waiting = true

			incoming := models.NewMessage(c.conversationID, text)
			incoming.From = c.userID
			incoming.Recipient = "maestro"
			incoming.Locale = c.locale
			return c, c.runTurn(incoming)
		}

	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		inputHeight := 3
		if !c.ready {
			c.viewport = viewport.New(msg.Width, msg.Height-inputHeight-1)
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = msg.Height - inputHeight - 1
		}
		c.input.Width = msg.Width - 6
		c.refresh()
		return c, nil

	case TurnResultMsg:
		c.waiting = false
		if msg.Err != nil {
			c.appendLine(errorStyle.Render("error: " + msg.Err.Error()))
		}
		for _, a := range msg.Activities {
			c.appendActivity(a)
		}
		return c, nil

	case SystemLineMsg:
		c.appendSystem(msg.Text)
		return c, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// appendActivity renders one outgoing activity into transcript lines.
func (c *Console) appendActivity(a models.Activity) {
	switch a.Type {
	case models.ActivityMessage:
		c.appendLine(botStyle.Render("Maestro: " + a.Text))
		if len(a.SuggestedActions) > 0 {
			c.appendLine(hintStyle.Render("  try: " + strings.Join(a.SuggestedActions, " · ")))
		}
	case models.ActivityTrace:
		if c.showTrace {
			c.appendLine(traceStyle.Render("  trace: " + a.Text))
		}
	case models.ActivityEndOfConversation:
		c.appendSystem("conversation ended")
	}
}

func (c *Console) appendSystem(text string) {
	c.appendLine(systemStyle.Render("— " + text))
}

func (c *Console) appendLine(line string) {
	c.lines = append(c.lines, line)
	c.refresh()
}

func (c *Console) refresh() {
	if !c.ready {
		return
	}
	c.viewport.SetContent(strings.Join(c.lines, "\n"))
	c.viewport.GotoBottom()
}

// View implements tea.Model.
func (c *Console) View() string {
	if c.quitting {
		return "Goodbye!\n"
	}
	if !c.ready {
		return "starting..."
	}

	prompt := inputTextStyle.Render("> ")
	input := inputBoxStyle.Width(c.width - 2).Render(prompt + c.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, c.viewport.View(), input)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// NewProgram builds the bubbletea program for the console.
func NewProgram(runner TurnRunner, userID, locale string) (*tea.Program, *Console) {
	app := NewConsole(runner, userID, locale)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
