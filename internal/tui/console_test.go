package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maestrokit/maestro/pkg/models"
)

// fakeRunner echoes the incoming text back as a single reply.
type fakeRunner struct {
	received []models.Activity
}

func (r *fakeRunner) RunTurn(ctx context.Context, incoming *models.Activity) ([]models.Activity, error) {
	r.received = append(r.received, *incoming)
	reply := incoming.CreateReply("echo: " + incoming.Text)
	return []models.Activity{reply}, nil
}

func sized(c *Console) *Console {
	m, _ := c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m.(*Console)
}

func TestConsole_SubmitRunsTurn(t *testing.T) {
	runner := &fakeRunner{}
	c := sized(NewConsole(runner, "user1", "en-us"))

	c.input.SetValue("hello there")
	m, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	c = m.(*Console)
	if cmd == nil {
		t.Fatal("enter produced no command")
	}

	msg := cmd()
	result, ok := msg.(TurnResultMsg)
	if !ok {
		t.Fatalf("command produced %T, want TurnResultMsg", msg)
	}
	if result.Err != nil {
		t.Fatalf("turn error: %v", result.Err)
	}

	if len(runner.received) != 1 {
		t.Fatalf("runner received %d activities, want 1", len(runner.received))
	}
	got := runner.received[0]
	if got.Type != models.ActivityMessage || got.Text != "hello there" {
		t.Errorf("runner received %s %q", got.Type, got.Text)
	}
	if got.From != "user1" || got.Locale != "en-us" {
		t.Errorf("runner received from=%q locale=%q", got.From, got.Locale)
	}

	m, _ = c.Update(result)
	c = m.(*Console)
	if !transcriptContains(c, "echo: hello there") {
		t.Error("reply not appended to the transcript")
	}
}

func TestConsole_EmptyInputIgnored(t *testing.T) {
	c := sized(NewConsole(&fakeRunner{}, "user1", "en-us"))

	c.input.SetValue("   ")
	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank input still submitted a turn")
	}
}

func TestConsole_TraceHiddenByDefault(t *testing.T) {
	c := sized(NewConsole(&fakeRunner{}, "user1", "en-us"))

	trace := models.Activity{Type: models.ActivityTrace, Text: "diagnostic detail"}
	m, _ := c.Update(TurnResultMsg{Activities: []models.Activity{trace}})
	c = m.(*Console)
	if transcriptContains(c, "diagnostic detail") {
		t.Error("trace rendered while trace display is off")
	}

	m, _ = c.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	c = m.(*Console)
	m, _ = c.Update(TurnResultMsg{Activities: []models.Activity{trace}})
	c = m.(*Console)
	if !transcriptContains(c, "diagnostic detail") {
		t.Error("trace hidden while trace display is on")
	}
}

func TestConsole_SystemLine(t *testing.T) {
	c := sized(NewConsole(&fakeRunner{}, "user1", "en-us"))

	m, _ := c.Update(SystemLineMsg{Text: "skills reloaded"})
	c = m.(*Console)
	if !transcriptContains(c, "skills reloaded") {
		t.Error("system line not appended to the transcript")
	}
}

func transcriptContains(c *Console, substr string) bool {
	for _, line := range c.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
