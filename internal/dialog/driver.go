package dialog

import (
	"context"
	"fmt"

	"github.com/maestrokit/maestro/pkg/models"
)

// InterruptionSignal is the per-turn control signal an interruption check
// hands back to the driver. It is never persisted.
type InterruptionSignal int

const (
	// NoAction: nothing was interrupted, the turn proceeds normally.
	NoAction InterruptionSignal = iota
	// Resume: the interruption replied to the user and the active dialog
	// should re-prompt.
	Resume
	// Waiting: the interruption started its own dialog and is waiting for
	// user input.
	Waiting
	// End: the interruption fully handled the turn.
	End
)

// String returns the signal name.
func (s InterruptionSignal) String() string {
	switch s {
	case NoAction:
		return "noAction"
	case Resume:
		return "resume"
	case Waiting:
		return "waiting"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// Handler receives the hook calls of a turn. The orchestrator implements it;
// the driver owns the control flow between the hooks.
type Handler interface {
	// OnMembersAdded handles conversationUpdate activities.
	OnMembersAdded(ctx context.Context, t *Turn) error
	// OnMessage routes a message when no dialog is active.
	OnMessage(ctx context.Context, t *Turn) error
	// OnEvent handles event and endOfConversation activities.
	OnEvent(ctx context.Context, t *Turn) error
	// OnInterrupt checks a message for cross-cutting intents before the
	// active dialog sees it.
	OnInterrupt(ctx context.Context, t *Turn) (InterruptionSignal, error)
	// OnDialogComplete runs after the active dialog finishes.
	OnDialogComplete(ctx context.Context, t *Turn, result Result) error
}

// Reprompter is implemented by dialogs that can re-ask their pending prompt
// after an interruption replied to the user.
type Reprompter interface {
	Reprompt(ctx context.Context, t *Turn) error
}

// Driver runs one activity through the handler hooks and the dialog stack:
// interruption check first, then continuation of the active dialog, then
// root routing when the stack is empty.
type Driver struct {
	handler  Handler
	registry *Registry
}

// NewDriver builds a driver over a handler and a dialog registry.
func NewDriver(handler Handler, registry *Registry) *Driver {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Driver{handler: handler, registry: registry}
}

// Registry returns the driver's dialog registry.
func (d *Driver) Registry() *Registry {
	return d.registry
}

// RunTurn dispatches the turn's activity.
func (d *Driver) RunTurn(ctx context.Context, t *Turn) error {
	switch t.Activity.Type {
	case models.ActivityConversationUpdate:
		return d.handler.OnMembersAdded(ctx, t)

	case models.ActivityEvent, models.ActivityEndOfConversation:
		return d.handler.OnEvent(ctx, t)

	case models.ActivityMessage:
		return d.runMessage(ctx, t)

	default:
		// Unknown types get a trace so the channel can surface them.
		t.Send(t.Activity.CreateTrace(fmt.Sprintf("unhandled activity type %q", t.Activity.Type)))
		return nil
	}
}

// runMessage applies the interruption check, then continues or routes.
func (d *Driver) runMessage(ctx context.Context, t *Turn) error {
	signal, err := d.handler.OnInterrupt(ctx, t)
	if err != nil {
		return err
	}

	switch signal {
	case End, Waiting:
		// Turn fully consumed by the interruption.
		return nil

	case Resume:
		// The interruption already replied; re-ask the pending prompt.
		if frame := t.Stack.Active(); frame != nil {
			if dlg, ok := d.registry.Find(frame.DialogID); ok {
				if rp, ok := dlg.(Reprompter); ok {
					return rp.Reprompt(ctx, t)
				}
			}
		}
		return nil
	}

	// NoAction: the active dialog, if any, consumes the message.
	if frame := t.Stack.Active(); frame != nil {
		dlg, ok := d.registry.Find(frame.DialogID)
		if !ok {
			t.Stack.Clear()
			return fmt.Errorf("active dialog %q is not registered", frame.DialogID)
		}
		result, err := dlg.Continue(ctx, t)
		if err != nil {
			return err
		}
		return d.settle(ctx, t, result)
	}

	return d.handler.OnMessage(ctx, t)
}

// ContinueActive resumes the active dialog with the turn's activity. It is
// used by event handlers that must hand an event (e.g. a token response) to
// the waiting dialog. A turn with no active dialog is a no-op.
func (d *Driver) ContinueActive(ctx context.Context, t *Turn) error {
	frame := t.Stack.Active()
	if frame == nil {
		return nil
	}
	dlg, ok := d.registry.Find(frame.DialogID)
	if !ok {
		t.Stack.Clear()
		return fmt.Errorf("active dialog %q is not registered", frame.DialogID)
	}
	result, err := dlg.Continue(ctx, t)
	if err != nil {
		return err
	}
	return d.settle(ctx, t, result)
}

// Begin starts the dialog with the given id on top of the stack.
func (d *Driver) Begin(ctx context.Context, t *Turn, dialogID string, options any) error {
	dlg, ok := d.registry.Find(dialogID)
	if !ok {
		return fmt.Errorf("dialog %q is not registered", dialogID)
	}

	t.Stack.Push(dialogID)
	result, err := dlg.Begin(ctx, t, options)
	if err != nil {
		t.Stack.Pop()
		return err
	}
	return d.settle(ctx, t, result)
}

// settle pops finished dialogs and fires the completion hook.
func (d *Driver) settle(ctx context.Context, t *Turn, result Result) error {
	switch result.Status {
	case StatusComplete, StatusCancelled:
		t.Stack.Pop()
		return d.handler.OnDialogComplete(ctx, t, result)
	default:
		return nil
	}
}
