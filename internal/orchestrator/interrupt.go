package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/maestrokit/maestro/internal/dialog"
	"github.com/maestrokit/maestro/internal/responses"
)

// OnInterrupt runs every message through the general model and resolves the
// cross-cutting intents before the active dialog sees the message. Only
// results strictly above the confidence threshold interrupt the turn.
func (o *Orchestrator) OnInterrupt(ctx context.Context, t *dialog.Turn) (dialog.InterruptionSignal, error) {
	if !t.Activity.IsMessageWithText() {
		return dialog.NoAction, nil
	}

	result, err := o.general.Recognize(ctx, t.Activity.Text)
	if err != nil {
		return dialog.NoAction, fmt.Errorf("general recognizer: %w", err)
	}
	intent, score := result.TopScoringIntent()
	if score <= o.threshold {
		return dialog.NoAction, nil
	}
	o.logger.Log("interruption intent %s (%.2f)", intent, score)

	switch intent {
	case IntentCancel:
		return o.interruptCancel(ctx, t)

	case IntentHelp:
		if err := o.sendTemplate(t, responses.Help, nil); err != nil {
			return dialog.NoAction, err
		}
		return dialog.Resume, nil

	case IntentLogout:
		return o.interruptLogout(ctx, t)

	case IntentRepeat:
		return o.interruptRepeat(t)

	case IntentStartOver:
		if err := o.cancelActiveSkill(ctx, t.ConversationID()); err != nil {
			o.logger.Log("cancel active skill: %v", err)
		}
		t.Stack.Clear()
		if err := o.store.ClearActiveSkill(t.ConversationID()); err != nil {
			return dialog.NoAction, err
		}
		if err := o.sendTemplate(t, responses.StartOver, nil); err != nil {
			return dialog.NoAction, err
		}
		return dialog.End, nil

	case IntentEscalate:
		if err := o.sendTemplate(t, responses.Escalate, nil); err != nil {
			return dialog.NoAction, err
		}
		return dialog.Resume, nil

	case IntentStop:
		// Stop is deliberately ignored so it can reach the active dialog.
		return dialog.NoAction, nil

	default:
		return dialog.NoAction, nil
	}
}

// interruptCancel asks for confirmation when a dialog is active, otherwise
// tells the user there is nothing to cancel. Saying "cancel" while the
// confirmation itself is pending re-asks instead of stacking a second frame.
func (o *Orchestrator) interruptCancel(ctx context.Context, t *dialog.Turn) (dialog.InterruptionSignal, error) {
	if t.Stack.Len() == 0 {
		if err := o.sendTemplate(t, responses.NothingToCancel, nil); err != nil {
			return dialog.NoAction, err
		}
		return dialog.End, nil
	}
	if frame := t.Stack.Active(); frame != nil && frame.DialogID == cancelConfirmDialogID {
		if err := o.sendTemplate(t, responses.CancelConfirm, nil); err != nil {
			return dialog.NoAction, err
		}
		return dialog.Waiting, nil
	}
	if err := o.driver.Begin(ctx, t, cancelConfirmDialogID, nil); err != nil {
		return dialog.NoAction, err
	}
	return dialog.Waiting, nil
}

// interruptLogout signs the user out of every connection and resets the
// conversation. An adapter without sign-out support surfaces
// ErrSignOutUnsupported to the caller unchanged.
func (o *Orchestrator) interruptLogout(ctx context.Context, t *dialog.Turn) (dialog.InterruptionSignal, error) {
	if err := dialog.SignOutAll(ctx, o.tokens, t.UserID()); err != nil {
		return dialog.NoAction, err
	}

	if err := o.cancelActiveSkill(ctx, t.ConversationID()); err != nil {
		o.logger.Log("cancel active skill: %v", err)
	}
	t.Stack.Clear()
	if err := o.store.ClearActiveSkill(t.ConversationID()); err != nil {
		return dialog.NoAction, err
	}
	if err := o.sendTemplate(t, responses.Logout, nil); err != nil {
		return dialog.NoAction, err
	}
	return dialog.End, nil
}

// interruptRepeat replays the previous turn's visible replies with fresh ids
// so channels do not de-duplicate them.
func (o *Orchestrator) interruptRepeat(t *dialog.Turn) (dialog.InterruptionSignal, error) {
	previous, err := o.store.PreviousResponses(t.ConversationID())
	if err != nil {
		return dialog.NoAction, err
	}
	if len(previous) == 0 {
		if err := o.sendTemplate(t, responses.Confused, nil); err != nil {
			return dialog.NoAction, err
		}
		return dialog.End, nil
	}
	for _, a := range previous {
		a.ID = uuid.NewString()
		a.ReplyToID = t.Activity.ID
		t.Send(a)
	}
	return dialog.Waiting, nil
}

const cancelConfirmDialogID = "cancelConfirmDialog"

// cancelOutcome is the completion value of the cancel confirmation dialog.
type cancelOutcome struct {
	confirmed bool
}

// cancelConfirmDialog asks a yes/no question before tearing down the active
// dialog. The affirmative path is handled by OnDialogComplete.
type cancelConfirmDialog struct {
	o *Orchestrator
}

func (d *cancelConfirmDialog) ID() string { return cancelConfirmDialogID }

func (d *cancelConfirmDialog) Begin(ctx context.Context, t *dialog.Turn, options any) (dialog.Result, error) {
	if err := d.o.sendTemplate(t, responses.CancelConfirm, nil); err != nil {
		return dialog.Result{}, err
	}
	return dialog.Result{Status: dialog.StatusWaiting}, nil
}

func (d *cancelConfirmDialog) Continue(ctx context.Context, t *dialog.Turn) (dialog.Result, error) {
	confirmed := isAffirmative(t.Activity.Text)
	return dialog.Result{
		Status: dialog.StatusComplete,
		Value:  cancelOutcome{confirmed: confirmed},
	}, nil
}

func (d *cancelConfirmDialog) Reprompt(ctx context.Context, t *dialog.Turn) error {
	return d.o.sendTemplate(t, responses.CancelConfirm, nil)
}

// isAffirmative does a small keyword check for confirmation prompts.
func isAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "yeah", "yep", "sure", "ok", "okay", "confirm":
		return true
	default:
		return false
	}
}

const onboardingDialogID = "onboardingDialog"

// onboardingOutcome is the completion value of the onboarding dialog.
type onboardingOutcome struct {
	name string
}

// onboardingDialog collects the new user's name and stores it on the
// profile.
type onboardingDialog struct {
	o *Orchestrator
}

func (d *onboardingDialog) ID() string { return onboardingDialogID }

func (d *onboardingDialog) Begin(ctx context.Context, t *dialog.Turn, options any) (dialog.Result, error) {
	if err := d.o.sendTemplate(t, responses.NamePrompt, nil); err != nil {
		return dialog.Result{}, err
	}
	return dialog.Result{Status: dialog.StatusWaiting}, nil
}

func (d *onboardingDialog) Continue(ctx context.Context, t *dialog.Turn) (dialog.Result, error) {
	name := strings.TrimSpace(t.Activity.Text)
	if name == "" {
		if err := d.o.sendTemplate(t, responses.NamePrompt, nil); err != nil {
			return dialog.Result{}, err
		}
		return dialog.Result{Status: dialog.StatusWaiting}, nil
	}

	if err := d.o.store.SetProfile(t.UserID(), name); err != nil {
		return dialog.Result{}, fmt.Errorf("save profile: %w", err)
	}
	if err := d.o.sendTemplate(t, responses.HaveNameMessage, map[string]string{"name": name}); err != nil {
		return dialog.Result{}, err
	}
	return dialog.Result{
		Status: dialog.StatusComplete,
		Value:  onboardingOutcome{name: name},
	}, nil
}

func (d *onboardingDialog) Reprompt(ctx context.Context, t *dialog.Turn) error {
	return d.o.sendTemplate(t, responses.NamePrompt, nil)
}
