package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/maestrokit/maestro/internal/activity"
	"github.com/maestrokit/maestro/internal/config"
	"github.com/maestrokit/maestro/internal/dialog"
	"github.com/maestrokit/maestro/internal/forward"
	"github.com/maestrokit/maestro/internal/recognizer"
	"github.com/maestrokit/maestro/internal/responses"
	"github.com/maestrokit/maestro/internal/skills"
	"github.com/maestrokit/maestro/internal/state"
	"github.com/maestrokit/maestro/pkg/models"
)

// General model intents the interruption resolver understands.
const (
	IntentCancel    = "Cancel"
	IntentHelp      = "Help"
	IntentLogout    = "Logout"
	IntentRepeat    = "Repeat"
	IntentStartOver = "StartOver"
	IntentEscalate  = "Escalate"
	IntentStop      = "Stop"
)

// Dispatch intents for the non-skill targets.
const (
	DispatchGeneral  = "l_general"
	DispatchFAQ      = "q_faq"
	DispatchChitchat = "q_chitchat"
)

// defaultThreshold is the minimum general-model confidence for acting on an
// interruption intent. The comparison is strictly greater-than.
const defaultThreshold = 0.5

// Options wires an Orchestrator. Store, Responses, Router and General are
// required; the rest degrade gracefully.
type Options struct {
	Config    *config.Config
	Store     state.Store
	Responses *responses.Manager
	// Router returns the current skill router; a func so live reload can
	// swap routers under the orchestrator.
	Router func() *skills.Router
	// General recognizes the cross-cutting interruption intents.
	General recognizer.Recognizer
	// Dispatch classifies utterances into skill/local/QnA intents.
	Dispatch recognizer.Recognizer
	// QnA maps knowledge-base names ("faq", "chitchat") to backends.
	QnA map[string]recognizer.QnA
	// TransportFor builds the transport used to reach a skill.
	TransportFor func(models.SkillManifest) forward.Transport
	// Tokens is the auth token provider; nil when the channel has none.
	Tokens dialog.TokenProvider
	// Threshold overrides the interruption confidence threshold.
	Threshold float64
	Logger    *DebugLogger
	Emitter   *EventEmitter
}

// Orchestrator is the assistant's root handler. It implements
// dialog.Handler and is driven one activity at a time.
type Orchestrator struct {
	cfg          *config.Config
	store        state.Store
	resp         *responses.Manager
	routerFn     func() *skills.Router
	general      recognizer.Recognizer
	dispatch     recognizer.Recognizer
	qna          map[string]recognizer.QnA
	transportFor func(models.SkillManifest) forward.Transport
	tokens       dialog.TokenProvider
	threshold    float64
	logger       *DebugLogger
	emitter      *EventEmitter

	driver *dialog.Driver

	mu     sync.Mutex
	stacks map[string]*dialog.Stack
}

// New builds an orchestrator and registers its dialogs.
func New(opts Options) (*Orchestrator, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("orchestrator requires a state store")
	}
	if opts.Responses == nil {
		return nil, fmt.Errorf("orchestrator requires a response manager")
	}
	if opts.Router == nil {
		return nil, fmt.Errorf("orchestrator requires a skill router")
	}
	if opts.General == nil {
		return nil, fmt.Errorf("orchestrator requires a general recognizer")
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = defaultThreshold
	}
	if opts.Logger == nil {
		opts.Logger = NopLogger()
	}
	if opts.TransportFor == nil {
		opts.TransportFor = func(m models.SkillManifest) forward.Transport {
			return forward.NewHTTPTransport(m.Endpoint)
		}
	}

	o := &Orchestrator{
		cfg:          opts.Config,
		store:        opts.Store,
		resp:         opts.Responses,
		routerFn:     opts.Router,
		general:      opts.General,
		dispatch:     opts.Dispatch,
		qna:          opts.QnA,
		transportFor: opts.TransportFor,
		tokens:       opts.Tokens,
		threshold:    threshold,
		logger:       opts.Logger,
		emitter:      opts.Emitter,
		stacks:       make(map[string]*dialog.Stack),
	}

	registry := dialog.NewRegistry()
	registry.Add(&cancelConfirmDialog{o: o})
	registry.Add(&onboardingDialog{o: o})
	registry.Add(dialog.NewAuthDialog(opts.Tokens, dialog.DefaultAuthPrompt))
	o.driver = dialog.NewDriver(o, registry)

	return o, nil
}

// RunTurn runs one incoming activity through the assistant and returns the
// outgoing activities in send order.
func (o *Orchestrator) RunTurn(ctx context.Context, incoming *models.Activity) ([]models.Activity, error) {
	t := dialog.NewTurn(incoming, o.stackFor(incoming.ConversationID))

	err := o.driver.RunTurn(ctx, t)
	sent := t.Responses()

	if err != nil {
		o.logger.Log("turn error: %v", err)
		if o.emitter != nil {
			o.emitter.Emit(TurnEvent{Type: EventError, Text: err.Error()})
		}
		return sent, err
	}

	// Keep the last turn's visible replies so Repeat can replay them.
	if incoming.ConversationID != "" {
		var visible []models.Activity
		for _, a := range sent {
			if a.Type == models.ActivityMessage {
				visible = append(visible, a)
			}
		}
		if len(visible) > 0 {
			if serr := o.store.SetPreviousResponses(incoming.ConversationID, visible); serr != nil {
				o.logger.Log("store previous responses: %v", serr)
			}
		}
	}

	if o.emitter != nil {
		for _, a := range sent {
			o.emitter.Emit(TurnEvent{Type: EventActivity, Activity: a})
		}
	}
	return sent, nil
}

// stackFor returns the conversation's in-memory dialog stack.
func (o *Orchestrator) stackFor(conversationID string) *dialog.Stack {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.stacks[conversationID]
	if !ok {
		s = dialog.NewStack()
		o.stacks[conversationID] = s
	}
	return s
}

// OnMembersAdded greets the user: first contact starts onboarding, everyone
// else gets the returning intro.
func (o *Orchestrator) OnMembersAdded(ctx context.Context, t *dialog.Turn) error {
	name, onboarded, err := o.store.Profile(t.UserID())
	if err != nil {
		return err
	}

	if !onboarded {
		if err := o.sendTemplate(t, responses.NewUserIntro, nil); err != nil {
			return err
		}
		return o.driver.Begin(ctx, t, onboardingDialogID, nil)
	}

	return o.sendTemplate(t, responses.ReturningIntro, map[string]string{"name": name})
}

// OnDialogComplete restores root control after the active dialog finishes.
func (o *Orchestrator) OnDialogComplete(ctx context.Context, t *dialog.Turn, result dialog.Result) error {
	switch v := result.Value.(type) {
	case cancelOutcome:
		if !v.confirmed {
			// Declined: the interrupted dialog stays where it was.
			return o.sendTemplate(t, responses.CancelDenied, nil)
		}
		if err := o.cancelActiveSkill(ctx, t.ConversationID()); err != nil {
			o.logger.Log("cancel active skill: %v", err)
		}
		t.Stack.Clear()
		if err := o.store.ClearActiveSkill(t.ConversationID()); err != nil {
			return err
		}
		return o.sendTemplate(t, responses.Cancelled, nil)

	case onboardingOutcome:
		// The onboarding dialog already confirmed the name.
		return nil

	case dialog.ProviderTokenResponse:
		// The sign-in the skill was waiting on finished; hand the token to
		// the suspended skill dialog as a tokens/response event.
		if t.Stack.Len() == 0 {
			return nil
		}
		event := models.NewEvent(t.ConversationID(), activity.EventTokenResponse.WireName(), map[string]any{
			"connection": v.Provider,
			"token":      v.Token,
		})
		event.From = t.Activity.From
		event.Locale = t.Activity.Locale
		prev := t.Activity
		t.Activity = &event
		err := o.driver.ContinueActive(ctx, t)
		t.Activity = prev
		return err

	default:
		// A skill (or other) dialog ran to completion.
		if err := o.store.ClearActiveSkill(t.ConversationID()); err != nil {
			return err
		}
		if result.Status == dialog.StatusComplete && t.Stack.Len() == 0 {
			return o.sendTemplate(t, responses.Completed, nil)
		}
		return nil
	}
}

// cancelActiveSkill abandons the remote conversation of the marked skill.
func (o *Orchestrator) cancelActiveSkill(ctx context.Context, conversationID string) error {
	skillID, err := o.store.ActiveSkill(conversationID)
	if err != nil || skillID == "" {
		return err
	}
	d, ok := o.driver.Registry().Find(skillID)
	if !ok {
		return nil
	}
	if sd, ok := d.(*forward.SkillDialog); ok {
		return sd.Cancel(ctx)
	}
	return nil
}

// sendTemplate renders a response template in the turn's locale and queues it.
func (o *Orchestrator) sendTemplate(t *dialog.Turn, templateID string, tokens map[string]string) error {
	a, err := o.resp.Response(templateID, t.Locale(), tokens)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateID, err)
	}
	a.ConversationID = t.ConversationID()
	a.ReplyToID = t.Activity.ID
	a.Recipient = t.Activity.From
	a.From = t.Activity.Recipient
	a.Locale = t.Activity.Locale
	t.Send(a)
	return nil
}

// Driver exposes the turn driver, mainly for wiring and tests.
func (o *Orchestrator) Driver() *dialog.Driver {
	return o.driver
}
