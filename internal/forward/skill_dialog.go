package forward

import (
	"context"
	"fmt"

	"github.com/maestrokit/maestro/internal/activity"
	"github.com/maestrokit/maestro/internal/dialog"
	"github.com/maestrokit/maestro/internal/state"
	"github.com/maestrokit/maestro/pkg/models"
)

// maxTokenExchanges caps nested tokens/request rounds within one turn so a
// misbehaving skill cannot loop the pump forever.
const maxTokenExchanges = 3

// BeginOptions carries what a skill dialog needs to start forwarding.
type BeginOptions struct {
	// ActionID is the manifest action that triggered the skill.
	ActionID string
	// Context is the user's slot bag; only slots the action declares are
	// sent to the skill.
	Context *state.SkillContext
}

// SkillDialog owns a forwarded conversation with one skill: it opens the
// conversation with a skillBegin event, relays every subsequent turn, and
// ends when the skill sends endOfConversation.
type SkillDialog struct {
	manifest  models.SkillManifest
	transport Transport
	provider  dialog.TokenProvider
	auth      *dialog.AuthDialog
}

// NewSkillDialog builds a dialog for the given manifest over a transport.
// The token provider may be nil when the transport cannot do auth.
func NewSkillDialog(manifest models.SkillManifest, transport Transport, provider dialog.TokenProvider) *SkillDialog {
	return &SkillDialog{
		manifest:  manifest,
		transport: transport,
		provider:  provider,
		auth:      dialog.NewAuthDialog(provider, dialog.DefaultAuthPrompt),
	}
}

// ID implements dialog.Dialog: the dialog id is the skill id.
func (d *SkillDialog) ID() string { return d.manifest.ID }

// Manifest returns the manifest the dialog was built from.
func (d *SkillDialog) Manifest() models.SkillManifest { return d.manifest }

// Begin implements dialog.Dialog. Options must be BeginOptions.
func (d *SkillDialog) Begin(ctx context.Context, t *dialog.Turn, options any) (dialog.Result, error) {
	opts, ok := options.(BeginOptions)
	if !ok {
		return dialog.Result{}, fmt.Errorf("skill dialog requires BeginOptions, got %T", options)
	}

	// An empty action id is a general invocation: the skill decides what to
	// do with the utterance, so slots match against every action it declares.
	var slots []models.Slot
	if opts.ActionID != "" {
		action, ok := d.manifest.FindAction(opts.ActionID)
		if !ok {
			return dialog.Result{}, fmt.Errorf("skill %s does not declare action %s", d.manifest.ID, opts.ActionID)
		}
		slots = action.Definition.Slots
	} else {
		for _, a := range d.manifest.Actions {
			slots = append(slots, a.Definition.Slots...)
		}
	}

	begin := models.NewEvent(t.ConversationID(), activity.EventSkillBegin.WireName(), filterSlots(opts.Context, slots))
	begin.From = t.Activity.From
	begin.Recipient = t.Activity.Recipient
	begin.Locale = t.Activity.Locale

	return d.forward(ctx, t, begin)
}

// Continue implements dialog.Dialog: the incoming activity is relayed to the
// skill unmodified.
func (d *SkillDialog) Continue(ctx context.Context, t *dialog.Turn) (dialog.Result, error) {
	return d.forward(ctx, t, *t.Activity)
}

// Cancel abandons the remote conversation and releases the transport.
func (d *SkillDialog) Cancel(ctx context.Context) error {
	err := d.transport.CancelRemoteDialogs(ctx)
	d.transport.Disconnect()
	if err != nil {
		return fmt.Errorf("cancel remote dialogs of %s: %w", d.manifest.ID, err)
	}
	return nil
}

// forward sends one activity and pumps the skill's replies.
func (d *SkillDialog) forward(ctx context.Context, t *dialog.Turn, out models.Activity) (dialog.Result, error) {
	replies, err := d.transport.ForwardActivity(ctx, out)
	if err != nil {
		return dialog.Result{}, fmt.Errorf("forward to skill %s: %w", d.manifest.ID, err)
	}
	return d.pump(ctx, t, replies, 0)
}

// pump relays the skill's replies to the user in emission order, handling
// protocol activities along the way.
func (d *SkillDialog) pump(ctx context.Context, t *dialog.Turn, replies []models.Activity, tokenRound int) (dialog.Result, error) {
	ended := false

	for _, reply := range replies {
		switch {
		case reply.Type == models.ActivityEndOfConversation:
			// The skill is done; control returns to the assistant.
			ended = true

		case reply.Type == models.ActivityEvent && kindOf(reply) == activity.EventTokenRequest:
			result, err := d.exchangeToken(ctx, t, reply, tokenRound)
			if err != nil {
				return dialog.Result{}, err
			}
			if result.Status == dialog.StatusComplete {
				ended = true
			}

		default:
			// Messages, traces and unknown events relay unmodified.
			t.Send(reply)
		}
	}

	if ended {
		d.transport.Disconnect()
		return dialog.Result{Status: dialog.StatusComplete}, nil
	}
	return dialog.Result{Status: dialog.StatusWaiting}, nil
}

// exchangeToken answers a tokens/request event by running the auth
// sub-dialog. A cached token completes it in place and the tokens/response
// is forwarded immediately; otherwise forwarding suspends behind the auth
// frame until the user signs in, and the completion hook re-forwards the
// token into this dialog.
func (d *SkillDialog) exchangeToken(ctx context.Context, t *dialog.Turn, request models.Activity, tokenRound int) (dialog.Result, error) {
	if d.provider == nil {
		return dialog.Result{}, fmt.Errorf("skill %s requested a token but no token provider is configured", d.manifest.ID)
	}
	if tokenRound >= maxTokenExchanges {
		return dialog.Result{}, fmt.Errorf("skill %s exceeded %d token exchanges in one turn", d.manifest.ID, maxTokenExchanges)
	}

	connection, _ := request.Value["connection"].(string)

	t.Stack.Push(dialog.AuthDialogID)
	result, err := d.auth.Begin(ctx, t, dialog.AuthOptions{Connection: connection})
	if err != nil {
		t.Stack.Pop()
		return dialog.Result{}, fmt.Errorf("auth for skill %s: %w", d.manifest.ID, err)
	}
	if result.Status == dialog.StatusWaiting {
		// The user was prompted; the auth frame owns the next turn.
		return dialog.Result{Status: dialog.StatusWaiting}, nil
	}
	t.Stack.Pop()

	resp, ok := result.Value.(dialog.ProviderTokenResponse)
	if !ok {
		return dialog.Result{}, fmt.Errorf("auth for skill %s completed with %T", d.manifest.ID, result.Value)
	}
	return d.forwardTokenResponse(ctx, t, resp, tokenRound)
}

// forwardTokenResponse sends a tokens/response event to the skill and pumps
// the replies.
func (d *SkillDialog) forwardTokenResponse(ctx context.Context, t *dialog.Turn, resp dialog.ProviderTokenResponse, tokenRound int) (dialog.Result, error) {
	response := models.NewEvent(t.ConversationID(), activity.EventTokenResponse.WireName(), map[string]any{
		"connection": resp.Provider,
		"token":      resp.Token,
	})
	response.From = t.Activity.From
	response.Locale = t.Activity.Locale

	replies, err := d.transport.ForwardActivity(ctx, response)
	if err != nil {
		return dialog.Result{}, fmt.Errorf("forward token response to skill %s: %w", d.manifest.ID, err)
	}
	return d.pump(ctx, t, replies, tokenRound+1)
}

// kindOf resolves an event activity's kind, unknown names included.
func kindOf(a models.Activity) activity.EventKind {
	kind, ok := activity.KindOf(a.Name)
	if !ok {
		return activity.EventUnknown
	}
	return kind
}

// filterSlots projects the user's slot bag onto the declared slot names.
// Matching is exact; context keys no slot declares are dropped silently.
func filterSlots(sc *state.SkillContext, slots []models.Slot) map[string]any {
	filtered := make(map[string]any)
	if sc == nil {
		return filtered
	}

	declared := make(map[string]bool, len(slots))
	for _, slot := range slots {
		declared[slot.Name] = true
	}

	for _, key := range sc.Keys() {
		if declared[key] {
			value, _ := sc.Get(key)
			filtered[key] = value
		}
	}
	return filtered
}
