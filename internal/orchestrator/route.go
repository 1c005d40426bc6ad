package orchestrator

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/maestrokit/maestro/internal/activity"
	"github.com/maestrokit/maestro/internal/dialog"
	"github.com/maestrokit/maestro/internal/forward"
	"github.com/maestrokit/maestro/internal/responses"
	"github.com/maestrokit/maestro/pkg/models"
)

// dispatchTarget is where a routed utterance goes. Exactly one of the
// target fields is meaningful, discriminated by kind.
type dispatchTarget struct {
	kind targetKind
	// skill and actionID are set for targetSkill.
	skill    *models.SkillManifest
	actionID string
	// knowledgeBase is set for targetQnA.
	knowledgeBase string
}

type targetKind int

const (
	targetFallback targetKind = iota
	targetSkill
	targetLocalModel
	targetQnA
)

// OnMessage routes a message when no dialog is active: dispatch model first,
// then the matching target.
func (o *Orchestrator) OnMessage(ctx context.Context, t *dialog.Turn) error {
	if !t.Activity.IsMessageWithText() {
		return nil
	}

	target, err := o.resolveTarget(ctx, t)
	if err != nil {
		return err
	}

	switch target.kind {
	case targetSkill:
		return o.beginSkill(ctx, t, target.skill, target.actionID)
	case targetLocalModel:
		return o.runLocalModel(ctx, t)
	case targetQnA:
		return o.runQnA(ctx, t, target.knowledgeBase)
	default:
		return o.sendTemplate(t, responses.Confused, nil)
	}
}

// resolveTarget classifies the utterance. Skill lookups try the action table
// first, then the declared dispatch intents.
func (o *Orchestrator) resolveTarget(ctx context.Context, t *dialog.Turn) (dispatchTarget, error) {
	intent := models.IntentNone
	if o.dispatch != nil {
		result, err := o.dispatch.Recognize(ctx, t.Activity.Text)
		if err != nil {
			return dispatchTarget{}, fmt.Errorf("dispatch recognizer: %w", err)
		}
		intent, _ = result.TopScoringIntent()
	}
	o.logger.Log("dispatch intent %s", intent)

	router := o.routerFn()
	if manifest, ok := router.IsSkill(intent); ok {
		return dispatchTarget{kind: targetSkill, skill: manifest, actionID: intent}, nil
	}
	if manifest, ok := router.IdentifyRegisteredSkill(intent); ok {
		return dispatchTarget{kind: targetSkill, skill: manifest}, nil
	}

	switch intent {
	case DispatchGeneral:
		return dispatchTarget{kind: targetLocalModel}, nil
	case DispatchFAQ:
		return dispatchTarget{kind: targetQnA, knowledgeBase: "faq"}, nil
	case DispatchChitchat:
		return dispatchTarget{kind: targetQnA, knowledgeBase: "chitchat"}, nil
	default:
		return dispatchTarget{kind: targetFallback}, nil
	}
}

// beginSkill marks the skill active and starts its dialog with the user's
// slot context. A cached dialog is rebuilt when the router's manifest has
// changed since it was registered, so skills.json edits take effect on the
// next routed turn.
func (o *Orchestrator) beginSkill(ctx context.Context, t *dialog.Turn, manifest *models.SkillManifest, actionID string) error {
	registry := o.driver.Registry()
	cached, ok := registry.Find(manifest.ID)
	sd, isSkill := cached.(*forward.SkillDialog)
	if !ok || !isSkill || !reflect.DeepEqual(sd.Manifest(), *manifest) {
		registry.Add(forward.NewSkillDialog(*manifest, o.transportFor(*manifest), o.tokens))
	}

	sc, err := o.store.UserSkillContext(t.UserID())
	if err != nil {
		return fmt.Errorf("load skill context: %w", err)
	}
	if err := o.store.SetActiveSkill(t.ConversationID(), manifest.ID); err != nil {
		return err
	}

	err = o.driver.Begin(ctx, t, manifest.ID, forward.BeginOptions{
		ActionID: actionID,
		Context:  sc,
	})
	if err != nil {
		o.logger.Log("skill %s failed: %v", manifest.ID, err)
		if cerr := o.store.ClearActiveSkill(t.ConversationID()); cerr != nil {
			return cerr
		}
		return o.sendTemplate(t, responses.SkillError, map[string]string{"skill": manifest.Name})
	}
	return nil
}

// runLocalModel answers general-model utterances that dispatch classified as
// local: escalation gets the static response, everything else falls through
// to confused.
func (o *Orchestrator) runLocalModel(ctx context.Context, t *dialog.Turn) error {
	result, err := o.general.Recognize(ctx, t.Activity.Text)
	if err != nil {
		return fmt.Errorf("general recognizer: %w", err)
	}
	intent, _ := result.TopScoringIntent()

	switch intent {
	case IntentEscalate:
		return o.sendTemplate(t, responses.Escalate, nil)
	case IntentHelp:
		return o.sendTemplate(t, responses.Help, nil)
	default:
		return o.sendTemplate(t, responses.Confused, nil)
	}
}

// runQnA answers from the named knowledge base. A configured intent without
// a backing service is a hard error so misconfiguration cannot pass as a
// confused reply.
func (o *Orchestrator) runQnA(ctx context.Context, t *dialog.Turn, knowledgeBase string) error {
	backend, ok := o.qna[knowledgeBase]
	if !ok {
		return fmt.Errorf("no QnA service configured for %q", knowledgeBase)
	}

	answers, err := backend.Answers(ctx, t.Activity.Text)
	if err != nil {
		return fmt.Errorf("qna %s: %w", knowledgeBase, err)
	}
	if len(answers) == 0 {
		return o.sendTemplate(t, responses.Confused, nil)
	}
	t.SendText(answers[0].Text)
	return nil
}

// OnEvent handles event and endOfConversation activities addressed to the
// assistant itself.
func (o *Orchestrator) OnEvent(ctx context.Context, t *dialog.Turn) error {
	if t.Activity.Type == models.ActivityEndOfConversation {
		t.Stack.Clear()
		return o.store.ClearActiveSkill(t.ConversationID())
	}

	kind, ok := activity.KindOf(t.Activity.Name)
	if !ok {
		t.Send(t.Activity.CreateTrace(fmt.Sprintf("unknown event %q", t.Activity.Name)))
		return nil
	}

	switch kind {
	case activity.EventLocation:
		location := eventString(t.Activity)
		if location == "" {
			t.Send(t.Activity.CreateTrace("location event carried no value"))
			return nil
		}
		return o.store.SetSkillContextValue(t.UserID(), "location", location)

	case activity.EventTimezone:
		tz := eventString(t.Activity)
		if _, err := time.LoadLocation(tz); err != nil {
			t.Send(t.Activity.CreateTrace(fmt.Sprintf("received an invalid timezone %q", tz)))
			return nil
		}
		return o.store.SetSkillContextValue(t.UserID(), "timezone", tz)

	case activity.EventTokenResponse:
		// Hand the token to whichever dialog is waiting on it.
		return o.driver.ContinueActive(ctx, t)

	case activity.EventStartConversation:
		return o.OnMembersAdded(ctx, t)

	default:
		t.Send(t.Activity.CreateTrace(fmt.Sprintf("unhandled event %q", t.Activity.Name)))
		return nil
	}
}

// eventString pulls the conventional "value" payload out of an event.
func eventString(a *models.Activity) string {
	if a.Value == nil {
		return ""
	}
	s, _ := a.Value["value"].(string)
	return s
}
