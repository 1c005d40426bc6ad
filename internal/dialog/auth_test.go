package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/maestrokit/maestro/pkg/models"
)

// fakeProvider is a scriptable in-memory token provider.
type fakeProvider struct {
	tokens     map[string]string // connection -> token
	signedOut  []string
	signOutErr error
}

func (p *fakeProvider) Connections(ctx context.Context, userID string) ([]string, error) {
	var out []string
	for c := range p.tokens {
		out = append(out, c)
	}
	return out, nil
}

func (p *fakeProvider) GetToken(ctx context.Context, userID, connection string) (string, error) {
	return p.tokens[connection], nil
}

func (p *fakeProvider) SignOut(ctx context.Context, userID, connection string) error {
	if p.signOutErr != nil {
		return p.signOutErr
	}
	p.signedOut = append(p.signedOut, connection)
	delete(p.tokens, connection)
	return nil
}

func authTurn() *Turn {
	a := models.NewMessage("conv-1", "")
	a.From = "user-1"
	return NewTurn(&a, NewStack())
}

func TestAuthDialog_CachedTokenCompletesImmediately(t *testing.T) {
	provider := &fakeProvider{tokens: map[string]string{"graph": "tok-123"}}
	d := NewAuthDialog(provider, "Please sign in.")

	turn := authTurn()
	turn.Stack.Push(d.ID())

	result, err := d.Begin(context.Background(), turn, AuthOptions{Connection: "graph"})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if result.Status != StatusComplete {
		t.Fatalf("status = %v, want complete", result.Status)
	}

	resp, ok := result.Value.(ProviderTokenResponse)
	if !ok {
		t.Fatalf("value type = %T, want ProviderTokenResponse", result.Value)
	}
	if resp.Provider != "graph" || resp.Token != "tok-123" {
		t.Errorf("response = %+v", resp)
	}
	if len(turn.Responses()) != 0 {
		t.Error("cached token must not prompt")
	}
}

func TestAuthDialog_PromptsThenCompletes(t *testing.T) {
	provider := &fakeProvider{tokens: map[string]string{}}
	d := NewAuthDialog(provider, "Please sign in.")

	turn := authTurn()
	turn.Stack.Push(d.ID())

	result, err := d.Begin(context.Background(), turn, AuthOptions{Connection: "graph"})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if result.Status != StatusWaiting {
		t.Fatalf("status = %v, want waiting", result.Status)
	}
	if len(turn.Responses()) != 1 || turn.Responses()[0].Text != "Please sign in." {
		t.Errorf("expected sign-in prompt, got %+v", turn.Responses())
	}

	// User replies with the magic code.
	reply := models.NewMessage("conv-1", "code-456")
	reply.From = "user-1"
	next := NewTurn(&reply, turn.Stack)

	result, err = d.Continue(context.Background(), next)
	if err != nil {
		t.Fatalf("Continue failed: %v", err)
	}
	if result.Status != StatusComplete {
		t.Fatalf("status = %v, want complete", result.Status)
	}
	resp := result.Value.(ProviderTokenResponse)
	if resp.Token != "code-456" {
		t.Errorf("token = %q, want code-456", resp.Token)
	}
}

func TestAuthDialog_BadOptions(t *testing.T) {
	d := NewAuthDialog(&fakeProvider{}, "Please sign in.")
	turn := authTurn()
	turn.Stack.Push(d.ID())

	if _, err := d.Begin(context.Background(), turn, "not options"); err == nil {
		t.Error("expected error for wrong options type")
	}
}

func TestSignOutAll(t *testing.T) {
	provider := &fakeProvider{tokens: map[string]string{"graph": "a", "calendar": "b"}}

	if err := SignOutAll(context.Background(), provider, "user-1"); err != nil {
		t.Fatalf("SignOutAll failed: %v", err)
	}
	if len(provider.signedOut) != 2 {
		t.Errorf("signed out of %d connections, want 2", len(provider.signedOut))
	}
	if len(provider.tokens) != 0 {
		t.Errorf("tokens remain: %v", provider.tokens)
	}
}

func TestSignOutAll_NilProvider(t *testing.T) {
	err := SignOutAll(context.Background(), nil, "user-1")
	if !errors.Is(err, ErrSignOutUnsupported) {
		t.Fatalf("err = %v, want ErrSignOutUnsupported", err)
	}
	if err.Error() != "sign-out is not supported by the current adapter" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestSignOutAll_ProviderError(t *testing.T) {
	provider := &fakeProvider{
		tokens:     map[string]string{"graph": "a"},
		signOutErr: errors.New("revocation failed"),
	}

	if err := SignOutAll(context.Background(), provider, "user-1"); err == nil {
		t.Error("expected provider error to propagate")
	}
}
