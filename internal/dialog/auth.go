package dialog

import (
	"context"
	"errors"
	"fmt"
)

// ErrSignOutUnsupported is returned when logout is requested on a transport
// that cannot revoke tokens.
var ErrSignOutUnsupported = errors.New("sign-out is not supported by the current adapter")

// ProviderTokenResponse is the outcome of a completed auth dialog.
type ProviderTokenResponse struct {
	// Provider is the connection name the token belongs to.
	Provider string `json:"provider"`
	// Token is the raw access token.
	Token string `json:"token"`
}

// TokenProvider abstracts token acquisition and revocation. Transports that
// support auth implement it; the in-proc console transport does not.
type TokenProvider interface {
	// Connections lists the provider connection names available to a user.
	Connections(ctx context.Context, userID string) ([]string, error)
	// GetToken fetches a cached token for a connection, or "" when absent.
	GetToken(ctx context.Context, userID, connection string) (string, error)
	// SignOut revokes the user's token for a connection.
	SignOut(ctx context.Context, userID, connection string) error
}

// AuthDialogID identifies the auth dialog in a registry.
const AuthDialogID = "authDialog"

// DefaultAuthPrompt is the sign-in prompt shown when no cached token exists.
const DefaultAuthPrompt = "Please sign in to continue."

// AuthDialog resolves a provider token for the requesting skill. With a
// cached token it completes immediately; otherwise it prompts and waits for
// the magic-code style reply.
type AuthDialog struct {
	provider TokenProvider
	// Prompt is the text shown when no cached token exists.
	Prompt string
}

// NewAuthDialog builds an auth dialog over a token provider.
func NewAuthDialog(provider TokenProvider, prompt string) *AuthDialog {
	return &AuthDialog{provider: provider, Prompt: prompt}
}

// ID implements Dialog.
func (d *AuthDialog) ID() string { return AuthDialogID }

// AuthOptions carries the connection the requesting skill needs a token for.
type AuthOptions struct {
	Connection string
}

// Begin implements Dialog. Options must be AuthOptions.
func (d *AuthDialog) Begin(ctx context.Context, t *Turn, options any) (Result, error) {
	opts, ok := options.(AuthOptions)
	if !ok {
		return Result{}, fmt.Errorf("auth dialog requires AuthOptions, got %T", options)
	}
	if d.provider == nil {
		return Result{}, ErrSignOutUnsupported
	}

	frame := t.Stack.Active()
	frame.State["connection"] = opts.Connection

	token, err := d.provider.GetToken(ctx, t.UserID(), opts.Connection)
	if err != nil {
		return Result{}, fmt.Errorf("get token for %s: %w", opts.Connection, err)
	}
	if token != "" {
		return Result{
			Status: StatusComplete,
			Value:  ProviderTokenResponse{Provider: opts.Connection, Token: token},
		}, nil
	}

	t.SendText(d.Prompt)
	return Result{Status: StatusWaiting}, nil
}

// Continue implements Dialog: the user's reply is treated as the token
// material (magic code) and exchanged through the provider.
func (d *AuthDialog) Continue(ctx context.Context, t *Turn) (Result, error) {
	frame := t.Stack.Active()
	connection, _ := frame.State["connection"].(string)

	token, err := d.provider.GetToken(ctx, t.UserID(), connection)
	if err != nil {
		return Result{}, fmt.Errorf("get token for %s: %w", connection, err)
	}
	if token == "" {
		// Provider still has nothing; fall back to the raw reply.
		token = t.Activity.Text
	}
	if token == "" {
		t.SendText(d.Prompt)
		return Result{Status: StatusWaiting}, nil
	}

	return Result{
		Status: StatusComplete,
		Value:  ProviderTokenResponse{Provider: connection, Token: token},
	}, nil
}

// SignOutAll revokes the user's tokens on every connection the provider
// knows. A nil provider reports ErrSignOutUnsupported.
func SignOutAll(ctx context.Context, provider TokenProvider, userID string) error {
	if provider == nil {
		return ErrSignOutUnsupported
	}
	connections, err := provider.Connections(ctx, userID)
	if err != nil {
		return fmt.Errorf("list connections: %w", err)
	}
	for _, c := range connections {
		if err := provider.SignOut(ctx, userID, c); err != nil {
			return fmt.Errorf("sign out of %s: %w", c, err)
		}
	}
	return nil
}
