// Package forward relays turns between the assistant and a skill: a
// pluggable transport plus the dialog that owns a forwarded conversation.
package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/maestrokit/maestro/pkg/models"
)

// Transport moves activities to a skill and returns the skill's queued
// replies in emission order.
type Transport interface {
	// ForwardActivity sends one activity to the skill.
	ForwardActivity(ctx context.Context, activity models.Activity) ([]models.Activity, error)
	// CancelRemoteDialogs tells the skill to abandon its dialog state.
	CancelRemoteDialogs(ctx context.Context) error
	// Disconnect releases the transport.
	Disconnect()
}

// SkillFunc is a locally registered skill: it consumes one activity and
// returns the replies it wants delivered.
type SkillFunc func(ctx context.Context, activity models.Activity) ([]models.Activity, error)

// InProcTransport drives a skill living in the same process. The console
// uses it so a full assistant loop runs without any remote endpoint.
type InProcTransport struct {
	handler SkillFunc
}

// NewInProcTransport wraps a local skill function.
func NewInProcTransport(handler SkillFunc) *InProcTransport {
	return &InProcTransport{handler: handler}
}

// ForwardActivity implements Transport.
func (t *InProcTransport) ForwardActivity(ctx context.Context, activity models.Activity) ([]models.Activity, error) {
	if t.handler == nil {
		return nil, fmt.Errorf("in-proc transport has no skill handler")
	}
	return t.handler(ctx, activity)
}

// CancelRemoteDialogs implements Transport: the local skill receives an
// endOfConversation so it can drop its state.
func (t *InProcTransport) CancelRemoteDialogs(ctx context.Context) error {
	if t.handler == nil {
		return nil
	}
	_, err := t.handler(ctx, models.Activity{Type: models.ActivityEndOfConversation})
	return err
}

// Disconnect implements Transport.
func (t *InProcTransport) Disconnect() {}

// httpForwardTimeout bounds one forwarded turn.
const httpForwardTimeout = 30 * time.Second

// HTTPTransport POSTs activities to a skill's manifest endpoint.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTransport builds a transport for the given skill endpoint.
func NewHTTPTransport(endpoint string) *HTTPTransport {
	return &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: httpForwardTimeout},
	}
}

// ForwardActivity implements Transport.
func (t *HTTPTransport) ForwardActivity(ctx context.Context, activity models.Activity) ([]models.Activity, error) {
	body, err := json.Marshal(activity)
	if err != nil {
		return nil, fmt.Errorf("encode activity: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward to %s: %w", t.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("skill endpoint %s returned status %d", t.endpoint, resp.StatusCode)
	}

	var replies []models.Activity
	if err := json.NewDecoder(resp.Body).Decode(&replies); err != nil {
		return nil, fmt.Errorf("decode skill replies: %w", err)
	}
	return replies, nil
}

// CancelRemoteDialogs implements Transport.
func (t *HTTPTransport) CancelRemoteDialogs(ctx context.Context) error {
	_, err := t.ForwardActivity(ctx, models.Activity{Type: models.ActivityEndOfConversation})
	return err
}

// Disconnect implements Transport.
func (t *HTTPTransport) Disconnect() {
	t.client.CloseIdleConnections()
}
