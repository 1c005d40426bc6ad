package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// qnaTimeout bounds one knowledge-base query.
const qnaTimeout = 10 * time.Second

// RestQnA queries a remote QnA endpoint over HTTP. The endpoint receives a
// JSON `{"question": ...}` body and returns scored answers; answers below
// the configured threshold are dropped.
type RestQnA struct {
	endpoint  string
	key       string
	threshold float64
	client    *http.Client
}

// NewRestQnA builds a QnA client for the given endpoint. An empty key sends
// no authorization header.
func NewRestQnA(endpoint, key string, threshold float64) *RestQnA {
	return &RestQnA{
		endpoint:  endpoint,
		key:       key,
		threshold: threshold,
		client:    &http.Client{Timeout: qnaTimeout},
	}
}

// qnaRequest is the wire request body.
type qnaRequest struct {
	Question string `json:"question"`
}

// qnaResponse is the wire response body.
type qnaResponse struct {
	Answers []Answer `json:"answers"`
}

// Answers queries the endpoint and returns the answers at or above the
// threshold, best first as the service returned them.
func (q *RestQnA) Answers(ctx context.Context, question string) ([]Answer, error) {
	body, err := json.Marshal(qnaRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build qna request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.key != "" {
		req.Header.Set("Authorization", "EndpointKey "+q.key)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query qna endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qna endpoint returned status %d", resp.StatusCode)
	}

	var decoded qnaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode qna response: %w", err)
	}

	var answers []Answer
	for _, a := range decoded.Answers {
		if a.Score >= q.threshold {
			answers = append(answers, a)
		}
	}
	return answers, nil
}
