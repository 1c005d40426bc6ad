package recognizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRestQnA_Answers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "EndpointKey secret" {
			t.Errorf("Authorization = %q, want EndpointKey secret", got)
		}

		var req qnaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Question != "what are your hours" {
			t.Errorf("question = %q", req.Question)
		}

		json.NewEncoder(w).Encode(qnaResponse{Answers: []Answer{
			{Text: "We are open 9-5.", Score: 0.92},
			{Text: "We are a bot.", Score: 0.12},
		}})
	}))
	defer srv.Close()

	q := NewRestQnA(srv.URL, "secret", 0.5)
	answers, err := q.Answers(context.Background(), "what are your hours")
	if err != nil {
		t.Fatalf("Answers failed: %v", err)
	}

	if len(answers) != 1 {
		t.Fatalf("got %d answers, want 1 above threshold", len(answers))
	}
	if answers[0].Text != "We are open 9-5." {
		t.Errorf("answer = %q", answers[0].Text)
	}
}

func TestRestQnA_NoKeyNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		json.NewEncoder(w).Encode(qnaResponse{})
	}))
	defer srv.Close()

	q := NewRestQnA(srv.URL, "", 0.5)
	answers, err := q.Answers(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Answers failed: %v", err)
	}
	if len(answers) != 0 {
		t.Errorf("got %d answers, want 0", len(answers))
	}
}

func TestRestQnA_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	q := NewRestQnA(srv.URL, "", 0.5)
	if _, err := q.Answers(context.Background(), "hello"); err == nil {
		t.Error("expected error for 500 response")
	}
}
