package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"alertbridge/internal"
)

func testDispatchPayload() internal.DispatchPayload {
	return internal.DispatchPayload{
		AlertNumber:  123,
		GHSAID:       "GHSA-xxxx",
		Severity:     "high",
		Ecosystem:    "npm",
		Dependencies: []string{"brace-expansion", "minimatch"},
	}
}

// TestDispatch tests that exactly one repository_dispatch call is issued
// with the event type and client payload attached.
func TestDispatch(t *testing.T) {
	var (
		calls   int
		authz   string
		request struct {
			EventType     string                   `json:"event_type"`
			ClientPayload internal.DispatchPayload `json:"client_payload"`
		}
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/acme/widgets/dispatches" {
			http.NotFound(w, r)
			return
		}
		calls++
		authz = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode dispatch request: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewDispatchClient("dependabot-alert-v1", server.URL)
	if err := client.Dispatch(context.Background(), "ghs_test", "acme", "widgets", testDispatchPayload()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected exactly one dispatch call, got %d", calls)
	}
	if authz != "Bearer ghs_test" {
		t.Fatalf("expected installation token auth, got %q", authz)
	}
	if request.EventType != "dependabot-alert-v1" {
		t.Fatalf("expected event type dependabot-alert-v1, got %q", request.EventType)
	}
	if !reflect.DeepEqual(request.ClientPayload, testDispatchPayload()) {
		t.Fatalf("unexpected client payload: %+v", request.ClientPayload)
	}
}

// TestDispatchFailure tests that a rejected dispatch surfaces as an error.
func TestDispatchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"validation failed"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewDispatchClient("", server.URL)
	if err := client.Dispatch(context.Background(), "ghs_test", "acme", "widgets", testDispatchPayload()); err == nil {
		t.Fatalf("expected error for rejected dispatch")
	}
}

// TestNewDispatchClientDefaultEvent tests that an empty event type falls
// back to the versioned default.
func TestNewDispatchClientDefaultEvent(t *testing.T) {
	client := NewDispatchClient("", "")
	if client.eventType != DefaultDispatchEvent {
		t.Fatalf("expected default event type, got %q", client.eventType)
	}
}
