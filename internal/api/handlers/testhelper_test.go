package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hoanghai1803/inkboard/internal/ai"
	"github.com/hoanghai1803/inkboard/internal/storage"
)

// newTestStore creates an in-memory SQLite store with migrations applied. It
// registers a cleanup function to close the database when the test
// completes.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// stubProvider answers every call with the same text or error. respond, when
// set, picks the answer from the prompt.
type stubProvider struct {
	name    string
	text    string
	err     error
	respond func(ai.Prompt) string
	calls   atomic.Int32
}

func (p *stubProvider) Name() string  { return p.name }
func (p *stubProvider) Model() string { return p.name + "-test" }

func (p *stubProvider) Generate(_ context.Context, prompt ai.Prompt) (string, error) {
	p.calls.Add(1)
	if p.err != nil {
		return "", &ai.ProviderError{Provider: p.name, Err: p.err}
	}
	if p.respond != nil {
		return p.respond(prompt), nil
	}
	return p.text, nil
}

var errUpstream = errors.New("upstream exploded")

// serve runs handler against a request with the given method, path and
// body, and returns the recorder.
func serve(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

// testEnvelope mirrors envelope with Data kept raw for per-test decoding.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	return env
}

// expectFailure checks a failure envelope with the given status and error
// text.
func expectFailure(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("got status %d, want %d; body: %s", w.Code, status, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("success = true, want false")
	}
	if env.Data != nil {
		t.Errorf("data = %s, want absent", env.Data)
	}
	if !strings.Contains(env.Error, message) {
		t.Errorf("error = %q, want it to contain %q", env.Error, message)
	}
}

// expectData checks a 200 success envelope and decodes its data into v.
func expectData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatalf("success = false, error = %q", env.Error)
	}
	if env.Error != "" {
		t.Errorf("error = %q, want empty on success", env.Error)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decoding data %s: %v", env.Data, err)
	}
}
