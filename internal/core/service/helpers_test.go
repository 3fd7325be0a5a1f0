package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yndnr/expense-tracker/internal/cli/connection"
	"github.com/yndnr/expense-tracker/internal/storage/local"
)

// mockBackend serves canned responses per "METHOD /path".
type mockBackend struct {
	t        *testing.T
	handlers map[string]http.HandlerFunc
	calls    map[string]int
}

func newMockBackend(t *testing.T) *mockBackend {
	return &mockBackend{
		t:        t,
		handlers: make(map[string]http.HandlerFunc),
		calls:    make(map[string]int),
	}
}

func (m *mockBackend) on(method, path string, status int, body any) *mockBackend {
	m.handlers[method+" "+path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body == nil {
			return
		}
		if raw, ok := body.(string); ok {
			w.Write([]byte(raw))
			return
		}
		json.NewEncoder(w).Encode(body)
	}
	return m
}

func (m *mockBackend) handle(method, path string, fn http.HandlerFunc) *mockBackend {
	m.handlers[method+" "+path] = fn
	return m
}

// start returns a client bound to the mock server and the store it reads
// tokens from.
func (m *mockBackend) start() (*connection.HTTPClient, *SessionStore) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		m.calls[key]++
		h, ok := m.handlers[key]
		if !ok {
			m.t.Errorf("unexpected request %s", key)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	m.t.Cleanup(server.Close)

	store := NewSessionStore(local.NewMemoryStore(), nil)
	return connection.NewHTTPClient(server.URL, connection.WithTokenSource(store)), store
}

// unreachableClient points at a closed server.
func unreachableClient(t *testing.T) *connection.HTTPClient {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return connection.NewHTTPClient(url)
}
