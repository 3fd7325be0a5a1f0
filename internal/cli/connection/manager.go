package connection

import (
	"sync"
	"time"
)

// Manager tracks the server the CLI talks to and builds clients bound to the
// current session.
type Manager struct {
	mu      sync.Mutex
	server  string
	timeout time.Duration
	tokens  TokenSource
	opts    []Option
	client  *HTTPClient
}

// NewManager creates a connection manager for server. opts are applied to
// every client it builds.
func NewManager(server string, timeout time.Duration, tokens TokenSource, opts ...Option) *Manager {
	return &Manager{
		server:  server,
		timeout: timeout,
		tokens:  tokens,
		opts:    opts,
	}
}

// Server returns the current server address.
func (m *Manager) Server() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.server
}

// Timeout returns the per-request timeout.
func (m *Manager) Timeout() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timeout <= 0 {
		return DefaultTimeout
	}
	return m.timeout
}

// SetServer switches to another server. The next Client call rebuilds the
// HTTP client.
func (m *Manager) SetServer(server string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if server != m.server {
		m.server = server
		m.client = nil
	}
}

// Client returns the HTTP client for the current server. The manager's
// timeout and token source are applied after the caller's options, so they
// also hold for a client supplied through WithHTTPClient.
func (m *Manager) Client() *HTTPClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		opts := make([]Option, 0, len(m.opts)+2)
		opts = append(opts, m.opts...)
		opts = append(opts, WithTimeout(m.timeout), WithTokenSource(m.tokens))
		m.client = NewHTTPClient(m.server, opts...)
	}
	return m.client
}
