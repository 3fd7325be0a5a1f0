package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v2"
)

const testSigningKey = "command-test-key"

// fakeBackend is an in-memory tracker server.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]string // email -> password
	expenses []map[string]any
	hits     map[string]int
	// rejectLogin makes every login fail, as after a signup whose automatic
	// login is refused.
	rejectLogin bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		users: map[string]string{"ada@example.com": "secret1"},
		hits:  map[string]int{},
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[method+" "+path]
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits[r.Method+" "+r.URL.Path]++

	switch r.Method + " " + r.URL.Path {
	case "POST /login":
		var body struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&body)
		if b.rejectLogin || b.users[body.Email] != body.Password || body.Password == "" {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"access_token": signToken(body.Email)})
	case "GET /me":
		email, ok := b.authenticate(r)
		if !ok {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"id": "usr-" + email, "email": email, "created_at": "2026-01-02T03:04:05Z"})
	case "POST /user-info":
		var body struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&body)
		if _, exists := b.users[body.Email]; exists {
			jsonResponse(w, http.StatusConflict, map[string]string{"error": "User already exists"})
			return
		}
		b.users[body.Email] = body.Password
		jsonResponse(w, http.StatusCreated, map[string]string{"id": "usr-new"})
	case "GET /user-info":
		if _, ok := b.authenticate(r); !ok {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "Missing token"})
			return
		}
		var out []map[string]string
		for email := range b.users {
			out = append(out, map[string]string{"id": "usr-" + email, "email": email})
		}
		jsonResponse(w, http.StatusOK, out)
	case "GET /expenses":
		if _, ok := b.authenticate(r); !ok {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "Missing token"})
			return
		}
		jsonResponse(w, http.StatusOK, b.expenses)
	case "POST /expenses":
		if _, ok := b.authenticate(r); !ok {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "Missing token"})
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		body["id"] = fmt.Sprintf("exp-%d", len(b.expenses)+1)
		b.expenses = append([]map[string]any{body}, b.expenses...)
		jsonResponse(w, http.StatusCreated, map[string]any{"id": body["id"]})
	case "GET /health":
		jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy", "version": "test", "storage": "memory"})
	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBackend) authenticate(r *http.Request) (string, bool) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return []byte(testSigningKey), nil })
	if err != nil || !token.Valid {
		return "", false
	}
	email, _ := token.Claims.(jwt.MapClaims)["email"].(string)
	_, ok := b.users[email]
	return email, ok
}

func signToken(email string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "usr-" + email,
		"email":   email,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte(testSigningKey))
	return signed
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// cliEnv runs tracker-cli against a backend with an isolated config and
// session file.
type cliEnv struct {
	t       *testing.T
	backend *fakeBackend
	dir     string
	stdin   io.Reader
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	return &cliEnv{t: t, backend: newFakeBackend(t), dir: t.TempDir()}
}

func (e *cliEnv) sessionFile() string {
	return filepath.Join(e.dir, "session.yaml")
}

func (e *cliEnv) configFile() string {
	return filepath.Join(e.dir, "cli.yaml")
}

// run executes one CLI invocation and returns stdout and the error.
func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()

	app := App()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	if e.stdin != nil {
		app.Reader = e.stdin
	}
	app.ExitErrHandler = func(*cli.Context, error) {}

	full := []string{
		"tracker-cli",
		"--server", e.backend.URL,
		"--config", e.configFile(),
		"--session-file", e.sessionFile(),
	}
	err := app.Run(append(full, args...))
	return out.String(), err
}

// login establishes a session for the seeded account.
func (e *cliEnv) login() {
	e.t.Helper()
	if _, err := e.run("login", "--email", "ada@example.com", "--password", "secret1"); err != nil {
		e.t.Fatalf("login failed: %v", err)
	}
}
