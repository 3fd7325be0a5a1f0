package command

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

func TestLogin_Success(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("login", "--email", "ada@example.com", "--password", "secret1")
	if err != nil {
		t.Fatalf("login error = %v", err)
	}

	if !strings.Contains(out, "Logged in as ada@example.com") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Next: /personal-info") {
		t.Errorf("login should hand over to the protected route:\n%s", out)
	}

	data, err := os.ReadFile(env.sessionFile())
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if !strings.Contains(string(data), "token:") {
		t.Errorf("session file should hold the token:\n%s", data)
	}
}

func TestLogin_InvalidFormMakesNoRequest(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("login", "--email", "not-an-email", "--password", "123")
	if err == nil {
		t.Fatal("login with an invalid form should fail")
	}
	for _, want := range []string{"email must contain", "password must be at least 6"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
	if n := env.backend.count("POST", "/login"); n != 0 {
		t.Errorf("POST /login called %d times, want 0", n)
	}
}

func TestLogin_Rejected(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("login", "--email", "ada@example.com", "--password", "wrong-password")
	if err == nil || err.Error() != "Login failed" {
		t.Fatalf("error = %v, want Login failed", err)
	}
	if _, statErr := os.Stat(env.sessionFile()); !os.IsNotExist(statErr) {
		t.Error("a rejected login must not write a session")
	}
}

func TestLogin_FailureKeepsExistingSession(t *testing.T) {
	env := newCLIEnv(t)
	env.login()

	if _, err := env.run("login", "--email", "ada@example.com", "--password", "wrong-password"); err == nil {
		t.Fatal("expected login failure")
	}

	out, err := env.run("-o", "json", "session", "status")
	if err != nil {
		t.Fatalf("session status error = %v", err)
	}
	if !strings.Contains(out, `"authenticated": true`) {
		t.Errorf("earlier session should survive a failed login:\n%s", out)
	}
}

func TestLogin_ServerUnreachable(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.Close()

	_, err := env.run("login", "--email", "ada@example.com", "--password", "secret1")
	if err == nil || !strings.Contains(err.Error(), "Unable to reach the server") {
		t.Errorf("error = %v, want unreachable message", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	env := newCLIEnv(t)
	env.login()

	for i := 0; i < 2; i++ {
		out, err := env.run("logout")
		if err != nil {
			t.Fatalf("logout #%d error = %v", i+1, err)
		}
		if !strings.Contains(out, "Logged out") {
			t.Errorf("logout #%d output = %q", i+1, out)
		}
	}

	out, _ := env.run("-o", "json", "session", "status")
	if !strings.Contains(out, `"authenticated": false`) {
		t.Errorf("session should be cleared:\n%s", out)
	}
}

func TestSignup_Established(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("signup", "--email", "grace@example.com", "--password", "hopper1")
	if err != nil {
		t.Fatalf("signup error = %v", err)
	}
	for _, want := range []string{"Account created for grace@example.com", "Account ID: usr-new", "Next: /personal-info"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := env.run("me"); err != nil {
		t.Errorf("signup should leave an established session, me failed: %v", err)
	}
}

func TestSignup_Conflict(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("signup", "--email", "ada@example.com", "--password", "secret1")
	if err == nil || err.Error() != "User already exists" {
		t.Fatalf("error = %v, want server message verbatim", err)
	}
	if n := env.backend.count("POST", "/login"); n != 0 {
		t.Errorf("login must not run after a failed registration, called %d times", n)
	}
}

func TestSignup_AutoLoginFailure(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.rejectLogin = true

	out, err := env.run("signup", "--email", "linus@example.com", "--password", "kernel1")
	if err == nil || !strings.Contains(err.Error(), "automatic login failed") {
		t.Fatalf("error = %v, want partial failure", err)
	}
	if !strings.Contains(out, "Next: /login") {
		t.Errorf("partial failure should send the user to login:\n%s", out)
	}
	if _, statErr := os.Stat(env.sessionFile()); !os.IsNotExist(statErr) {
		t.Error("no session should be stored after the automatic login failed")
	}
}

func TestSignup_InvalidForm(t *testing.T) {
	env := newCLIEnv(t)

	if _, err := env.run("signup", "--email", "x", "--password", "secret1"); err == nil {
		t.Fatal("invalid email should fail")
	}
	if n := env.backend.count("POST", "/user-info"); n != 0 {
		t.Errorf("POST /user-info called %d times, want 0", n)
	}
}

func TestSignup_MissingFlags(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("TRACKER_PASSWORD", "")
	os.Unsetenv("TRACKER_PASSWORD")

	_, err := env.run("signup", "--email", "grace@example.com")
	if err == nil || !strings.Contains(err.Error(), "are required") {
		t.Fatalf("error = %v, want missing flag error", err)
	}
	if n := env.backend.count("POST", "/user-info"); n != 0 {
		t.Errorf("POST /user-info called %d times, want 0", n)
	}
}

func TestSignupStatus_Idle(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("-o", "json", "signup", "status")
	if err != nil {
		t.Fatalf("signup status error = %v", err)
	}

	var view signupView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if view.State != "idle" || view.Submitted {
		t.Errorf("view = %+v, want idle and not submitted", view)
	}
}

func TestCredentialFrom_LogsFormValidation(t *testing.T) {
	prev := logger.GetLevel()
	t.Cleanup(func() { logger.SetLevel(prev) })

	var buf bytes.Buffer
	log, err := logger.New(logger.Config{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}

	var cred domain.Credential
	app := &cli.App{
		Name:  "t",
		Flags: credentialFlags(true),
		Action: func(c *cli.Context) error {
			cred = credentialFrom(c, log)
			return nil
		},
	}
	if err := app.Run([]string{"t", "--email", "ada@example.com", "--password", "secret1"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := (domain.Credential{Email: "ada@example.com", Password: "secret1"}); cred != want {
		t.Errorf("credential = %+v, want %+v", cred, want)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want one log line per form change, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"form_valid":false`) {
		t.Errorf("form should be invalid before the password is set: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"form_valid":true`) {
		t.Errorf("form should be valid once both inputs are set: %s", lines[1])
	}
	if strings.Contains(buf.String(), "secret1") {
		t.Error("form logging must not include the password")
	}
}

func TestMe_RequiresSession(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("me")
	if err == nil || !strings.Contains(err.Error(), "requires a session") {
		t.Fatalf("error = %v, want guard denial", err)
	}
	if n := env.backend.count("GET", "/me"); n != 0 {
		t.Errorf("guard should block before any request, GET /me called %d times", n)
	}
}

func TestMe_Profile(t *testing.T) {
	env := newCLIEnv(t)
	env.login()

	out, err := env.run("-o", "json", "me")
	if err != nil {
		t.Fatalf("me error = %v", err)
	}

	var profile map[string]string
	if err := json.Unmarshal([]byte(out), &profile); err != nil {
		t.Fatalf("me output is not JSON: %v", err)
	}
	if profile["email"] != "ada@example.com" {
		t.Errorf("profile = %v", profile)
	}
}

func TestMe_ServerRejectsTokenKeepsSession(t *testing.T) {
	env := newCLIEnv(t)
	if err := os.WriteFile(env.sessionFile(), []byte("token: forged\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := env.run("me")
	if err == nil || !strings.Contains(err.Error(), "tracker-cli login") {
		t.Fatalf("error = %v, want hint to log in again", err)
	}

	data, _ := os.ReadFile(env.sessionFile())
	if !strings.Contains(string(data), "forged") {
		t.Error("profile fetch must not modify the stored session")
	}
}
