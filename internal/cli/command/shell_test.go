package command

import (
	"context"
	"strings"
	"testing"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

func TestShell_NavigationFlow(t *testing.T) {
	env := newCLIEnv(t)
	env.stdin = strings.NewReader(strings.Join([]string{
		"open personal-info",
		"where",
		"login --email ada@example.com --password secret1",
		"where",
		"me",
		"logout",
		"where",
		"exit",
	}, "\n") + "\n")

	out, err := env.run("shell", "--no-history")
	if err != nil {
		t.Fatalf("shell error = %v", err)
	}

	wants := []string{
		"No session.",
		"/personal-info requires a session; redirected to /login",
		"Logged in as ada@example.com",
		"now at /personal-info",
		"ada@example.com",
		"Logged out",
		"now at /login",
	}
	last := 0
	for _, want := range wants {
		idx := strings.Index(out[last:], want)
		if idx < 0 {
			t.Fatalf("shell output missing %q after offset %d:\n%s", want, last, out)
		}
		last += idx + len(want)
	}
}

func TestShell_SignupPartialFailureGoesToLogin(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.rejectLogin = true
	env.stdin = strings.NewReader("open signup\nsignup --email new@example.com --password secret1\nwhere\n")

	out, err := env.run("shell", "--no-history")
	if err != nil {
		t.Fatalf("shell error = %v", err)
	}
	if !strings.Contains(out, "Error: Signup succeeded but automatic login failed") {
		t.Errorf("shell should report the partial failure:\n%s", out)
	}
	if !strings.Contains(out, "now at /login") {
		t.Errorf("shell should move to /login:\n%s", out)
	}
}

func TestShell_SignupStatusAndReset(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.rejectLogin = true
	env.stdin = strings.NewReader(strings.Join([]string{
		"signup --email new@example.com --password secret1",
		"signup status",
		"signup reset",
		"signup status",
		"exit",
	}, "\n") + "\n")

	out, err := env.run("shell", "--no-history")
	if err != nil {
		t.Fatalf("shell error = %v", err)
	}

	wants := []string{
		"login-after-registration-failed",
		"new@example.com",
		"Signup reset (was login-after-registration-failed)",
		"idle",
	}
	last := 0
	for _, want := range wants {
		idx := strings.Index(out[last:], want)
		if idx < 0 {
			t.Fatalf("shell output missing %q after offset %d:\n%s", want, last, out)
		}
		last += idx + len(want)
	}
	if strings.Contains(out[last:], "new@example.com") {
		t.Errorf("reset should forget the email:\n%s", out[last:])
	}
}

func TestShellExecutor_RejectsNestedShell(t *testing.T) {
	exec := &shellExecutor{}
	nav, err := exec.Execute(context.Background(), []string{"shell"})
	if err == nil {
		t.Error("nested shell should be rejected")
	}
	if nav != domain.NavStay {
		t.Errorf("nav = %v, want stay", nav)
	}
}
