package command

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

func TestApp(t *testing.T) {
	app := App()
	if app == nil {
		t.Fatal("App() returned nil")
	}

	if app.Name != "tracker-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "tracker-cli")
	}
	if app.Usage == "" {
		t.Error("Usage should not be empty")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}

	requiredCommands := []string{"login", "logout", "signup", "me", "session", "expense", "users", "system", "config", "version", "shell"}
	for _, name := range requiredCommands {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	app := App()

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		for _, name := range flag.Names() {
			flagNames[name] = true
		}
	}

	requiredFlags := []string{"server", "s", "config", "c", "output", "o", "verbose", "V", "session-file"}
	for _, name := range requiredFlags {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func TestApp_BeforeInstallsRuntime(t *testing.T) {
	env := newCLIEnv(t)

	app := App()
	var rt *Runtime
	app.Commands = append(app.Commands, &cli.Command{
		Name: "inspect",
		Action: func(c *cli.Context) error {
			var err error
			rt, err = GetRuntime(c)
			return err
		},
	})
	app.Writer = &strings.Builder{}

	err := app.Run([]string{"tracker-cli", "--server", env.backend.URL, "--config", env.configFile(),
		"--session-file", env.sessionFile(), "-o", "json", "inspect"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rt == nil {
		t.Fatal("Before hook did not install a runtime")
	}
	if rt.Conn.Server() != env.backend.URL {
		t.Errorf("server = %q, want flag value %q", rt.Conn.Server(), env.backend.URL)
	}
	if rt.Config.Output != "json" {
		t.Errorf("output = %q, want json", rt.Config.Output)
	}
	if rt.Config.SessionPath() != env.sessionFile() {
		t.Errorf("session file = %q, want %q", rt.Config.SessionPath(), env.sessionFile())
	}
}

func TestApp_InvalidOutputFlag(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run("-o", "xml", "version"); err == nil {
		t.Error("unknown output format should fail")
	}
}

func TestGetRuntime_Missing(t *testing.T) {
	c := cli.NewContext(&cli.App{}, nil, nil)
	if _, err := GetRuntime(c); err == nil {
		t.Error("GetRuntime() should fail without a runtime")
	}
}

func TestVersionCommand(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("-o", "json", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}

	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version output is not JSON: %v\n%s", err, out)
	}
	if info["version"] == "" || info["go_version"] == "" {
		t.Errorf("version output incomplete: %v", info)
	}
}

func TestSystemHealth(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("system", "health")
	if err != nil {
		t.Fatalf("system health error = %v", err)
	}
	if !strings.Contains(out, "Server is healthy") || !strings.Contains(out, "memory") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSystemHealth_Unreachable(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.Close()

	if _, err := env.run("system", "health"); err == nil || !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("error = %v, want unreachable", err)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error", errString("boom"), "boom"},
		{"domain error uses details", domain.ErrAccountExists.WithDetails("User already exists"), "User already exists"},
		{"domain error without details", domain.ErrTokenMissing, domain.ErrTokenMissing.Message},
		{"field errors", domain.Credential{Email: "nope"}.Validate(), "invalid form: email must contain '@' and '.'; password is required"},
	}
	for _, tt := range tests {
		if got := describe(tt.err); got != tt.want {
			t.Errorf("%s: describe() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }
