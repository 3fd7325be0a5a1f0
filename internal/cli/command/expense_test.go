package command

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExpense_RequiresSession(t *testing.T) {
	env := newCLIEnv(t)

	for _, args := range [][]string{
		{"expense", "list"},
		{"expense", "add", "--category", "Food", "--price", "3", "--notes", "lunch with the team"},
		{"users", "list"},
	} {
		if _, err := env.run(args...); err == nil || !strings.Contains(err.Error(), "requires a session") {
			t.Errorf("%v: error = %v, want guard denial", args, err)
		}
	}
	if n := env.backend.count("GET", "/expenses") + env.backend.count("POST", "/expenses"); n != 0 {
		t.Errorf("guarded commands reached the server %d times", n)
	}
}

func TestExpense_AddAndList(t *testing.T) {
	env := newCLIEnv(t)
	env.login()

	out, err := env.run("expense", "add", "--category", "Food", "--price", "12.5",
		"--date", "2026-03-01", "--notes", "team lunch downtown")
	if err != nil {
		t.Fatalf("expense add error = %v", err)
	}
	if !strings.Contains(out, "Expense recorded: exp-1") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = env.run("-o", "json", "expense", "list")
	if err != nil {
		t.Fatalf("expense list error = %v", err)
	}

	var expenses []map[string]any
	if err := json.Unmarshal([]byte(out), &expenses); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(expenses) != 1 || expenses[0]["category"] != "Food" || expenses[0]["price"] != 12.5 {
		t.Errorf("expenses = %v", expenses)
	}
}

func TestExpense_ListEmptyTable(t *testing.T) {
	env := newCLIEnv(t)
	env.login()

	out, err := env.run("expense", "list")
	if err != nil {
		t.Fatalf("expense list error = %v", err)
	}
	if !strings.Contains(out, "No expenses recorded") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestExpense_AddInvalidMakesNoRequest(t *testing.T) {
	env := newCLIEnv(t)
	env.login()

	_, err := env.run("expense", "add", "--category", "Food", "--price", "-1", "--notes", "short")
	if err == nil {
		t.Fatal("invalid expense should fail")
	}
	for _, want := range []string{"notes", "price"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
	if n := env.backend.count("POST", "/expenses"); n != 0 {
		t.Errorf("POST /expenses called %d times, want 0", n)
	}
}

func TestUsersList(t *testing.T) {
	env := newCLIEnv(t)
	env.login()

	out, err := env.run("users", "list")
	if err != nil {
		t.Fatalf("users list error = %v", err)
	}
	if !strings.Contains(out, "EMAIL") || !strings.Contains(out, "ada@example.com") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
