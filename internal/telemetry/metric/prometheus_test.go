package metric

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.RequestsTotal == nil || r.RequestDuration == nil {
		t.Error("request metrics are nil")
	}
	if r.LoginAttempts == nil || r.Registrations == nil {
		t.Error("account metrics are nil")
	}
}

func TestGlobal(t *testing.T) {
	r1 := Global()
	r2 := Global()
	if r1 != r2 {
		t.Error("Global() should return the same instance")
	}
}

func TestHandler(t *testing.T) {
	body := scrape(t, Handler())

	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
	if !strings.Contains(body, "process_") {
		t.Error("expected process metrics")
	}
}

func TestRequestMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordRequest("GET", "/expenses", "200")
	r.RecordRequest("POST", "/login", "401")
	r.ObserveRequestDuration("GET", "/expenses", 0.005)
	r.ObserveRequestDuration("GET", "/expenses", 0.010)

	body := scrape(t, r.Handler())

	if !strings.Contains(body, `tracker_requests_total{method="GET",route="/expenses",status="200"} 1`) {
		t.Error("expected tracker_requests_total for GET /expenses 200")
	}
	if !strings.Contains(body, `tracker_requests_total{method="POST",route="/login",status="401"} 1`) {
		t.Error("expected tracker_requests_total for POST /login 401")
	}
	if !strings.Contains(body, `tracker_request_duration_seconds_count{method="GET",route="/expenses"} 2`) {
		t.Error("expected tracker_request_duration_seconds_count 2")
	}
}

func TestAccountMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordLogin("success")
	r.RecordLogin("success")
	r.RecordLogin("invalid")
	r.RecordRegistration("created")
	r.RecordRegistration("duplicate")
	r.RecordAuthFailure("expired")
	r.IncExpensesCreated()

	body := scrape(t, r.Handler())

	for _, want := range []string{
		`tracker_login_attempts_total{result="success"} 2`,
		`tracker_login_attempts_total{result="invalid"} 1`,
		`tracker_registrations_total{result="duplicate"} 1`,
		`tracker_auth_failures_total{reason="expired"} 1`,
		"tracker_expenses_created_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestCollector(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"up", nil, `tracker_storage_up{driver="memory"} 1`},
		{"down", errors.New("connection refused"), `tracker_storage_up{driver="memory"} 0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.MustRegister(NewCollector(fakePinger{err: tt.err}, "memory"))

			if body := scrape(t, r.Handler()); !strings.Contains(body, tt.want) {
				t.Errorf("expected %s", tt.want)
			}
		})
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordLogin("success")
				r.RecordRequest("GET", "/me", "200")
				r.ObserveRequestDuration("GET", "/me", 0.001)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if body := scrape(t, r.Handler()); !strings.Contains(body, `tracker_login_attempts_total{result="success"} 1000`) {
		t.Error("expected 1000 successful logins")
	}
}
