package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"fiba/internal/core"
)

type fakeTokens struct {
	mu    sync.Mutex
	token string
}

func (f *fakeTokens) Token(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeTokens) ClearToken(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	return nil
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(core.Dashboard{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Options{Tokens: &fakeTokens{token: "tok-123"}})
	if _, err := client.DashboardData(context.Background()); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestNoBearerHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(core.Dashboard{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Options{Tokens: &fakeTokens{}})
	if _, err := client.DashboardData(context.Background()); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty", gotAuth)
	}
}

func TestReadFallsBackToMockWhenDegraded(t *testing.T) {
	// Unroutable base URL: every request is a transport failure.
	client := NewClient("http://127.0.0.1:1", Options{DegradeToMockOnError: true})

	dash, err := client.DashboardData(context.Background())
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if dash.Stats.MonthlySpending != 12450 {
		t.Fatalf("monthly spending = %d, want demo value 12450", dash.Stats.MonthlySpending)
	}

	status, err := client.WhatsAppStatus(context.Background())
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if status.Connected {
		t.Fatalf("degraded WhatsApp status must report disconnected")
	}
}

func TestReadSurfacesErrorWhenNotDegraded(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", Options{DegradeToMockOnError: false})
	if _, err := client.DashboardData(context.Background()); err == nil {
		t.Fatalf("expected error with degraded mode off")
	}
}

func TestReadFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Options{DegradeToMockOnError: true})
	anomalies, err := client.Anomalies(context.Background())
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if len(anomalies) != 3 {
		t.Fatalf("got %d demo anomalies, want 3", len(anomalies))
	}
}

func TestDegradedTransactionsHonorQuery(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", Options{DegradeToMockOnError: true})
	q := core.Query{Category: "Food & Dining", InputType: core.FilterAll}
	txs, err := client.Transactions(context.Background(), q)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if core.TotalAmount(txs) != 630 {
		t.Fatalf("total = %d, want 630", core.TotalAmount(txs))
	}
}

func TestWriteFailurePropagates(t *testing.T) {
	// Degraded mode on, but writes must never be absorbed.
	client := NewClient("http://127.0.0.1:1", Options{DegradeToMockOnError: true})

	tx := MockTransactions()[0]
	if _, err := client.CreateTransaction(context.Background(), tx); err == nil {
		t.Fatalf("create should propagate transport failure")
	}
	if _, err := client.UpdateTransaction(context.Background(), "1", tx); err == nil {
		t.Fatalf("update should propagate transport failure")
	}
	if err := client.DeleteTransaction(context.Background(), "1"); err == nil {
		t.Fatalf("delete should propagate transport failure")
	}
	if err := client.DisconnectWhatsApp(context.Background()); err == nil {
		t.Fatalf("disconnect should propagate transport failure")
	}
}

func TestCreateRejectsInvalidTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("invalid transaction must not reach the backend")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Options{})
	bad := core.Transaction{Merchant: "Swiggy"}
	if _, err := client.CreateTransaction(context.Background(), bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}
}

func TestUnauthorizedClearsTokenAndFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	hookFired := false
	client := NewClient(srv.URL, Options{
		Tokens:               tokens,
		DegradeToMockOnError: true,
		OnUnauthorized:       func() { hookFired = true },
	})

	// 401 supersedes the read fallback even in degraded mode.
	_, err := client.DashboardData(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
	if tokens.token != "" {
		t.Fatalf("token should be cleared after 401")
	}
	if !hookFired {
		t.Fatalf("unauthorized hook should fire")
	}
}

func TestStatusErrorOnWrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Options{})
	_, err := client.CreateTransaction(context.Background(), MockTransactions()[0])
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("got %v, want StatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", statusErr.StatusCode)
	}
}

func TestQueryParamsForwarded(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]core.Transaction{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Options{})
	q := core.Query{Search: "swiggy", Category: "Food & Dining", InputType: "text"}
	if _, err := client.Transactions(context.Background(), q); err != nil {
		t.Fatalf("transactions: %v", err)
	}
	parsed, err := http.NewRequest(http.MethodGet, "/?"+gotQuery, nil)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	values := parsed.URL.Query()
	if values.Get("search") != "swiggy" || values.Get("category") != "Food & Dining" || values.Get("inputType") != "text" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestTimeRangeForwarded(t *testing.T) {
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.URL.Query().Get("timeRange")
		json.NewEncoder(w).Encode(core.Analytics{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Options{})
	if _, err := client.Analytics(context.Background(), core.RangeQuarter); err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if gotRange != "quarter" {
		t.Fatalf("timeRange = %q, want quarter", gotRange)
	}
}

func TestMessageHistoryFallsBackToDemoWhenDegraded(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", Options{DegradeToMockOnError: true})

	messages, err := client.WhatsAppMessages(context.Background())
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if len(messages) != 6 {
		t.Fatalf("got %d demo messages, want 6", len(messages))
	}
	if messages[0].Transaction.Merchant != "Zomato" {
		t.Fatalf("first parsed merchant = %q, want Zomato", messages[0].Transaction.Merchant)
	}

	stats := core.MessageCounts(messages)
	if stats.Text != 2 || stats.Audio != 2 || stats.Image != 2 {
		t.Fatalf("demo history counts = %+v, want 2 per input type", stats)
	}
	if stats.Processed != 6 {
		t.Fatalf("processed = %d, want 6", stats.Processed)
	}
}

func TestMessageHistorySurfacesErrorWhenNotDegraded(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", Options{DegradeToMockOnError: false})
	if _, err := client.WhatsAppMessages(context.Background()); err == nil {
		t.Fatalf("expected error with degraded mode off")
	}
}
