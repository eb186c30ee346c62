package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st := memory.New()
	cfg := &config.Config{
		Port:               "0",
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 10000,
		JWTSecret:          "test-secret-0123456789",
		TokenTTL:           time.Hour,
	}

	return NewServer(Options{
		Config:     cfg,
		Records:    services.NewRecordService(st, nil),
		Dashboards: services.NewDashboardService(st),
		Users:      st,
		Tokens:     auth.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		Logger:     applog.New(applog.DefaultConfig()),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token
}

func TestAuthFlow(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h, "flow@example.com")

	t.Run("me returns the registered user", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/auth/me", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("me status = %d", rec.Code)
		}
		var u userResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
			t.Fatalf("decode me: %v", err)
		}
		if u.Email != "flow@example.com" {
			t.Errorf("email = %q", u.Email)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "flow@example.com", "password": "hunter2hunter2",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("login with right password", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "flow@example.com", "password": "hunter2hunter2",
		})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "flow@example.com", "password": "wrong-password",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("login with unknown email stays 401", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": "hunter2hunter2",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/expenses", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/expenses", "not.a.jwt", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestExpenseCRUD(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h, "crud@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/expenses", token, expenseRequest{
		Purpose: "groceries", Amount: "45.50", Category: "Food", Date: "2025-06-03",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created expenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Amount != "45.50" {
		t.Errorf("amount = %q, want 45.50", created.Amount)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/expenses/"+created.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPut, "/api/expenses/"+created.ID, token, expenseRequest{
		Purpose: "groceries and wine", Amount: "52.00", Category: "Food", Date: "2025-06-03",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated expenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if updated.Purpose != "groceries and wine" || updated.Amount != "52.00" {
		t.Errorf("updated = %+v", updated)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/expenses/"+created.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/expenses/"+created.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestExpenseValidation(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h, "valid@example.com")

	tests := []struct {
		name string
		req  expenseRequest
		want int
	}{
		{"negative amount", expenseRequest{Purpose: "x", Amount: "-5.00", Category: "Food", Date: "2025-06-01"}, http.StatusUnprocessableEntity},
		{"malformed amount", expenseRequest{Purpose: "x", Amount: "abc", Category: "Food", Date: "2025-06-01"}, http.StatusUnprocessableEntity},
		{"unknown category", expenseRequest{Purpose: "x", Amount: "5.00", Category: "Gadgets", Date: "2025-06-01"}, http.StatusUnprocessableEntity},
		{"bad date", expenseRequest{Purpose: "x", Amount: "5.00", Category: "Food", Date: "01/06/2025"}, http.StatusUnprocessableEntity},
		{"empty purpose", expenseRequest{Purpose: "  ", Amount: "5.00", Category: "Food", Date: "2025-06-01"}, http.StatusUnprocessableEntity},
		{"overlong purpose", expenseRequest{Purpose: strings.Repeat("x", 201), Amount: "5.00", Category: "Food", Date: "2025-06-01"}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/expenses", token, tt.req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/expenses", bytes.NewBufferString("{"))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestOwnerIsolation(t *testing.T) {
	h := newTestServer(t).Handler()
	alice := registerUser(t, h, "alice@example.com")
	bob := registerUser(t, h, "bob@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/bills", alice, billRequest{
		Name: "Rent", Amount: "800.00", DueDate: "2025-07-01", Category: "Housing",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var bill billResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &bill); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// A foreign id behaves exactly like a missing one.
	if rec := doJSON(t, h, http.MethodGet, "/api/bills/"+bill.ID, bob, nil); rec.Code != http.StatusNotFound {
		t.Errorf("foreign get status = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodDelete, "/api/bills/"+bill.ID, bob, nil); rec.Code != http.StatusNotFound {
		t.Errorf("foreign delete status = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/bills/"+bill.ID, alice, nil); rec.Code != http.StatusOK {
		t.Errorf("owner get status = %d, want 200", rec.Code)
	}
}

func TestBillPaidToggle(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h, "bills@example.com")

	due := time.Now().UTC().AddDate(0, 0, 2).Format(dayFormat)
	rec := doJSON(t, h, http.MethodPost, "/api/bills", token, billRequest{
		Name: "Power", Amount: "60.00", DueDate: due, Category: "Utilities",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var bill billResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &bill); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bill.Status != "due-soon" {
		t.Errorf("status = %q, want due-soon (2 days out)", bill.Status)
	}

	rec = doJSON(t, h, http.MethodPatch, "/api/bills/"+bill.ID+"/paid", token, map[string]bool{"is_paid": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &bill); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bill.IsPaid || bill.Status != "paid" {
		t.Errorf("after toggle: is_paid=%v status=%q", bill.IsPaid, bill.Status)
	}
}

func TestSubscriptionActiveToggle(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h, "subs@example.com")

	next := time.Now().UTC().AddDate(0, 1, 0).Format(dayFormat)
	rec := doJSON(t, h, http.MethodPost, "/api/subscriptions", token, subscriptionRequest{
		Name: "Stream", Amount: "12.99", BillingCycle: "monthly", NextPayment: next,
		Category: "Entertainment", IsActive: true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var sub subscriptionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.MonthlyCost != "12.99" {
		t.Errorf("monthly_cost = %q, want 12.99", sub.MonthlyCost)
	}

	rec = doJSON(t, h, http.MethodPatch, "/api/subscriptions/"+sub.ID+"/active", token, map[string]bool{"is_active": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.IsActive {
		t.Error("subscription should be inactive after toggle")
	}
	if sub.Status != "paid" {
		t.Errorf("inactive subscription status = %q, want paid", sub.Status)
	}

	t.Run("unknown cycle rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/subscriptions", token, subscriptionRequest{
			Name: "Box", Amount: "9.99", BillingCycle: "fortnightly", NextPayment: next,
			Category: "Shopping", IsActive: true,
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})
}

func TestDashboardEndpoints(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h, "dash@example.com")

	today := time.Now().UTC()
	rec := doJSON(t, h, http.MethodPost, "/api/expenses", token, expenseRequest{
		Purpose: "groceries", Amount: "100.00", Category: "Food", Date: today.Format(dayFormat),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed expense status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/budgets", token, budgetRequest{
		Category: "Food", Amount: "105.00", Period: "monthly",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed budget status = %d, body %s", rec.Code, rec.Body.String())
	}

	t.Run("summary", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/dashboard/summary", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var sum summaryResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if sum.MonthTotal != "100.00" {
			t.Errorf("month_total = %q, want 100.00", sum.MonthTotal)
		}
		if len(sum.Trend) != 6 {
			t.Errorf("len(trend) = %d, want 6", len(sum.Trend))
		}
		if sum.Trend[5].Total != "100.00" {
			t.Errorf("current month trend total = %q, want 100.00", sum.Trend[5].Total)
		}
	})

	t.Run("analytics", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/analytics", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var a analyticsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(a.Breakdown) != 1 || a.Breakdown[0].Percent != 100 {
			t.Errorf("breakdown = %+v", a.Breakdown)
		}
		if len(a.Budgets) != 1 || a.Budgets[0].Category != "Food" {
			t.Errorf("budgets = %+v", a.Budgets)
		}
		if len(a.Insights) == 0 {
			t.Error("insights should fire with a budget above 90%")
		}
	})

	t.Run("export stub", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/export", token, nil)
		if rec.Code != http.StatusNotImplemented {
			t.Errorf("status = %d, want 501", rec.Code)
		}
	})

	t.Run("healthz is public", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestHealthzReportsCounters(t *testing.T) {
	h := newTestServer(t).Handler()

	// Serve a couple of requests first so the counter has moved.
	for i := 0; i < 2; i++ {
		doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	}
	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
		Checks struct {
			HTTP struct {
				RequestsTotal int64  `json:"requests_total"`
				Status        string `json:"status"`
			} `json:"http"`
			RateLimiter struct {
				ActiveClients int    `json:"active_clients"`
				Status        string `json:"status"`
			} `json:"rate_limiter"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Checks.HTTP.RequestsTotal < 3 {
		t.Errorf("requests_total = %d, want at least 3", body.Checks.HTTP.RequestsTotal)
	}
	if body.Checks.RateLimiter.ActiveClients < 1 {
		t.Errorf("active_clients = %d, want at least 1", body.Checks.RateLimiter.ActiveClients)
	}
}

func TestRateLimit(t *testing.T) {
	st := memory.New()
	cfg := &config.Config{
		Port:               "0",
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 2,
		JWTSecret:          "test-secret-0123456789",
		TokenTTL:           time.Hour,
	}
	srv := NewServer(Options{
		Config:     cfg,
		Records:    services.NewRecordService(st, nil),
		Dashboards: services.NewDashboardService(st),
		Users:      st,
		Tokens:     auth.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		Logger:     applog.New(applog.DefaultConfig()),
	})
	h := srv.Handler()

	var last int
	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}

func TestExpenseListOrder(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h, "order@example.com")

	days := []string{"2025-06-01", "2025-06-10", "2025-06-05"}
	for i, d := range days {
		rec := doJSON(t, h, http.MethodPost, "/api/expenses", token, expenseRequest{
			Purpose: fmt.Sprintf("item %d", i), Amount: "1.00", Category: "Other", Date: d,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d", rec.Code)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/expenses", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []expenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	want := []string{"2025-06-10", "2025-06-05", "2025-06-01"}
	for i, w := range want {
		if list[i].Date != w {
			t.Errorf("list[%d].Date = %s, want %s (newest first)", i, list[i].Date, w)
		}
	}
}
