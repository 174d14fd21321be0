package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
	paymentApplication "github.com/rcarvalho-pb/debt_payment-go/internal/application/payment"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/metrics"
	httpapi "github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/persistence/inmemory"
)

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

type fakeValidator struct {
	validateFn func(ctx context.Context, token string) (*auth.Principal, error)
}

func (f *fakeValidator) Validate(ctx context.Context, token string) (*auth.Principal, error) {
	return f.validateFn(ctx, token)
}

type fakeIssuer struct {
	issueFn func(ctx context.Context, username, password string) (string, error)
}

func (f *fakeIssuer) IssueToken(ctx context.Context, username, password string) (string, error) {
	return f.issueFn(ctx, username, password)
}

type testAPI struct {
	router  *gin.Engine
	metrics *metrics.Counters
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	counters := &metrics.Counters{}
	authService := &auth.Service{
		AdminRole: "payment_admin",
		Validator: &fakeValidator{validateFn: func(_ context.Context, token string) (*auth.Principal, error) {
			switch token {
			case adminToken:
				return &auth.Principal{Subject: "admin", Roles: []string{"payment_admin"}}, nil
			case userToken:
				return &auth.Principal{Subject: "user", Roles: []string{"viewer"}}, nil
			}
			return nil, auth.ErrInvalidToken
		}},
		Issuer: &fakeIssuer{issueFn: func(_ context.Context, username, password string) (string, error) {
			if username == "admin" && password == "secret" {
				return adminToken, nil
			}
			return "", auth.ErrInvalidCredentials
		}},
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Payments: &paymentApplication.Service{
			Repo:    inmemory.NewPaymentRepository(),
			Metrics: counters,
		},
		Auth:    authService,
		Metrics: counters,
	})

	return &testAPI{router: router, metrics: counters}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testAPI) create(t *testing.T, body map[string]any) httpapi.PaymentResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/payments", adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[httpapi.PaymentResponse](t, w)
}

func TestHealthIsPublic(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, adminToken, decode[map[string]string](t, w)["token"])

	w = api.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "admin"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentsRequireAdmin(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer forged", http.StatusUnauthorized},
		{"no admin role", "Bearer " + userToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/payments", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, req)

		if w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d (%s)", tc.name, tc.want, w.Code, w.Body.String())
		}
	}
}

func TestCreatePayment(t *testing.T) {
	api := newTestAPI(t)

	p := api.create(t, map[string]any{
		"debtCode": 123,
		"payerId":  "12345678901",
		"method":   "pix",
		"amount":   100.00,
	})

	require.NotZero(t, p.ID)
	require.Equal(t, "PENDING", string(p.Status))
	require.Equal(t, "PIX", string(p.Method))
	require.True(t, p.Active)
	require.Nil(t, p.UpdatedAt)
}

func TestCreatePayment_Validation(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name string
		body any
	}{
		{"malformed json", `{"debtCode": `},
		{"unknown method", map[string]any{"debtCode": 1, "payerId": "a", "method": "CASH", "amount": 1}},
		{"card missing", map[string]any{"debtCode": 1, "payerId": "a", "method": "CREDIT_CARD", "amount": 1}},
		{"zero amount", map[string]any{"debtCode": 1, "payerId": "a", "method": "PIX", "amount": 0}},
		{"missing payer", map[string]any{"debtCode": 1, "method": "PIX", "amount": 1}},
	}

	for _, tc := range cases {
		w := api.do(http.MethodPost, "/payments", adminToken, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d (%s)", tc.name, w.Code, w.Body.String())
			continue
		}
		if decode[map[string]string](t, w)["message"] == "" {
			t.Errorf("%s: expected a message in the body", tc.name)
		}
	}
}

func TestStatusLifecycle(t *testing.T) {
	api := newTestAPI(t)

	p := api.create(t, map[string]any{"debtCode": 456, "payerId": "98765432101", "method": "BANK_SLIP", "amount": "200.00"})
	path := fmt.Sprintf("/payments/%d", p.ID)

	w := api.do(http.MethodPut, path+"/status", adminToken, map[string]string{"status": "FAILED"})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code, "FAILED payments cannot be deactivated")

	w = api.do(http.MethodPut, path+"/status", adminToken, map[string]string{"status": "SUCCEEDED"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPut, path+"/status", adminToken, map[string]string{"status": "PENDING"})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, decode[httpapi.PaymentResponse](t, w).Active)

	w = api.do(http.MethodGet, path, adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPut, path+"/status", adminToken, map[string]string{"status": "SUCCEEDED"})
	require.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, uint64(2), api.metrics.Snapshot().RejectedTransitions)
}

func TestUpdateStatus_BadRequests(t *testing.T) {
	api := newTestAPI(t)
	p := api.create(t, map[string]any{"debtCode": 1, "payerId": "a", "method": "PIX", "amount": 1})
	path := fmt.Sprintf("/payments/%d/status", p.ID)

	require.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, path, adminToken, map[string]string{}).Code)
	require.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, path, adminToken, map[string]string{"status": "DONE"}).Code)
	require.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, "/payments/abc/status", adminToken, map[string]string{"status": "FAILED"}).Code)
	require.Equal(t, http.StatusNotFound, api.do(http.MethodPut, "/payments/999/status", adminToken, map[string]string{"status": "FAILED"}).Code)
}

func TestFilter(t *testing.T) {
	api := newTestAPI(t)

	a := api.create(t, map[string]any{"debtCode": 111, "payerId": "payer-a", "method": "PIX", "amount": 1})
	b := api.create(t, map[string]any{"debtCode": 111, "payerId": "payer-b", "method": "PIX", "amount": 2})
	c := api.create(t, map[string]any{"debtCode": 222, "payerId": "payer-a", "method": "PIX", "amount": 3})

	w := api.do(http.MethodPut, fmt.Sprintf("/payments/%d/status", b.ID), adminToken, map[string]string{"status": "FAILED"})
	require.Equal(t, http.StatusOK, w.Code)

	ids := func(query string) []int64 {
		w := api.do(http.MethodGet, "/payments/filter"+query, adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		out := []int64{}
		for _, p := range decode[[]httpapi.PaymentResponse](t, w) {
			out = append(out, p.ID)
		}
		return out
	}

	require.Equal(t, []int64{a.ID, b.ID}, ids("?debtCode=111&payerId=payer-a&status=FAILED"))
	require.Equal(t, []int64{a.ID, c.ID}, ids("?payerId=payer-a&status=FAILED"))
	require.Equal(t, []int64{b.ID}, ids("?status=failed"))
	require.Equal(t, []int64{a.ID, b.ID, c.ID}, ids(""))

	require.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/payments/filter?debtCode=x", adminToken, nil).Code)
	require.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/payments/filter?status=DONE", adminToken, nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.metrics.IncCreated()

	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/metrics", "", nil).Code)

	w := api.do(http.MethodGet, "/metrics", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, uint64(1), decode[metrics.Snapshot](t, w).PaymentsCreated)
}
