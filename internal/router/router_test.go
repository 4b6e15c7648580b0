package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"loantrack/internal/config"
	"loantrack/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "api.db")},
		JWT:      config.JWTConfig{Secret: "test-secret", Issuer: "loantrack", ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: 4},
		App:      config.AppSubConfig{PageSize: 10},
		Policy:   config.PolicyConfig{SingleActiveLoan: true},
	}

	db, err := database.Init(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return SetupRouter(cfg, db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 && json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Admin",
		"email":    "admin@example.com",
		"password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := resp["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/clients", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	r := newTestRouter(t)
	login(t, r)

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Second",
		"email":    "admin@example.com",
		"password": "An0therSecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoanLifecycleOverAPI(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	// create a client
	w, resp := doJSON(t, r, http.MethodPost, "/api/clients", token, gin.H{
		"name":        "Maria Lopez",
		"national_id": "800555",
		"amount":      1000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	clientID := uint(resp["data"].(map[string]interface{})["client"].(map[string]interface{})["id"].(float64))

	// duplicate national id is a conflict
	w, _ = doJSON(t, r, http.MethodPost, "/api/clients", token, gin.H{
		"name":        "Other",
		"national_id": "800555",
		"amount":      1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// create a loan: principal 1000 + interest 100
	w, resp = doJSON(t, r, http.MethodPost, "/api/loans", token, gin.H{
		"client_id": clientID,
		"principal": 1000,
		"interest":  100,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	loan := resp["data"].(map[string]interface{})["loan"].(map[string]interface{})
	loanID := uint(loan["id"].(float64))
	assert.Equal(t, "1100", loan["remaining_amount"])
	assert.Equal(t, "Active", loan["status"])

	// policy: second active loan is rejected
	w, _ = doJSON(t, r, http.MethodPost, "/api/loans", token, gin.H{
		"client_id": clientID,
		"principal": 50,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// overpayment is rejected with the remaining balance in the message
	w, resp = doJSON(t, r, http.MethodPost, "/api/payments", token, gin.H{
		"client_id": clientID,
		"loan_id":   loanID,
		"amount":    1200,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["message"], "1100.00")

	// full settlement
	w, _ = doJSON(t, r, http.MethodPost, "/api/payments", token, gin.H{
		"client_id": clientID,
		"loan_id":   loanID,
		"amount":    1100,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/loans/%d", loanID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	loan = resp["data"].(map[string]interface{})["loan"].(map[string]interface{})
	assert.Equal(t, "Paid", loan["status"])
	assert.Equal(t, "0", loan["remaining_amount"])
	// joined read carries the owning client
	client := loan["client"].(map[string]interface{})
	assert.Equal(t, "Maria Lopez", client["name"])

	// a settled loan takes no further payments
	w, _ = doJSON(t, r, http.MethodPost, "/api/payments", token, gin.H{
		"client_id": clientID,
		"loan_id":   loanID,
		"amount":    1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// dashboard reflects the settled loan
	w, resp = doJSON(t, r, http.MethodGet, "/api/dashboard/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["total_loans"])
	assert.Equal(t, float64(1), summary["loans_paid"])

	// audit trail recorded the mutating calls
	w, resp = doJSON(t, r, http.MethodGet, "/api/logs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := resp["data"].(map[string]interface{})
	assert.Greater(t, logs["total_records"], float64(0))
}

func TestSweepOverdueEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	w, resp := doJSON(t, r, http.MethodPost, "/api/clients", token, gin.H{
		"name":        "Late Payer",
		"national_id": "800556",
		"amount":      500,
	})
	require.Equal(t, http.StatusOK, w.Code)
	clientID := uint(resp["data"].(map[string]interface{})["client"].(map[string]interface{})["id"].(float64))

	w, _ = doJSON(t, r, http.MethodPost, "/api/loans", token, gin.H{
		"client_id":  clientID,
		"principal":  50,
		"start_date": "2020-01-01",
		"due_date":   "2020-02-01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = doJSON(t, r, http.MethodPut, "/api/loans/sweep-overdue", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp["data"].(map[string]interface{})["updated"])

	// idempotent: a second sweep touches nothing
	w, resp = doJSON(t, r, http.MethodPut, "/api/loans/sweep-overdue", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["data"].(map[string]interface{})["updated"])
}

func TestPaginationRejectsBadBounds(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	w, _ := doJSON(t, r, http.MethodGet, "/api/clients/paginate?page=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/loans/paginate?limit=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/payments/paginate?page=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/clients/paginate?page=1&limit=5", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboardReportMonthValidation(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	w, _ := doJSON(t, r, http.MethodGet, "/api/dashboard/report?month=13", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/dashboard/report?month=0", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/dashboard/report?month=2&year=2026", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientSearch(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	w, _ := doJSON(t, r, http.MethodPost, "/api/clients", token, gin.H{
		"name":        "Maria Lopez",
		"national_id": "800558",
		"phone":       "555-0101",
		"amount":      1000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// match on name
	w, resp := doJSON(t, r, http.MethodGet, "/api/clients/search?query=Maria", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp["data"].(map[string]interface{})["total"])

	// match on national id
	w, resp = doJSON(t, r, http.MethodGet, "/api/clients/search?query=800558", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp["data"].(map[string]interface{})["total"])

	// no match is an empty result, not an error
	w, resp = doJSON(t, r, http.MethodGet, "/api/clients/search?query=nobody", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["data"].(map[string]interface{})["total"])

	// blank query is rejected
	w, _ = doJSON(t, r, http.MethodGet, "/api/clients/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportExports(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	w, _ := doJSON(t, r, http.MethodPost, "/api/clients", token, gin.H{
		"name":        "Maria Lopez",
		"national_id": "800557",
		"amount":      1000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// token via query parameter, as a browser download would send it
	req := httptest.NewRequest(http.MethodGet, "/api/reports/clients/csv?token="+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Maria Lopez")

	req = httptest.NewRequest(http.MethodGet, "/api/reports/clients/xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}
