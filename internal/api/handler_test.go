package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netros/internal/db"
	"netros/internal/db/repository"
	"netros/internal/middleware"
	"netros/internal/service"
)

// newTestServer wires the full handler stack against a real SQLite database,
// with a middleware standing in for auth that injects a fixed actor.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	writeDB, _ := db.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	riskRepo := repository.NewRiskRepo(writeDB)
	principleRepo := repository.NewPrincipleRepo(writeDB)
	complianceRepo := repository.NewComplianceRepo(writeDB)
	linkRepo := repository.NewLinkRepo(writeDB)
	actionRepo := repository.NewActionRepo(writeDB)
	assetRepo := repository.NewAssetRepo(writeDB)
	supplierRepo := repository.NewSupplierRepo(writeDB)
	reviewRepo := repository.NewReviewRepo(writeDB)
	projectRepo := repository.NewProjectRepo(writeDB)
	documentRepo := repository.NewDocumentRepo(writeDB)
	auditRepo := repository.NewAuditRepo(writeDB)

	audit := service.NewAuditService(auditRepo)
	compliance := service.NewComplianceService(writeDB, principleRepo, complianceRepo, audit, logger)
	handler := NewHandler(
		service.NewRiskService(writeDB, riskRepo, principleRepo, complianceRepo, linkRepo, audit, logger),
		service.NewActionService(writeDB, actionRepo, audit, logger),
		service.NewAssetService(writeDB, assetRepo, audit, logger),
		service.NewSupplierService(writeDB, supplierRepo, audit, logger),
		service.NewReviewService(writeDB, reviewRepo, riskRepo, linkRepo, audit, logger),
		service.NewProjectService(writeDB, projectRepo, audit, logger),
		service.NewDocumentService(writeDB, documentRepo, audit, logger),
		compliance,
		service.NewDashboardService(riskRepo, actionRepo, assetRepo, supplierRepo,
			reviewRepo, complianceRepo, compliance, audit, logger),
		audit,
	)

	withActor := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithActor(r.Context(), "kari")))
		})
	}

	srv := httptest.NewServer(withActor(handler.Routes()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func TestRiskLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/risks", map[string]any{
		"title":       "Fiberkutt mot datasenter",
		"risk_type":   "technical",
		"likelihood":  5,
		"consequence": 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 20, created["score"])
	assert.Equal(t, "high", created["band"])
	assert.Equal(t, "red", created["band_color"])
	id := int64(created["id"].(float64))

	// Out-of-range values are rejected, not clamped.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/risks", map[string]any{
		"title": "Ugyldig", "risk_type": "technical", "likelihood": 6, "consequence": 2,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/risks/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Fiberkutt mot datasenter", got["title"])

	// Accept requires a rationale.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/risks/"+itoa(id)+"/accept", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, accepted := doJSON(t, http.MethodPost, srv.URL+"/risks/"+itoa(id)+"/accept", map[string]any{
		"rationale": "styrevedtak",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", accepted["status"])
	assert.Equal(t, "kari", accepted["accepted_by"])

	// Accepting twice conflicts.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/risks/"+itoa(id)+"/accept", map[string]any{
		"rationale": "en gang til",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The audit trail carries the full lifecycle, newest first.
	resp, history := doJSON(t, http.MethodGet, srv.URL+"/risks/"+itoa(id)+"/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := history["data"].([]any)
	require.Len(t, entries, 3)
	first := entries[0].(map[string]any)
	assert.Equal(t, "update", first["action"])
	second := entries[1].(map[string]any)
	assert.Equal(t, "approve", second["action"])
	assert.Equal(t, "kari", second["actor"])
}

func TestRiskMatrixOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/risks", map[string]any{
		"title": "Høy", "risk_type": "technical", "likelihood": 5, "consequence": 4,
		"target_likelihood": 2, "target_consequence": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, matrix := doJSON(t, http.MethodGet, srv.URL+"/risks/matrix", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cells := matrix["cells"].([]any)
	require.Len(t, cells, 5)
	topRow := cells[0].([]any)
	require.Len(t, topRow, 5)
	cell := topRow[3].(map[string]any)
	assert.EqualValues(t, 20, cell["score"])
	assert.EqualValues(t, 1, cell["risk_count"])

	// Target view moves the risk to its post-mitigation cell.
	resp, matrix = doJSON(t, http.MethodGet, srv.URL+"/risks/matrix?view=target", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cells = matrix["cells"].([]any)
	targetCell := cells[3].([]any)[1].(map[string]any)
	assert.EqualValues(t, 1, targetCell["risk_count"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/risks/matrix?view=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownRiskReturns404(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/risks/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.EqualValues(t, 404, body["code"])
}

func TestDashboardSummaryOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/risks", map[string]any{
		"title": "Sabotasje", "risk_type": "external", "likelihood": 5, "consequence": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, summary := doJSON(t, http.MethodGet, srv.URL+"/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, summary["total_risks"])
	dist := summary["distribution"].(map[string]any)
	assert.EqualValues(t, 1, dist["high"])
	alerts := summary["alerts"].([]any)
	require.NotEmpty(t, alerts)
	assert.Equal(t, "danger", alerts[0].(map[string]any)["severity"])
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
