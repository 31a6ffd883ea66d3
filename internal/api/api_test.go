package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mExOms/convroute/internal/events"
	"github.com/mExOms/convroute/pkg/searchservice"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthz_ReturnsOK(t *testing.T) {
	srv := NewServer(searchservice.NewService(), nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlan_DirectHopReturnsPlan(t *testing.T) {
	srv := NewServer(searchservice.NewService(), nil)

	body := PlanRequestBody{
		TargetAsset: "BTC",
		Spend:       MoneyDTO{Currency: "USD", Amount: "1000.00"},
		Tolerance:   ToleranceDTO{Min: "0", Max: "0.10"},
		HopLimits:   HopLimitsDTO{Min: 1, Max: 3},
		Orders: []OrderDTO{
			{
				ID:      "o1",
				Side:    "BUY",
				Base:    "BTC",
				Quote:   "USD",
				Rate:    "30000",
				MinBase: "0.01",
				MaxBase: "1.0",
			},
		},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var outcome events.OutcomeEvent
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&outcome))
	assert.True(t, outcome.Found)
	assert.Equal(t, "USD", outcome.SourceCurrency)
	assert.Equal(t, "BTC", outcome.TargetCurrency)
}

func TestPlan_MissingTargetAssetReturnsBadRequest(t *testing.T) {
	srv := NewServer(searchservice.NewService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
