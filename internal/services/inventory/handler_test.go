package inventory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/api"
	"foodcourt/internal/logger"
	"foodcourt/internal/models"
)

func TestHandler_Consume(t *testing.T) {
	l := newLedger(map[string]*stock{"I1": {name: "Biryani", quantity: 3, reorder: 5}})
	mux := http.NewServeMux()
	NewHandler(newTestService(l, nil), logger.Discard()).Register(mux)

	consume := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventory/consume", strings.NewReader(body)))
		return rec
	}

	rec := consume(`{"item_id":"I1","quantity_used":5}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var errBody api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, models.KindInsufficientStock, errBody.Kind)
	require.NotNil(t, errBody.Available)
	assert.Equal(t, 3, *errBody.Available)
	assert.Equal(t, 5, *errBody.Requested)

	rec = consume(`{"item_id":"I1","quantity_used":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var result models.ConsumeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0, result.NewQuantity)
	assert.NotNil(t, result.ReorderAlert)

	assert.Equal(t, http.StatusBadRequest, consume(`{"item_id":"I1","quantity_used":0}`).Code)
	assert.Equal(t, http.StatusNotFound, consume(`{"item_id":"I9","quantity_used":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, consume(`{"item_id":"I1",`).Code)
}

func TestHandler_ConsumeNonIntegerQuantity(t *testing.T) {
	l := newLedger(map[string]*stock{"I1": {name: "Biryani", quantity: 10}})
	mux := http.NewServeMux()
	NewHandler(newTestService(l, nil), logger.Discard()).Register(mux)

	for _, body := range []string{
		`{"item_id":"I1","quantity_used":2.5}`,
		`{"item_id":"I1","quantity_used":"two"}`,
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventory/consume", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		var errBody api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
		assert.Equal(t, models.KindInvalidQuantity, errBody.Kind, body)
	}
	assert.Equal(t, 10, l.items["I1"].quantity)
}

func TestHandler_Status(t *testing.T) {
	l := newLedger(map[string]*stock{
		"I1": {name: "Biryani", quantity: 40, reorder: 10},
		"I2": {name: "Samosa", quantity: 4, reorder: 8},
	})
	mux := http.NewServeMux()
	NewHandler(newTestService(l, nil), logger.Discard()).Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalItems    int `json:"total_items"`
		ReorderNeeded int `json:"reorder_needed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalItems)
	assert.Equal(t, 1, resp.ReorderNeeded)
}
