package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/logger"
	"foodcourt/internal/models"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		kind models.Kind
		want int
	}{
		{models.KindValidation, http.StatusBadRequest},
		{models.KindInvalidQuantity, http.StatusBadRequest},
		{models.KindItemNotFound, http.StatusBadRequest},
		{models.KindNotFound, http.StatusNotFound},
		{models.KindItemNotTracked, http.StatusNotFound},
		{models.KindInsufficientStock, http.StatusConflict},
		{models.KindAlreadyReady, http.StatusConflict},
		{models.KindServiceUnavailable, http.StatusServiceUnavailable},
		{models.KindCommitFailed, http.StatusInternalServerError},
		{models.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.kind))
		})
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError_InsufficientStockCarriesQuantities(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, logger.Discard(), &models.InsufficientStockError{ItemID: "I1", Available: 3, Requested: 5}, "req-1")

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, models.KindInsufficientStock, body.Kind)
	require.NotNil(t, body.Available)
	require.NotNil(t, body.Requested)
	assert.Equal(t, 3, *body.Available)
	assert.Equal(t, 5, *body.Requested)
	assert.Equal(t, "req-1", body.RequestID)
}

func TestWriteError_ValidationNamesField(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, logger.Discard(), models.ValidationError{Field: "items", Message: "items cannot be empty"}, "req-2")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "items", body.Field)
	assert.Equal(t, "items cannot be empty", body.Error)
}

func TestWriteError_HidesStoreDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	cause := errors.New(`duplicate key value violates unique constraint "payments_order_id_key"`)
	WriteError(rec, logger.Discard(), &models.CommitError{Step: "payment", Err: cause}, "req-3")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, models.KindCommitFailed, body.Kind)
	assert.NotContains(t, body.Error, "payments_order_id_key")

	rec = httptest.NewRecorder()
	WriteError(rec, logger.Discard(), fmt.Errorf("%w: %w", models.ErrServiceUnavailable, errors.New("dial tcp 10.0.0.1:5432")), "req-4")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, decodeError(t, rec).Error, "10.0.0.1")
}

func TestWithLogging_AssignsRequestID(t *testing.T) {
	var seen string
	h := WithLogging(logger.Discard(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "client-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-id", seen)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler("order-service", fakePinger{}, logger.Discard())(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HealthHandler("order-service", fakePinger{err: errors.New("down")}, logger.Discard())(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
}
