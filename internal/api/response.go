package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"foodcourt/internal/logger"
	"foodcourt/internal/models"
)

// ErrorResponse is the JSON body of every rejected request
type ErrorResponse struct {
	Error     string      `json:"error"`
	Kind      models.Kind `json:"kind"`
	Field     string      `json:"field,omitempty"`
	Available *int        `json:"available,omitempty"`
	Requested *int        `json:"requested,omitempty"`
	Timestamp string      `json:"timestamp"`
	RequestID string      `json:"request_id"`
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(kind models.Kind) int {
	switch kind {
	case models.KindValidation, models.KindInvalidQuantity, models.KindItemNotFound:
		return http.StatusBadRequest
	case models.KindNotFound, models.KindItemNotTracked:
		return http.StatusNotFound
	case models.KindInsufficientStock, models.KindAlreadyReady:
		return http.StatusConflict
	case models.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, log *logger.Logger, statusCode int, v interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// WriteError writes a structured error body for err. Store failures are
// reported by kind only; their cause is logged, not returned.
func WriteError(w http.ResponseWriter, log *logger.Logger, err error, requestID string) {
	kind := models.KindOf(err)
	resp := ErrorResponse{
		Error:     err.Error(),
		Kind:      kind,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}

	var validationErr models.ValidationError
	if errors.As(err, &validationErr) {
		resp.Field = validationErr.Field
		resp.Error = validationErr.Message
	}

	var stockErr *models.InsufficientStockError
	if errors.As(err, &stockErr) {
		resp.Available = &stockErr.Available
		resp.Requested = &stockErr.Requested
	}

	switch kind {
	case models.KindServiceUnavailable:
		resp.Error = "service temporarily unavailable"
	case models.KindCommitFailed:
		resp.Error = "order could not be recorded"
	case models.KindInternal:
		resp.Error = "internal server error"
	}

	if StatusCode(kind) >= http.StatusInternalServerError {
		log.Error("request_failed", string(kind), requestID, err, nil)
	}

	WriteJSON(w, log, StatusCode(kind), resp, requestID)
}

// WriteMessage writes a plain error message with an explicit status, for
// transport-level failures such as malformed JSON.
func WriteMessage(w http.ResponseWriter, log *logger.Logger, statusCode int, message, requestID string) {
	WriteJSON(w, log, statusCode, ErrorResponse{
		Error:     message,
		Kind:      models.KindValidation,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}, requestID)
}

// DecodeJSON decodes a request body, rejecting unknown fields.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
