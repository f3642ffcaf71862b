package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"foodcourt/internal/api"
	"foodcourt/internal/logger"
	"foodcourt/internal/models"
)

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /inventory", h.Status)
	mux.HandleFunc("POST /inventory/consume", h.Consume)
}

type consumeRequest struct {
	ItemID       string `json:"item_id"`
	QuantityUsed int    `json:"quantity_used"`
}

// Status handles GET /inventory requests
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	requestID := api.RequestID(r.Context())

	items, err := h.service.Status(r.Context(), requestID)
	if err != nil {
		api.WriteError(w, h.logger, err, requestID)
		return
	}

	reorderNeeded := 0
	for _, item := range items {
		if item.ReorderNeeded {
			reorderNeeded++
		}
	}

	api.WriteJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"inventory":      items,
		"total_items":    len(items),
		"reorder_needed": reorderNeeded,
	}, requestID)
}

// Consume handles POST /inventory/consume requests
func (h *Handler) Consume(w http.ResponseWriter, r *http.Request) {
	requestID := api.RequestID(r.Context())

	var req consumeRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "quantity_used" {
			api.WriteError(w, h.logger, fmt.Errorf("%w: got %s", models.ErrInvalidQuantity, typeErr.Value), requestID)
			return
		}
		api.WriteMessage(w, h.logger, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	result, err := h.service.Consume(r.Context(), req.ItemID, req.QuantityUsed, requestID)
	if err != nil {
		api.WriteError(w, h.logger, err, requestID)
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, result, requestID)
}
