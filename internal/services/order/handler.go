package order

import (
	"context"
	"net/http"
	"strings"
	"time"

	"foodcourt/internal/api"
	"foodcourt/internal/logger"
	"foodcourt/internal/models"
)

// Handler handles HTTP requests for the order service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register mounts the order routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.PlaceOrder)
	mux.HandleFunc("POST /orders/{order_id}/complete", h.CompleteOrder)
	mux.HandleFunc("GET /shops/{shop_id}/menu", h.Menu)
}

// PlaceOrder handles POST /orders requests
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	requestID := api.RequestID(r.Context())

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		api.WriteMessage(w, h.logger, http.StatusBadRequest, "Content-Type must be application/json", requestID)
		return
	}

	var req models.PlaceOrderRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		h.logger.Debug("validation_failed", "Failed to parse request body", requestID, map[string]interface{}{
			"error": err.Error(),
		})
		api.WriteMessage(w, h.logger, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := h.service.PlaceOrder(ctx, &req, requestID)
	if err != nil {
		api.WriteError(w, h.logger, err, requestID)
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, response, requestID)
}

// CompleteOrder handles POST /orders/{order_id}/complete requests
func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	requestID := api.RequestID(r.Context())

	completed, err := h.service.CompleteOrder(r.Context(), r.PathValue("order_id"), requestID)
	if err != nil {
		api.WriteError(w, h.logger, err, requestID)
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":   "Success",
		"message":  "Order marked as completed",
		"order_id": completed.OrderID,
	}, requestID)
}

// Menu handles GET /shops/{shop_id}/menu requests
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	requestID := api.RequestID(r.Context())

	menu, err := h.service.Menu(r.Context(), r.PathValue("shop_id"), requestID)
	if err != nil {
		api.WriteError(w, h.logger, err, requestID)
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"shop_id":    r.PathValue("shop_id"),
		"menu_items": menu,
	}, requestID)
}
