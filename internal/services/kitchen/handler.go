package kitchen

import (
	"net/http"

	"foodcourt/internal/api"
	"foodcourt/internal/logger"
	"foodcourt/internal/models"
)

// Handler handles HTTP requests for the kitchen queue
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the kitchen routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /kitchen/active-orders", h.ActiveOrders)
	mux.HandleFunc("POST /kitchen/preparations/{prep_id}/status", h.UpdateStatus)
}

type statusRequest struct {
	Status string `json:"status"`
}

// ActiveOrders handles GET /kitchen/active-orders?shop_id= requests
func (h *Handler) ActiveOrders(w http.ResponseWriter, r *http.Request) {
	requestID := api.RequestID(r.Context())
	shopID := r.URL.Query().Get("shop_id")

	orders, err := h.service.ActiveOrders(r.Context(), shopID, requestID)
	if err != nil {
		api.WriteError(w, h.logger, err, requestID)
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"shop_id":       shopID,
		"active_orders": orders,
		"count":         len(orders),
	}, requestID)
}

// UpdateStatus handles POST /kitchen/preparations/{prep_id}/status requests
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := api.RequestID(r.Context())

	var req statusRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, h.logger, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	transition, err := h.service.AdvanceStatus(r.Context(), r.PathValue("prep_id"), req.Status, requestID)
	if err != nil {
		api.WriteError(w, h.logger, err, requestID)
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":     "Success",
		"message":    "Order marked as " + string(models.KitchenReady),
		"transition": transition,
	}, requestID)
}
