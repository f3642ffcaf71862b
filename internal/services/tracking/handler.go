package tracking

import (
	"net/http"

	"foodcourt/internal/api"
	"foodcourt/internal/logger"
)

// Handler handles HTTP requests for the tracking service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new tracking handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register mounts the tracking routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /customers/{customer_id}/orders", h.CustomerOrders)
	mux.HandleFunc("GET /customers/{customer_id}/notifications", h.Notifications)
}

// CustomerOrders handles GET /customers/{customer_id}/orders requests
func (h *Handler) CustomerOrders(w http.ResponseWriter, r *http.Request) {
	requestID := api.RequestID(r.Context())
	customerID := r.PathValue("customer_id")

	orders, err := h.service.CustomerOrders(r.Context(), customerID, requestID)
	if err != nil {
		api.WriteError(w, h.logger, err, requestID)
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"customer_id": customerID,
		"orders":      orders,
		"count":       len(orders),
	}, requestID)
}

// Notifications handles GET /customers/{customer_id}/notifications requests
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	requestID := api.RequestID(r.Context())

	summary, err := h.service.NotificationCount(r.Context(), r.PathValue("customer_id"), requestID)
	if err != nil {
		api.WriteError(w, h.logger, err, requestID)
		return
	}

	api.WriteJSON(w, h.logger, http.StatusOK, summary, requestID)
}
