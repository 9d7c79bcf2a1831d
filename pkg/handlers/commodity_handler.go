package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/windham/commodity-api/pkg/auth"
	"github.com/windham/commodity-api/pkg/models"
	"github.com/windham/commodity-api/pkg/services"
)

// CommodityHandler handles commodity HTTP requests.
type CommodityHandler struct {
	commodityService services.CommodityService
	validator        *SchemaValidator
	logger           *zap.Logger
}

// NewCommodityHandler creates a new commodity handler.
func NewCommodityHandler(
	commodityService services.CommodityService,
	validator *SchemaValidator,
	logger *zap.Logger,
) *CommodityHandler {
	return &CommodityHandler{
		commodityService: commodityService,
		validator:        validator,
		logger:           logger,
	}
}

// RegisterRoutes registers the commodity routes. Reads are public; writes require an admin.
func (h *CommodityHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("POST /commodities", authMiddleware.RequireAdmin(scope(h.Create)))
	mux.HandleFunc("GET /commodities", scope(h.List))
	mux.HandleFunc("GET /commodities/{id}", scope(h.Get))
	mux.HandleFunc("PATCH /commodities/{id}", authMiddleware.RequireAdmin(scope(h.Update)))
	mux.HandleFunc("DELETE /commodities/{id}", authMiddleware.RequireAdmin(scope(h.Delete)))
}

// Create handles POST /commodities
func (h *CommodityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var commodity models.Commodity
	if err := h.validator.decodeValidated(r, SchemaCommodityNew, &commodity); err != nil {
		writeServiceError(w, h.logger, err, "Invalid commodity")
		return
	}

	created, err := h.commodityService.Create(r.Context(), &commodity)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create commodity",
			zap.String("commodity_name", commodity.CommodityName))
		return
	}

	writeResponse(w, h.logger, http.StatusCreated, map[string]any{"commodity": created})
}

// List handles GET /commodities?commodityName=
func (h *CommodityHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.CommodityFilter{CommodityName: r.URL.Query().Get("commodityName")}

	commodities, err := h.commodityService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list commodities")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"commodities": commodities})
}

// Get handles GET /commodities/{id}
func (h *CommodityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	detail, err := h.commodityService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get commodity", zap.String("commodity_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"commodity": detail})
}

// Update handles PATCH /commodities/{id}
func (h *CommodityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var fields map[string]any
	if err := h.validator.decodeValidated(r, SchemaCommodityUpdate, &fields); err != nil {
		writeServiceError(w, h.logger, err, "Invalid commodity update", zap.String("commodity_id", id))
		return
	}

	updated, err := h.commodityService.Update(r.Context(), id, fields)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update commodity", zap.String("commodity_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"commodity": updated})
}

// Delete handles DELETE /commodities/{id}
func (h *CommodityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.commodityService.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete commodity", zap.String("commodity_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"deleted": deleted})
}
