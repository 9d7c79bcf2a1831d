package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/windham/commodity-api/pkg/auth"
	"github.com/windham/commodity-api/pkg/services"
)

// RecordRoute describes how one kind of commodity record is exposed over HTTP.
type RecordRoute struct {
	// Segment is the path segment, e.g. "shelf-life".
	Segment string
	// ResponseKey wraps a single record in responses, e.g. "shelfLife".
	ResponseKey string
	// NewSchema and UpdateSchema name the body schemas.
	NewSchema    string
	UpdateSchema string
}

// Routes for each record kind.
var (
	EthyleneRoute = RecordRoute{
		Segment: "ethylene", ResponseKey: "ethylene",
		NewSchema: "ethyleneNew", UpdateSchema: "ethyleneUpdate",
	}
	RespirationRoute = RecordRoute{
		Segment: "respiration", ResponseKey: "respirationRate",
		NewSchema: "respirationNew", UpdateSchema: "respirationUpdate",
	}
	ShelfLifeRoute = RecordRoute{
		Segment: "shelf-life", ResponseKey: "shelfLife",
		NewSchema: "shelfLifeNew", UpdateSchema: "shelfLifeUpdate",
	}
	TemperatureRoute = RecordRoute{
		Segment: "temperature", ResponseKey: "temperatureRecommendation",
		NewSchema: "temperatureNew", UpdateSchema: "temperatureUpdate",
	}
	ReferenceRoute = RecordRoute{
		Segment: "references", ResponseKey: "reference",
		NewSchema: "referenceNew", UpdateSchema: "referenceUpdate",
	}
)

// CommodityRecordHandler handles HTTP requests for one kind of record owned
// by a commodity.
type CommodityRecordHandler[T any] struct {
	route     RecordRoute
	service   services.CommodityRecordService[T]
	validator *SchemaValidator
	logger    *zap.Logger
}

// NewCommodityRecordHandler creates a handler for the record kind described by route.
func NewCommodityRecordHandler[T any](
	route RecordRoute,
	service services.CommodityRecordService[T],
	validator *SchemaValidator,
	logger *zap.Logger,
) *CommodityRecordHandler[T] {
	return &CommodityRecordHandler[T]{
		route:     route,
		service:   service,
		validator: validator,
		logger:    logger.With(zap.String("record_kind", route.Segment)),
	}
}

// RegisterRoutes registers the record routes. Listing is public; writes require an admin.
func (h *CommodityRecordHandler[T]) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	base := "/commodities/{id}/" + h.route.Segment
	record := "/" + h.route.Segment + "/{recordId}"

	mux.HandleFunc("POST "+base, authMiddleware.RequireAdmin(scope(h.Create)))
	mux.HandleFunc("GET "+base, scope(h.List))
	mux.HandleFunc("PATCH "+record, authMiddleware.RequireAdmin(scope(h.Update)))
	mux.HandleFunc("DELETE "+record, authMiddleware.RequireAdmin(scope(h.Delete)))
}

// Create handles POST /commodities/{id}/{kind}
func (h *CommodityRecordHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	commodityID := r.PathValue("id")

	var record T
	if err := h.validator.decodeValidated(r, h.route.NewSchema, &record); err != nil {
		writeServiceError(w, h.logger, err, "Invalid commodity record", zap.String("commodity_id", commodityID))
		return
	}

	created, err := h.service.Create(r.Context(), commodityID, &record)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create commodity record", zap.String("commodity_id", commodityID))
		return
	}

	writeResponse(w, h.logger, http.StatusCreated, map[string]any{h.route.ResponseKey: created})
}

// List handles GET /commodities/{id}/{kind}
func (h *CommodityRecordHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	commodityID := r.PathValue("id")

	records, err := h.service.ListByCommodity(r.Context(), commodityID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list commodity records", zap.String("commodity_id", commodityID))
		return
	}
	if records == nil {
		records = []*T{}
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"records": records})
}

// Update handles PATCH /{kind}/{recordId}
func (h *CommodityRecordHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIntID(w, r, "recordId", h.logger)
	if !ok {
		return
	}

	var fields map[string]any
	if err := h.validator.decodeValidated(r, h.route.UpdateSchema, &fields); err != nil {
		writeServiceError(w, h.logger, err, "Invalid commodity record update", zap.Int64("record_id", id))
		return
	}

	updated, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update commodity record", zap.Int64("record_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{h.route.ResponseKey: updated})
}

// Delete handles DELETE /{kind}/{recordId}
func (h *CommodityRecordHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIntID(w, r, "recordId", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete commodity record", zap.Int64("record_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"deleted": id})
}
