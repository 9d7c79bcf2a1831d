package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/windham/commodity-api/pkg/auth"
	"github.com/windham/commodity-api/pkg/models"
	"github.com/windham/commodity-api/pkg/services"
)

// StudyCommodityRequest for POST /studies/{commodityId}
type StudyCommodityRequest struct {
	StudyID int64 `json:"studyId"`
}

// StudyHandler handles Windham study HTTP requests.
type StudyHandler struct {
	studyService services.StudyService
	validator    *SchemaValidator
	logger       *zap.Logger
}

// NewStudyHandler creates a new study handler.
func NewStudyHandler(
	studyService services.StudyService,
	validator *SchemaValidator,
	logger *zap.Logger,
) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
		validator:    validator,
		logger:       logger,
	}
}

// RegisterRoutes registers the study routes. Every study route requires an admin.
func (h *StudyHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireAdmin(scope(next))
	}

	mux.HandleFunc("POST /studies", admin(h.Create))
	mux.HandleFunc("GET /studies", admin(h.List))
	mux.HandleFunc("GET /studies/{id}", admin(h.Get))
	mux.HandleFunc("PATCH /studies/{id}", admin(h.Update))
	mux.HandleFunc("DELETE /studies/{id}", admin(h.Delete))

	mux.HandleFunc("POST /studies/{commodityId}", admin(h.LinkCommodity))
	mux.HandleFunc("GET /studies/commodity/{id}", admin(h.StudiesForCommodity))
	mux.HandleFunc("GET /studies/study/{id}", admin(h.CommoditiesForStudy))
	mux.HandleFunc("DELETE /studies/study/{id}", admin(h.UnlinkStudy))
}

// Create handles POST /studies
func (h *StudyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var study models.Study
	if err := h.validator.decodeValidated(r, SchemaStudyNew, &study); err != nil {
		writeServiceError(w, h.logger, err, "Invalid study")
		return
	}

	created, err := h.studyService.Create(r.Context(), &study)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create study", zap.String("title", study.Title))
		return
	}

	writeResponse(w, h.logger, http.StatusCreated, map[string]any{"study": created})
}

// List handles GET /studies
func (h *StudyHandler) List(w http.ResponseWriter, r *http.Request) {
	studies, err := h.studyService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list studies")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"studies": studies})
}

// Get handles GET /studies/{id}
func (h *StudyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIntID(w, r, "id", h.logger)
	if !ok {
		return
	}

	study, err := h.studyService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get study", zap.Int64("study_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"study": study})
}

// Update handles PATCH /studies/{id}
func (h *StudyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIntID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var fields map[string]any
	if err := h.validator.decodeValidated(r, SchemaStudyUpdate, &fields); err != nil {
		writeServiceError(w, h.logger, err, "Invalid study update", zap.Int64("study_id", id))
		return
	}

	updated, err := h.studyService.Update(r.Context(), id, fields)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update study", zap.Int64("study_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"study": updated})
}

// Delete handles DELETE /studies/{id}
func (h *StudyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIntID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.studyService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete study", zap.Int64("study_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"deleted": id})
}

// LinkCommodity handles POST /studies/{commodityId}
func (h *StudyHandler) LinkCommodity(w http.ResponseWriter, r *http.Request) {
	commodityID := r.PathValue("commodityId")

	var req StudyCommodityRequest
	if err := h.validator.decodeValidated(r, SchemaStudyCommodityNew, &req); err != nil {
		writeServiceError(w, h.logger, err, "Invalid study link", zap.String("commodity_id", commodityID))
		return
	}

	link, err := h.studyService.LinkCommodity(r.Context(), models.StudyCommodityLink{
		CommodityID: commodityID,
		StudyID:     req.StudyID,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to link study",
			zap.String("commodity_id", commodityID),
			zap.Int64("study_id", req.StudyID))
		return
	}

	writeResponse(w, h.logger, http.StatusCreated, map[string]any{"studyCommodity": link})
}

// StudiesForCommodity handles GET /studies/commodity/{id}
func (h *StudyHandler) StudiesForCommodity(w http.ResponseWriter, r *http.Request) {
	commodityID := r.PathValue("id")

	ids, err := h.studyService.GetStudyIDsForCommodity(r.Context(), commodityID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list studies for commodity", zap.String("commodity_id", commodityID))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"studies": ids})
}

// CommoditiesForStudy handles GET /studies/study/{id}
func (h *StudyHandler) CommoditiesForStudy(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIntID(w, r, "id", h.logger)
	if !ok {
		return
	}

	ids, err := h.studyService.GetCommodityIDsForStudy(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list commodities for study", zap.Int64("study_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"commodities": ids})
}

// UnlinkStudy handles DELETE /studies/study/{id}
func (h *StudyHandler) UnlinkStudy(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIntID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.studyService.UnlinkStudy(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "Failed to unlink study", zap.Int64("study_id", id))
		return
	}

	writeResponse(w, h.logger, http.StatusOK, map[string]any{"msg": fmt.Sprintf("deleted all entries for study: %d", id)})
}
