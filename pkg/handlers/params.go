package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ScopeMiddleware attaches a request-scoped database connection to the request.
type ScopeMiddleware func(http.HandlerFunc) http.HandlerFunc

// ParseIntID extracts a positive integer id from the named path parameter.
// Returns the id and true on success, or 0 and false on error (after writing
// an error response).
func ParseIntID(w http.ResponseWriter, r *http.Request, pathParam string, logger *zap.Logger) (int64, bool) {
	raw := r.PathValue(pathParam)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid id: "+raw); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}
