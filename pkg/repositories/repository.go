package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/database"
)

// CommodityRecordRepository is the data access contract shared by the tables
// whose rows belong to a single commodity (ethylene sensitivity, respiration
// rates, shelf life, temperature recommendations, references).
type CommodityRecordRepository[T any] interface {
	// Create inserts record under commodityID and returns the stored row.
	Create(ctx context.Context, commodityID string, record *T) (*T, error)
	// GetByCommodity returns the commodity's rows in insertion order.
	// Returns an empty slice, never an error, when there are none.
	GetByCommodity(ctx context.Context, commodityID string) ([]*T, error)
	// Update applies a partial update. Returns apperrors.ErrNotFound if no row matched.
	Update(ctx context.Context, id int64, fields map[string]any) (*T, error)
	// Delete removes a row. Returns apperrors.ErrNotFound if no row matched.
	Delete(ctx context.Context, id int64) error
}

// conn returns the request-scoped connection from ctx.
func conn(ctx context.Context) (database.Querier, error) {
	scope, ok := database.GetRequestScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}
	return scope.Conn, nil
}

// storageError classifies constraint violations as client errors and wraps
// everything else with the failed action.
func storageError(err error, action string) error {
	classified := apperrors.FromPgError(err)
	if _, ok := apperrors.Message(classified); ok {
		return classified
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE
// metacharacters in s matched literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
