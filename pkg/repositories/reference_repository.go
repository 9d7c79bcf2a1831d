package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/models"
	"github.com/windham/commodity-api/pkg/sql"
)

// ReferenceRepository provides data access for bibliographic references.
// The table name is a reserved word and is always quoted.
type ReferenceRepository interface {
	CommodityRecordRepository[models.Reference]
}

const referenceColumns = `id, commodity_id, source`

var referenceUpdateColumns = map[string]string{
	"source": "source",
}

type referenceRepository struct{}

// NewReferenceRepository creates a new ReferenceRepository.
func NewReferenceRepository() ReferenceRepository {
	return &referenceRepository{}
}

var _ ReferenceRepository = (*referenceRepository)(nil)

func (r *referenceRepository) Create(ctx context.Context, commodityID string, ref *models.Reference) (*models.Reference, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO "references" (commodity_id, source) VALUES ($1, $2) RETURNING ` + referenceColumns

	created, err := scanReference(db.QueryRow(ctx, query, commodityID, ref.Source))
	if err != nil {
		return nil, storageError(err, "create reference")
	}
	return created, nil
}

func (r *referenceRepository) GetByCommodity(ctx context.Context, commodityID string) ([]*models.Reference, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + referenceColumns + ` FROM "references" WHERE commodity_id = $1 ORDER BY id`

	rows, err := db.Query(ctx, query, commodityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query references: %w", err)
	}
	defer rows.Close()

	records := []*models.Reference{}
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		records = append(records, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating references: %w", err)
	}

	return records, nil
}

func (r *referenceRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Reference, error) {
	update, err := sql.BuildPartialUpdate(fields, referenceUpdateColumns)
	if err != nil {
		return nil, err
	}

	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE "references" SET %s WHERE id = $%d RETURNING %s`,
		update.SetClause, update.NextParam(), referenceColumns)

	ref, err := scanReference(db.QueryRow(ctx, query, update.Args(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("No reference: %d", id)
		}
		return nil, storageError(err, "update reference")
	}
	return ref, nil
}

func (r *referenceRepository) Delete(ctx context.Context, id int64) error {
	db, err := conn(ctx)
	if err != nil {
		return err
	}

	result, err := db.Exec(ctx, `DELETE FROM "references" WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reference: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("Could not find reference to delete: %d", id)
	}
	return nil
}

func scanReference(row pgx.Row) (*models.Reference, error) {
	var ref models.Reference
	if err := row.Scan(&ref.ID, &ref.CommodityID, &ref.Source); err != nil {
		return nil, err
	}
	return &ref, nil
}
