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

// EthyleneRepository provides data access for ethylene_sensitivity rows.
type EthyleneRepository interface {
	CommodityRecordRepository[models.EthyleneSensitivity]
}

const ethyleneColumns = `id, commodity_id, temperature, c2h4_production, c2h4_class`

var ethyleneUpdateColumns = map[string]string{
	"temperature":    "temperature",
	"c2h4Production": "c2h4_production",
	"c2h4Class":      "c2h4_class",
}

type ethyleneRepository struct{}

// NewEthyleneRepository creates a new EthyleneRepository.
func NewEthyleneRepository() EthyleneRepository {
	return &ethyleneRepository{}
}

var _ EthyleneRepository = (*ethyleneRepository)(nil)

func (r *ethyleneRepository) Create(ctx context.Context, commodityID string, e *models.EthyleneSensitivity) (*models.EthyleneSensitivity, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO ethylene_sensitivity (commodity_id, temperature, c2h4_production, c2h4_class)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + ethyleneColumns

	created, err := scanEthylene(db.QueryRow(ctx, query, commodityID, e.Temperature, e.C2H4Production, e.C2H4Class))
	if err != nil {
		return nil, storageError(err, "create ethylene sensitivity")
	}
	return created, nil
}

func (r *ethyleneRepository) GetByCommodity(ctx context.Context, commodityID string) ([]*models.EthyleneSensitivity, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + ethyleneColumns + ` FROM ethylene_sensitivity WHERE commodity_id = $1 ORDER BY id`

	rows, err := db.Query(ctx, query, commodityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ethylene sensitivity: %w", err)
	}
	defer rows.Close()

	records := []*models.EthyleneSensitivity{}
	for rows.Next() {
		e, err := scanEthylene(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ethylene sensitivity: %w", err)
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ethylene sensitivity: %w", err)
	}

	return records, nil
}

func (r *ethyleneRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.EthyleneSensitivity, error) {
	update, err := sql.BuildPartialUpdate(fields, ethyleneUpdateColumns)
	if err != nil {
		return nil, err
	}

	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE ethylene_sensitivity SET %s WHERE id = $%d RETURNING %s`,
		update.SetClause, update.NextParam(), ethyleneColumns)

	e, err := scanEthylene(db.QueryRow(ctx, query, update.Args(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("No ethylene sensitivity record: %d", id)
		}
		return nil, storageError(err, "update ethylene sensitivity")
	}
	return e, nil
}

func (r *ethyleneRepository) Delete(ctx context.Context, id int64) error {
	db, err := conn(ctx)
	if err != nil {
		return err
	}

	result, err := db.Exec(ctx, `DELETE FROM ethylene_sensitivity WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ethylene sensitivity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("Could not find ethylene sensitivity record to delete: %d", id)
	}
	return nil
}

func scanEthylene(row pgx.Row) (*models.EthyleneSensitivity, error) {
	var e models.EthyleneSensitivity
	if err := row.Scan(&e.ID, &e.CommodityID, &e.Temperature, &e.C2H4Production, &e.C2H4Class); err != nil {
		return nil, err
	}
	return &e, nil
}
