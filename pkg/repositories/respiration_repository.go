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

// RespirationRepository provides data access for respiration_rates rows.
type RespirationRepository interface {
	CommodityRecordRepository[models.RespirationRate]
}

const respirationColumns = `id, commodity_id, temperature_celsius, rr_mg_kg_hr, rr_class`

var respirationUpdateColumns = map[string]string{
	"temperatureCelsius": "temperature_celsius",
	"respirationRate":    "rr_mg_kg_hr",
	"respirationClass":   "rr_class",
}

type respirationRepository struct{}

// NewRespirationRepository creates a new RespirationRepository.
func NewRespirationRepository() RespirationRepository {
	return &respirationRepository{}
}

var _ RespirationRepository = (*respirationRepository)(nil)

func (r *respirationRepository) Create(ctx context.Context, commodityID string, rr *models.RespirationRate) (*models.RespirationRate, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO respiration_rates (commodity_id, temperature_celsius, rr_mg_kg_hr, rr_class)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + respirationColumns

	created, err := scanRespiration(db.QueryRow(ctx, query,
		commodityID, rr.TemperatureCelsius, rr.RespirationRate, rr.RespirationClass))
	if err != nil {
		return nil, storageError(err, "create respiration rate")
	}
	return created, nil
}

func (r *respirationRepository) GetByCommodity(ctx context.Context, commodityID string) ([]*models.RespirationRate, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + respirationColumns + ` FROM respiration_rates WHERE commodity_id = $1 ORDER BY id`

	rows, err := db.Query(ctx, query, commodityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query respiration rates: %w", err)
	}
	defer rows.Close()

	records := []*models.RespirationRate{}
	for rows.Next() {
		rr, err := scanRespiration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan respiration rate: %w", err)
		}
		records = append(records, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating respiration rates: %w", err)
	}

	return records, nil
}

func (r *respirationRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.RespirationRate, error) {
	update, err := sql.BuildPartialUpdate(fields, respirationUpdateColumns)
	if err != nil {
		return nil, err
	}

	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE respiration_rates SET %s WHERE id = $%d RETURNING %s`,
		update.SetClause, update.NextParam(), respirationColumns)

	rr, err := scanRespiration(db.QueryRow(ctx, query, update.Args(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("No respiration rate record: %d", id)
		}
		return nil, storageError(err, "update respiration rate")
	}
	return rr, nil
}

func (r *respirationRepository) Delete(ctx context.Context, id int64) error {
	db, err := conn(ctx)
	if err != nil {
		return err
	}

	result, err := db.Exec(ctx, `DELETE FROM respiration_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete respiration rate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("Could not find respiration rate record to delete: %d", id)
	}
	return nil
}

func scanRespiration(row pgx.Row) (*models.RespirationRate, error) {
	var rr models.RespirationRate
	if err := row.Scan(&rr.ID, &rr.CommodityID, &rr.TemperatureCelsius, &rr.RespirationRate, &rr.RespirationClass); err != nil {
		return nil, err
	}
	return &rr, nil
}
