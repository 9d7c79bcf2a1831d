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

// ShelfLifeRepository provides data access for shelf_life rows.
type ShelfLifeRepository interface {
	CommodityRecordRepository[models.ShelfLife]
}

const shelfLifeColumns = `id, commodity_id, temperature_celsius, shelf_life, packaging, relative_humidity, description`

var shelfLifeUpdateColumns = map[string]string{
	"temperatureCelsius": "temperature_celsius",
	"shelfLife":          "shelf_life",
	"packaging":          "packaging",
	"relativeHumidity":   "relative_humidity",
	"description":        "description",
}

type shelfLifeRepository struct{}

// NewShelfLifeRepository creates a new ShelfLifeRepository.
func NewShelfLifeRepository() ShelfLifeRepository {
	return &shelfLifeRepository{}
}

var _ ShelfLifeRepository = (*shelfLifeRepository)(nil)

func (r *shelfLifeRepository) Create(ctx context.Context, commodityID string, s *models.ShelfLife) (*models.ShelfLife, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO shelf_life (commodity_id, temperature_celsius, shelf_life, packaging, relative_humidity, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + shelfLifeColumns

	created, err := scanShelfLife(db.QueryRow(ctx, query,
		commodityID,
		s.TemperatureCelsius,
		s.ShelfLife,
		s.Packaging,
		s.RelativeHumidity,
		s.Description,
	))
	if err != nil {
		return nil, storageError(err, "create shelf life")
	}
	return created, nil
}

func (r *shelfLifeRepository) GetByCommodity(ctx context.Context, commodityID string) ([]*models.ShelfLife, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + shelfLifeColumns + ` FROM shelf_life WHERE commodity_id = $1 ORDER BY id`

	rows, err := db.Query(ctx, query, commodityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shelf life: %w", err)
	}
	defer rows.Close()

	records := []*models.ShelfLife{}
	for rows.Next() {
		s, err := scanShelfLife(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shelf life: %w", err)
		}
		records = append(records, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shelf life: %w", err)
	}

	return records, nil
}

func (r *shelfLifeRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.ShelfLife, error) {
	update, err := sql.BuildPartialUpdate(fields, shelfLifeUpdateColumns)
	if err != nil {
		return nil, err
	}

	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE shelf_life SET %s WHERE id = $%d RETURNING %s`,
		update.SetClause, update.NextParam(), shelfLifeColumns)

	s, err := scanShelfLife(db.QueryRow(ctx, query, update.Args(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("No shelf life record: %d", id)
		}
		return nil, storageError(err, "update shelf life")
	}
	return s, nil
}

func (r *shelfLifeRepository) Delete(ctx context.Context, id int64) error {
	db, err := conn(ctx)
	if err != nil {
		return err
	}

	result, err := db.Exec(ctx, `DELETE FROM shelf_life WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shelf life: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("Could not find shelf life record to delete: %d", id)
	}
	return nil
}

func scanShelfLife(row pgx.Row) (*models.ShelfLife, error) {
	var s models.ShelfLife
	err := row.Scan(
		&s.ID,
		&s.CommodityID,
		&s.TemperatureCelsius,
		&s.ShelfLife,
		&s.Packaging,
		&s.RelativeHumidity,
		&s.Description,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
