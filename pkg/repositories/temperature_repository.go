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

// TemperatureRepository provides data access for temperature_recommendations rows.
type TemperatureRepository interface {
	CommodityRecordRepository[models.TemperatureRecommendation]
}

const temperatureColumns = `id, commodity_id, min_temperature_celsius, max_temperature_celsius, relative_humidity, description`

var temperatureUpdateColumns = map[string]string{
	"minTemperatureCelsius": "min_temperature_celsius",
	"maxTemperatureCelsius": "max_temperature_celsius",
	"relativeHumidity":      "relative_humidity",
	"description":           "description",
}

type temperatureRepository struct{}

// NewTemperatureRepository creates a new TemperatureRepository.
func NewTemperatureRepository() TemperatureRepository {
	return &temperatureRepository{}
}

var _ TemperatureRepository = (*temperatureRepository)(nil)

func (r *temperatureRepository) Create(ctx context.Context, commodityID string, t *models.TemperatureRecommendation) (*models.TemperatureRecommendation, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO temperature_recommendations (
			commodity_id, min_temperature_celsius, max_temperature_celsius, relative_humidity, description
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + temperatureColumns

	created, err := scanTemperature(db.QueryRow(ctx, query,
		commodityID,
		t.MinTemperatureCelsius,
		t.MaxTemperatureCelsius,
		t.RelativeHumidity,
		t.Description,
	))
	if err != nil {
		return nil, storageError(err, "create temperature recommendation")
	}
	return created, nil
}

func (r *temperatureRepository) GetByCommodity(ctx context.Context, commodityID string) ([]*models.TemperatureRecommendation, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + temperatureColumns + ` FROM temperature_recommendations WHERE commodity_id = $1 ORDER BY id`

	rows, err := db.Query(ctx, query, commodityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query temperature recommendations: %w", err)
	}
	defer rows.Close()

	records := []*models.TemperatureRecommendation{}
	for rows.Next() {
		t, err := scanTemperature(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan temperature recommendation: %w", err)
		}
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating temperature recommendations: %w", err)
	}

	return records, nil
}

func (r *temperatureRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.TemperatureRecommendation, error) {
	update, err := sql.BuildPartialUpdate(fields, temperatureUpdateColumns)
	if err != nil {
		return nil, err
	}

	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE temperature_recommendations SET %s WHERE id = $%d RETURNING %s`,
		update.SetClause, update.NextParam(), temperatureColumns)

	t, err := scanTemperature(db.QueryRow(ctx, query, update.Args(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("No temperature recommendation: %d", id)
		}
		return nil, storageError(err, "update temperature recommendation")
	}
	return t, nil
}

func (r *temperatureRepository) Delete(ctx context.Context, id int64) error {
	db, err := conn(ctx)
	if err != nil {
		return err
	}

	result, err := db.Exec(ctx, `DELETE FROM temperature_recommendations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete temperature recommendation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("Could not find temperature recommendation to delete: %d", id)
	}
	return nil
}

func scanTemperature(row pgx.Row) (*models.TemperatureRecommendation, error) {
	var t models.TemperatureRecommendation
	err := row.Scan(
		&t.ID,
		&t.CommodityID,
		&t.MinTemperatureCelsius,
		&t.MaxTemperatureCelsius,
		&t.RelativeHumidity,
		&t.Description,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
