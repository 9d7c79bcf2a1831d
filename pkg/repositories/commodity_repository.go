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

// CommodityRepository provides data access for the commodities table.
type CommodityRepository interface {
	Create(ctx context.Context, commodity *models.Commodity) (*models.Commodity, error)
	GetAll(ctx context.Context, filter models.CommodityFilter) ([]*models.Commodity, error)
	// GetByID returns nil, nil when the commodity does not exist.
	GetByID(ctx context.Context, id string) (*models.Commodity, error)
	Update(ctx context.Context, id string, fields map[string]any) (*models.Commodity, error)
	Delete(ctx context.Context, id string) error
}

const commodityColumns = `id, commodity_name, variety, scientific_name, cooling_method, climacteric`

// commodityUpdateColumns maps updatable logical fields to columns. id is
// deliberately absent: commodity ids are immutable.
var commodityUpdateColumns = map[string]string{
	"commodityName":  "commodity_name",
	"variety":        "variety",
	"scientificName": "scientific_name",
	"coolingMethod":  "cooling_method",
	"climacteric":    "climacteric",
}

type commodityRepository struct{}

// NewCommodityRepository creates a new CommodityRepository.
func NewCommodityRepository() CommodityRepository {
	return &commodityRepository{}
}

var _ CommodityRepository = (*commodityRepository)(nil)

func (r *commodityRepository) Create(ctx context.Context, c *models.Commodity) (*models.Commodity, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO commodities (id, commodity_name, variety, scientific_name, cooling_method, climacteric)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + commodityColumns

	row := db.QueryRow(ctx, query,
		c.ID,
		c.CommodityName,
		c.Variety,
		c.ScientificName,
		c.CoolingMethod,
		c.Climacteric,
	)
	created, err := scanCommodity(row)
	if err != nil {
		return nil, storageError(err, "create commodity")
	}
	return created, nil
}

func (r *commodityRepository) GetAll(ctx context.Context, filter models.CommodityFilter) ([]*models.Commodity, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + commodityColumns + ` FROM commodities`
	var args []any
	if filter.CommodityName != "" {
		query += ` WHERE commodity_name ILIKE $1 ESCAPE '\'`
		args = append(args, containsPattern(filter.CommodityName))
	}
	query += ` ORDER BY commodity_name, id`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commodities: %w", err)
	}
	defer rows.Close()

	commodities := []*models.Commodity{}
	for rows.Next() {
		c, err := scanCommodity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commodity: %w", err)
		}
		commodities = append(commodities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commodities: %w", err)
	}

	return commodities, nil
}

func (r *commodityRepository) GetByID(ctx context.Context, id string) (*models.Commodity, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + commodityColumns + ` FROM commodities WHERE id = $1`

	c, err := scanCommodity(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get commodity: %w", err)
	}
	return c, nil
}

func (r *commodityRepository) Update(ctx context.Context, id string, fields map[string]any) (*models.Commodity, error) {
	update, err := sql.BuildPartialUpdate(fields, commodityUpdateColumns)
	if err != nil {
		return nil, err
	}

	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE commodities SET %s WHERE id = $%d RETURNING %s`,
		update.SetClause, update.NextParam(), commodityColumns)

	c, err := scanCommodity(db.QueryRow(ctx, query, update.Args(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("No commodity: %s", id)
		}
		return nil, storageError(err, "update commodity")
	}
	return c, nil
}

func (r *commodityRepository) Delete(ctx context.Context, id string) error {
	db, err := conn(ctx)
	if err != nil {
		return err
	}

	result, err := db.Exec(ctx, `DELETE FROM commodities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete commodity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("Could not find commodity to delete: %s", id)
	}
	return nil
}

func scanCommodity(row pgx.Row) (*models.Commodity, error) {
	var c models.Commodity
	err := row.Scan(
		&c.ID,
		&c.CommodityName,
		&c.Variety,
		&c.ScientificName,
		&c.CoolingMethod,
		&c.Climacteric,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
