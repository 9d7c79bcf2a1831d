package repositories

import (
	"context"
	"fmt"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/models"
)

// StudyCommodityRepository provides data access for the
// windham_studies_commodities link table.
type StudyCommodityRepository interface {
	Create(ctx context.Context, link *models.StudyCommodityLink) (*models.StudyCommodityLink, error)
	// GetByStudyID returns the linked commodity ids in link order.
	GetByStudyID(ctx context.Context, studyID int64) ([]string, error)
	// GetByCommodityID returns the linked study ids in link order.
	GetByCommodityID(ctx context.Context, commodityID string) ([]int64, error)
	// DeleteByStudyID removes every link for the study.
	DeleteByStudyID(ctx context.Context, studyID int64) error
}

type studyCommodityRepository struct{}

// NewStudyCommodityRepository creates a new StudyCommodityRepository.
func NewStudyCommodityRepository() StudyCommodityRepository {
	return &studyCommodityRepository{}
}

var _ StudyCommodityRepository = (*studyCommodityRepository)(nil)

func (r *studyCommodityRepository) Create(ctx context.Context, link *models.StudyCommodityLink) (*models.StudyCommodityLink, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO windham_studies_commodities (commodity_id, study_id)
		VALUES ($1, $2)
		RETURNING commodity_id, study_id`

	var created models.StudyCommodityLink
	if err := db.QueryRow(ctx, query, link.CommodityID, link.StudyID).Scan(&created.CommodityID, &created.StudyID); err != nil {
		return nil, storageError(err, "link study to commodity")
	}
	return &created, nil
}

func (r *studyCommodityRepository) GetByStudyID(ctx context.Context, studyID int64) ([]string, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, `
		SELECT commodity_id FROM windham_studies_commodities
		WHERE study_id = $1
		ORDER BY id`, studyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query study commodities: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan commodity id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating study commodities: %w", err)
	}
	return ids, nil
}

func (r *studyCommodityRepository) GetByCommodityID(ctx context.Context, commodityID string) ([]int64, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, `
		SELECT study_id FROM windham_studies_commodities
		WHERE commodity_id = $1
		ORDER BY id`, commodityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query commodity studies: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan study id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commodity studies: %w", err)
	}
	return ids, nil
}

func (r *studyCommodityRepository) DeleteByStudyID(ctx context.Context, studyID int64) error {
	db, err := conn(ctx)
	if err != nil {
		return err
	}

	result, err := db.Exec(ctx, `DELETE FROM windham_studies_commodities WHERE study_id = $1`, studyID)
	if err != nil {
		return fmt.Errorf("failed to unlink study: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("No commodities linked to study: %d", studyID)
	}
	return nil
}
