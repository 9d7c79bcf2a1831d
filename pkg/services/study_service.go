package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/models"
	"github.com/windham/commodity-api/pkg/repositories"
)

// StudyService provides operations on Windham studies and their links to commodities.
type StudyService interface {
	Create(ctx context.Context, study *models.Study) (*models.Study, error)
	List(ctx context.Context) ([]*models.Study, error)
	Get(ctx context.Context, id int64) (*models.Study, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Study, error)
	Delete(ctx context.Context, id int64) error

	// LinkCommodity relates a study to a commodity.
	LinkCommodity(ctx context.Context, link models.StudyCommodityLink) (*models.StudyCommodityLink, error)

	// GetStudyIDsForCommodity returns linked study ids in link order.
	GetStudyIDsForCommodity(ctx context.Context, commodityID string) ([]int64, error)

	// GetCommodityIDsForStudy returns linked commodity ids in link order.
	GetCommodityIDsForStudy(ctx context.Context, studyID int64) ([]string, error)

	// UnlinkStudy removes every commodity link of a study.
	UnlinkStudy(ctx context.Context, studyID int64) error
}

type studyService struct {
	studyRepo repositories.StudyRepository
	linkRepo  repositories.StudyCommodityRepository
	logger    *zap.Logger
}

// NewStudyService creates a new StudyService.
func NewStudyService(
	studyRepo repositories.StudyRepository,
	linkRepo repositories.StudyCommodityRepository,
	logger *zap.Logger,
) StudyService {
	return &studyService{
		studyRepo: studyRepo,
		linkRepo:  linkRepo,
		logger:    logger.Named("study-service"),
	}
}

var _ StudyService = (*studyService)(nil)

func (s *studyService) Create(ctx context.Context, study *models.Study) (*models.Study, error) {
	if strings.TrimSpace(study.Title) == "" {
		return nil, apperrors.BadRequestf("title is required")
	}

	created, err := s.studyRepo.Create(ctx, study)
	if err != nil {
		return nil, fmt.Errorf("create study: %w", err)
	}

	s.logger.Info("Created study", zap.Int64("study_id", created.ID))
	return created, nil
}

func (s *studyService) List(ctx context.Context) ([]*models.Study, error) {
	studies, err := s.studyRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list studies: %w", err)
	}
	return studies, nil
}

func (s *studyService) Get(ctx context.Context, id int64) (*models.Study, error) {
	study, err := s.studyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get study: %w", err)
	}
	if study == nil {
		return nil, apperrors.NotFoundf("No study: %d", id)
	}
	return study, nil
}

func (s *studyService) Update(ctx context.Context, id int64, fields map[string]any) (*models.Study, error) {
	if len(fields) == 0 {
		return nil, apperrors.BadRequestf("No data")
	}

	updated, err := s.studyRepo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update study: %w", err)
	}

	s.logger.Info("Updated study", zap.Int64("study_id", id))
	return updated, nil
}

func (s *studyService) Delete(ctx context.Context, id int64) error {
	if err := s.studyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete study: %w", err)
	}

	s.logger.Info("Deleted study", zap.Int64("study_id", id))
	return nil
}

func (s *studyService) LinkCommodity(ctx context.Context, link models.StudyCommodityLink) (*models.StudyCommodityLink, error) {
	if link.StudyID == 0 {
		return nil, apperrors.BadRequestf("Please pick a study")
	}
	if link.CommodityID == "" {
		return nil, apperrors.BadRequestf("Please pick a commodity")
	}

	created, err := s.linkRepo.Create(ctx, &link)
	if err != nil {
		s.logger.Error("Failed to link study to commodity",
			zap.Int64("study_id", link.StudyID),
			zap.String("commodity_id", link.CommodityID),
			zap.Error(err))
		return nil, fmt.Errorf("link study: %w", err)
	}

	s.logger.Info("Linked study to commodity",
		zap.Int64("study_id", created.StudyID),
		zap.String("commodity_id", created.CommodityID))
	return created, nil
}

func (s *studyService) GetStudyIDsForCommodity(ctx context.Context, commodityID string) ([]int64, error) {
	ids, err := s.linkRepo.GetByCommodityID(ctx, commodityID)
	if err != nil {
		return nil, fmt.Errorf("get studies for commodity: %w", err)
	}
	return ids, nil
}

func (s *studyService) GetCommodityIDsForStudy(ctx context.Context, studyID int64) ([]string, error) {
	ids, err := s.linkRepo.GetByStudyID(ctx, studyID)
	if err != nil {
		return nil, fmt.Errorf("get commodities for study: %w", err)
	}
	return ids, nil
}

func (s *studyService) UnlinkStudy(ctx context.Context, studyID int64) error {
	if err := s.linkRepo.DeleteByStudyID(ctx, studyID); err != nil {
		return fmt.Errorf("unlink study: %w", err)
	}

	s.logger.Info("Unlinked study from commodities", zap.Int64("study_id", studyID))
	return nil
}
