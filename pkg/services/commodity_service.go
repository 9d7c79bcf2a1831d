package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/commodityid"
	"github.com/windham/commodity-api/pkg/models"
	"github.com/windham/commodity-api/pkg/repositories"
)

// CommodityService provides operations on commodities and assembles the
// composite commodity view.
type CommodityService interface {
	// Create inserts a commodity. An empty ID is derived from name and variety.
	Create(ctx context.Context, commodity *models.Commodity) (*models.Commodity, error)

	// List returns commodities ordered by name, optionally filtered by a
	// case-insensitive name substring.
	List(ctx context.Context, filter models.CommodityFilter) ([]*models.Commodity, error)

	// Get returns the commodity with every related record and linked study.
	Get(ctx context.Context, id string) (*models.CommodityDetail, error)

	// Update applies a partial update keyed by logical field name.
	Update(ctx context.Context, id string, fields map[string]any) (*models.Commodity, error)

	// Delete removes the commodity and returns its id.
	Delete(ctx context.Context, id string) (string, error)
}

// CommodityRepositories groups the data access objects the composite view reads from.
type CommodityRepositories struct {
	Commodities repositories.CommodityRepository
	Ethylene    repositories.EthyleneRepository
	Respiration repositories.RespirationRepository
	ShelfLife   repositories.ShelfLifeRepository
	Temperature repositories.TemperatureRepository
	References  repositories.ReferenceRepository
	Studies     repositories.StudyRepository
	StudyLinks  repositories.StudyCommodityRepository
}

type commodityService struct {
	repos  CommodityRepositories
	logger *zap.Logger
}

// NewCommodityService creates a new CommodityService.
func NewCommodityService(repos CommodityRepositories, logger *zap.Logger) CommodityService {
	return &commodityService{
		repos:  repos,
		logger: logger.Named("commodity-service"),
	}
}

var _ CommodityService = (*commodityService)(nil)

func (s *commodityService) Create(ctx context.Context, c *models.Commodity) (*models.Commodity, error) {
	if strings.TrimSpace(c.CommodityName) == "" {
		return nil, apperrors.BadRequestf("commodityName is required")
	}
	if c.ID == "" {
		c.ID = commodityid.Generate(c.CommodityName, c.VarietyOrEmpty())
	}
	if c.ID == "" {
		return nil, apperrors.BadRequestf("commodityName must contain a letter or digit")
	}

	created, err := s.repos.Commodities.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create commodity: %w", err)
	}

	s.logger.Info("Created commodity", zap.String("commodity_id", created.ID))
	return created, nil
}

func (s *commodityService) List(ctx context.Context, filter models.CommodityFilter) ([]*models.Commodity, error) {
	commodities, err := s.repos.Commodities.GetAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list commodities: %w", err)
	}
	return commodities, nil
}

func (s *commodityService) Get(ctx context.Context, id string) (*models.CommodityDetail, error) {
	commodity, err := s.repos.Commodities.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get commodity: %w", err)
	}
	if commodity == nil {
		return nil, apperrors.NotFoundf("No commodity: %s", id)
	}

	detail := models.NewCommodityDetail(commodity)

	// Child fetch failures degrade to an empty collection.
	detail.EthyleneSensitivity = fetchOrEmpty(ctx, s.logger, id, "ethylene_sensitivity", s.repos.Ethylene.GetByCommodity)
	detail.RespirationRates = fetchOrEmpty(ctx, s.logger, id, "respiration_rates", s.repos.Respiration.GetByCommodity)
	detail.ShelfLife = fetchOrEmpty(ctx, s.logger, id, "shelf_life", s.repos.ShelfLife.GetByCommodity)
	detail.TemperatureRecommendations = fetchOrEmpty(ctx, s.logger, id, "temperature_recommendations", s.repos.Temperature.GetByCommodity)
	detail.References = fetchOrEmpty(ctx, s.logger, id, "references", s.repos.References.GetByCommodity)
	detail.Studies = s.linkedStudies(ctx, id)

	return detail, nil
}

// linkedStudies resolves the commodity's study links in link order.
func (s *commodityService) linkedStudies(ctx context.Context, commodityID string) []*models.Study {
	studyIDs, err := s.repos.StudyLinks.GetByCommodityID(ctx, commodityID)
	if err != nil {
		s.logger.Warn("Failed to fetch study links",
			zap.String("commodity_id", commodityID),
			zap.Error(err))
		return []*models.Study{}
	}
	if len(studyIDs) == 0 {
		return []*models.Study{}
	}

	studies, err := s.repos.Studies.GetByIDs(ctx, studyIDs)
	if err != nil {
		s.logger.Warn("Failed to resolve linked studies",
			zap.String("commodity_id", commodityID),
			zap.Int("link_count", len(studyIDs)),
			zap.Error(err))
		return []*models.Study{}
	}
	if len(studies) != len(studyIDs) {
		s.logger.Warn("Some linked studies could not be resolved",
			zap.String("commodity_id", commodityID),
			zap.Int("link_count", len(studyIDs)),
			zap.Int("resolved", len(studies)))
	}
	return studies
}

func fetchOrEmpty[T any](
	ctx context.Context,
	logger *zap.Logger,
	commodityID, collection string,
	fetch func(context.Context, string) ([]*T, error),
) []*T {
	records, err := fetch(ctx, commodityID)
	if err != nil {
		logger.Warn("Failed to fetch commodity records",
			zap.String("commodity_id", commodityID),
			zap.String("collection", collection),
			zap.Error(err))
		return []*T{}
	}
	if records == nil {
		return []*T{}
	}
	return records
}

func (s *commodityService) Update(ctx context.Context, id string, fields map[string]any) (*models.Commodity, error) {
	if len(fields) == 0 {
		return nil, apperrors.BadRequestf("No data")
	}
	if _, ok := fields["id"]; ok {
		return nil, apperrors.BadRequestf("Commodity id cannot be changed")
	}

	updated, err := s.repos.Commodities.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update commodity: %w", err)
	}

	s.logger.Info("Updated commodity",
		zap.String("commodity_id", id),
		zap.Int("field_count", len(fields)))
	return updated, nil
}

func (s *commodityService) Delete(ctx context.Context, id string) (string, error) {
	if err := s.repos.Commodities.Delete(ctx, id); err != nil {
		return "", fmt.Errorf("delete commodity: %w", err)
	}

	s.logger.Info("Deleted commodity", zap.String("commodity_id", id))
	return id, nil
}
