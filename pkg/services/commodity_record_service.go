package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/repositories"
)

// CommodityRecordService manages one kind of record owned by a commodity
// (ethylene sensitivity, respiration rates, shelf life, temperature
// recommendations or references).
type CommodityRecordService[T any] interface {
	Create(ctx context.Context, commodityID string, record *T) (*T, error)
	ListByCommodity(ctx context.Context, commodityID string) ([]*T, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type commodityRecordService[T any] struct {
	kind   string
	repo   repositories.CommodityRecordRepository[T]
	logger *zap.Logger
}

// NewCommodityRecordService creates a CommodityRecordService over repo.
// kind names the record type in logs.
func NewCommodityRecordService[T any](kind string, repo repositories.CommodityRecordRepository[T], logger *zap.Logger) CommodityRecordService[T] {
	return &commodityRecordService[T]{
		kind:   kind,
		repo:   repo,
		logger: logger.Named(kind + "-service"),
	}
}

func (s *commodityRecordService[T]) Create(ctx context.Context, commodityID string, record *T) (*T, error) {
	if commodityID == "" {
		return nil, apperrors.BadRequestf("Please pick a commodity")
	}

	created, err := s.repo.Create(ctx, commodityID, record)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.kind, err)
	}

	s.logger.Info("Created commodity record",
		zap.String("kind", s.kind),
		zap.String("commodity_id", commodityID))
	return created, nil
}

func (s *commodityRecordService[T]) ListByCommodity(ctx context.Context, commodityID string) ([]*T, error) {
	records, err := s.repo.GetByCommodity(ctx, commodityID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind, err)
	}
	return records, nil
}

func (s *commodityRecordService[T]) Update(ctx context.Context, id int64, fields map[string]any) (*T, error) {
	if len(fields) == 0 {
		return nil, apperrors.BadRequestf("No data")
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.kind, err)
	}

	s.logger.Info("Updated commodity record",
		zap.String("kind", s.kind),
		zap.Int64("record_id", id))
	return updated, nil
}

func (s *commodityRecordService[T]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.kind, err)
	}

	s.logger.Info("Deleted commodity record",
		zap.String("kind", s.kind),
		zap.Int64("record_id", id))
	return nil
}
