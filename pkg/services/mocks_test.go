package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/models"
)

// mockCommodityRepo is an in-memory CommodityRepository.
type mockCommodityRepo struct {
	commodities map[string]*models.Commodity
	updateCalls int
	getErr      error
	createErr   error
}

func newMockCommodityRepo() *mockCommodityRepo {
	return &mockCommodityRepo{commodities: make(map[string]*models.Commodity)}
}

func (m *mockCommodityRepo) Create(ctx context.Context, c *models.Commodity) (*models.Commodity, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, exists := m.commodities[c.ID]; exists {
		return nil, apperrors.Conflictf("Key (id)=(%s) already exists.", c.ID)
	}
	stored := *c
	m.commodities[c.ID] = &stored
	return &stored, nil
}

func (m *mockCommodityRepo) GetAll(ctx context.Context, filter models.CommodityFilter) ([]*models.Commodity, error) {
	result := []*models.Commodity{}
	for _, c := range m.commodities {
		if filter.CommodityName == "" ||
			strings.Contains(strings.ToLower(c.CommodityName), strings.ToLower(filter.CommodityName)) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CommodityName < result[j].CommodityName })
	return result, nil
}

func (m *mockCommodityRepo) GetByID(ctx context.Context, id string) (*models.Commodity, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.commodities[id], nil
}

func (m *mockCommodityRepo) Update(ctx context.Context, id string, fields map[string]any) (*models.Commodity, error) {
	m.updateCalls++
	c, ok := m.commodities[id]
	if !ok {
		return nil, apperrors.NotFoundf("No commodity: %s", id)
	}
	if v, ok := fields["commodityName"].(string); ok {
		c.CommodityName = v
	}
	if v, ok := fields["variety"].(string); ok {
		c.Variety = &v
	}
	return c, nil
}

func (m *mockCommodityRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.commodities[id]; !ok {
		return apperrors.NotFoundf("Could not find commodity to delete: %s", id)
	}
	delete(m.commodities, id)
	return nil
}

// mockRecordRepo is an in-memory CommodityRecordRepository for any record type.
type mockRecordRepo[T any] struct {
	byCommodity map[string][]*T
	getErr      error
	updateCalls int
	deleted     []int64
	missing     bool
}

func newMockRecordRepo[T any]() *mockRecordRepo[T] {
	return &mockRecordRepo[T]{byCommodity: make(map[string][]*T)}
}

func (m *mockRecordRepo[T]) Create(ctx context.Context, commodityID string, record *T) (*T, error) {
	m.byCommodity[commodityID] = append(m.byCommodity[commodityID], record)
	return record, nil
}

func (m *mockRecordRepo[T]) GetByCommodity(ctx context.Context, commodityID string) ([]*T, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.byCommodity[commodityID], nil
}

func (m *mockRecordRepo[T]) Update(ctx context.Context, id int64, fields map[string]any) (*T, error) {
	m.updateCalls++
	if m.missing {
		return nil, apperrors.NotFoundf("No record: %d", id)
	}
	var updated T
	return &updated, nil
}

func (m *mockRecordRepo[T]) Delete(ctx context.Context, id int64) error {
	if m.missing {
		return apperrors.NotFoundf("Could not find record to delete: %d", id)
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockStudyRepo is an in-memory StudyRepository.
type mockStudyRepo struct {
	studies     map[int64]*models.Study
	nextID      int64
	getByIDsErr error
	getByIDsArg []int64
	updateCalls int
}

func newMockStudyRepo() *mockStudyRepo {
	return &mockStudyRepo{studies: make(map[int64]*models.Study), nextID: 1}
}

func (m *mockStudyRepo) Create(ctx context.Context, s *models.Study) (*models.Study, error) {
	stored := *s
	stored.ID = m.nextID
	m.nextID++
	m.studies[stored.ID] = &stored
	return &stored, nil
}

func (m *mockStudyRepo) GetAll(ctx context.Context) ([]*models.Study, error) {
	result := []*models.Study{}
	for _, s := range m.studies {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockStudyRepo) GetByID(ctx context.Context, id int64) (*models.Study, error) {
	return m.studies[id], nil
}

func (m *mockStudyRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Study, error) {
	m.getByIDsArg = ids
	if m.getByIDsErr != nil {
		return nil, m.getByIDsErr
	}
	result := []*models.Study{}
	for _, id := range ids {
		if s, ok := m.studies[id]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockStudyRepo) Update(ctx context.Context, id int64, fields map[string]any) (*models.Study, error) {
	m.updateCalls++
	s, ok := m.studies[id]
	if !ok {
		return nil, apperrors.NotFoundf("No study: %d", id)
	}
	if v, ok := fields["title"].(string); ok {
		s.Title = v
	}
	return s, nil
}

func (m *mockStudyRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.studies[id]; !ok {
		return apperrors.NotFoundf("Could not find study to delete: %d", id)
	}
	delete(m.studies, id)
	return nil
}

// mockStudyLinkRepo is an in-memory StudyCommodityRepository.
type mockStudyLinkRepo struct {
	links       []models.StudyCommodityLink
	createErr   error
	queryErr    error
	createCalls int
}

func (m *mockStudyLinkRepo) Create(ctx context.Context, link *models.StudyCommodityLink) (*models.StudyCommodityLink, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.links = append(m.links, *link)
	created := *link
	return &created, nil
}

func (m *mockStudyLinkRepo) GetByStudyID(ctx context.Context, studyID int64) ([]string, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	ids := []string{}
	for _, l := range m.links {
		if l.StudyID == studyID {
			ids = append(ids, l.CommodityID)
		}
	}
	return ids, nil
}

func (m *mockStudyLinkRepo) GetByCommodityID(ctx context.Context, commodityID string) ([]int64, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	ids := []int64{}
	for _, l := range m.links {
		if l.CommodityID == commodityID {
			ids = append(ids, l.StudyID)
		}
	}
	return ids, nil
}

func (m *mockStudyLinkRepo) DeleteByStudyID(ctx context.Context, studyID int64) error {
	kept := m.links[:0]
	removed := 0
	for _, l := range m.links {
		if l.StudyID == studyID {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	m.links = kept
	if removed == 0 {
		return apperrors.NotFoundf("No commodities linked to study: %d", studyID)
	}
	return nil
}

var errStorage = errors.New("connection reset by peer")
