package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/windham/commodity-api/pkg/auth"
	"github.com/windham/commodity-api/pkg/models"
	"github.com/windham/commodity-api/pkg/services"
	"github.com/windham/commodity-api/pkg/testhelpers"
)

// mockCommodityService records its inputs and returns the configured values.
type mockCommodityService struct {
	commodity   *models.Commodity
	commodities []*models.Commodity
	detail      *models.CommodityDetail
	err         error

	gotFilter models.CommodityFilter
	gotID     string
	gotFields map[string]any
	gotCreate *models.Commodity
}

func (m *mockCommodityService) Create(ctx context.Context, c *models.Commodity) (*models.Commodity, error) {
	m.gotCreate = c
	if m.err != nil {
		return nil, m.err
	}
	if m.commodity != nil {
		return m.commodity, nil
	}
	return c, nil
}

func (m *mockCommodityService) List(ctx context.Context, filter models.CommodityFilter) ([]*models.Commodity, error) {
	m.gotFilter = filter
	return m.commodities, m.err
}

func (m *mockCommodityService) Get(ctx context.Context, id string) (*models.CommodityDetail, error) {
	m.gotID = id
	return m.detail, m.err
}

func (m *mockCommodityService) Update(ctx context.Context, id string, fields map[string]any) (*models.Commodity, error) {
	m.gotID = id
	m.gotFields = fields
	return m.commodity, m.err
}

func (m *mockCommodityService) Delete(ctx context.Context, id string) (string, error) {
	m.gotID = id
	if m.err != nil {
		return "", m.err
	}
	return id, nil
}

var _ services.CommodityService = (*mockCommodityService)(nil)

// mockRecordService is a CommodityRecordService for any record kind.
type mockRecordService[T any] struct {
	record  *T
	records []*T
	err     error

	gotCommodityID string
	gotID          int64
	gotFields      map[string]any
	gotCreate      *T
}

func (m *mockRecordService[T]) Create(ctx context.Context, commodityID string, record *T) (*T, error) {
	m.gotCommodityID = commodityID
	m.gotCreate = record
	if m.err != nil {
		return nil, m.err
	}
	return record, nil
}

func (m *mockRecordService[T]) ListByCommodity(ctx context.Context, commodityID string) ([]*T, error) {
	m.gotCommodityID = commodityID
	return m.records, m.err
}

func (m *mockRecordService[T]) Update(ctx context.Context, id int64, fields map[string]any) (*T, error) {
	m.gotID = id
	m.gotFields = fields
	return m.record, m.err
}

func (m *mockRecordService[T]) Delete(ctx context.Context, id int64) error {
	m.gotID = id
	return m.err
}

// mockStudyService records its inputs and returns the configured values.
type mockStudyService struct {
	study        *models.Study
	studies      []*models.Study
	link         *models.StudyCommodityLink
	studyIDs     []int64
	commodityIDs []string
	err          error

	gotID     int64
	gotFields map[string]any
	gotLink   models.StudyCommodityLink
	gotCreate *models.Study
}

func (m *mockStudyService) Create(ctx context.Context, s *models.Study) (*models.Study, error) {
	m.gotCreate = s
	if m.err != nil {
		return nil, m.err
	}
	return s, nil
}

func (m *mockStudyService) List(ctx context.Context) ([]*models.Study, error) {
	return m.studies, m.err
}

func (m *mockStudyService) Get(ctx context.Context, id int64) (*models.Study, error) {
	m.gotID = id
	return m.study, m.err
}

func (m *mockStudyService) Update(ctx context.Context, id int64, fields map[string]any) (*models.Study, error) {
	m.gotID = id
	m.gotFields = fields
	return m.study, m.err
}

func (m *mockStudyService) Delete(ctx context.Context, id int64) error {
	m.gotID = id
	return m.err
}

func (m *mockStudyService) LinkCommodity(ctx context.Context, link models.StudyCommodityLink) (*models.StudyCommodityLink, error) {
	m.gotLink = link
	if m.err != nil {
		return nil, m.err
	}
	return &link, nil
}

func (m *mockStudyService) GetStudyIDsForCommodity(ctx context.Context, commodityID string) ([]int64, error) {
	return m.studyIDs, m.err
}

func (m *mockStudyService) GetCommodityIDsForStudy(ctx context.Context, studyID int64) ([]string, error) {
	m.gotID = studyID
	return m.commodityIDs, m.err
}

func (m *mockStudyService) UnlinkStudy(ctx context.Context, studyID int64) error {
	m.gotID = studyID
	return m.err
}

var _ services.StudyService = (*mockStudyService)(nil)

// passthroughScope stands in for the database request scope middleware.
func passthroughScope(next http.HandlerFunc) http.HandlerFunc {
	return next
}

// newTestValidator compiles the embedded schemas or fails the test.
func newTestValidator(t *testing.T) *SchemaValidator {
	t.Helper()
	v, err := NewSchemaValidator()
	require.NoError(t, err)
	return v
}

// newTestAuthMiddleware verifies HS256 tokens signed with testhelpers.TestSecret.
func newTestAuthMiddleware(t *testing.T) *auth.Middleware {
	t.Helper()
	validator, err := auth.NewJWTValidator(&auth.ValidatorConfig{
		EnableVerification: true,
		SecretKey:          testhelpers.TestSecret,
	})
	require.NoError(t, err)
	return auth.NewMiddleware(auth.NewAuthService(validator, zap.NewNop()), zap.NewNop())
}

// doRequest sends a request through mux. token is "" for anonymous, or one of
// adminToken / userToken.
func doRequest(mux http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

var (
	adminToken = testhelpers.GenerateTestJWTWithBearer("admin", true)
	userToken  = testhelpers.GenerateTestJWTWithBearer("grower", false)
)
