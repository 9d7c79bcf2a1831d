package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/models"
)

type commodityServiceFixture struct {
	commodities *mockCommodityRepo
	ethylene    *mockRecordRepo[models.EthyleneSensitivity]
	respiration *mockRecordRepo[models.RespirationRate]
	shelfLife   *mockRecordRepo[models.ShelfLife]
	temperature *mockRecordRepo[models.TemperatureRecommendation]
	references  *mockRecordRepo[models.Reference]
	studies     *mockStudyRepo
	links       *mockStudyLinkRepo
	logs        *observer.ObservedLogs
	service     CommodityService
}

func newCommodityServiceFixture() *commodityServiceFixture {
	core, logs := observer.New(zapcore.DebugLevel)
	f := &commodityServiceFixture{
		commodities: newMockCommodityRepo(),
		ethylene:    newMockRecordRepo[models.EthyleneSensitivity](),
		respiration: newMockRecordRepo[models.RespirationRate](),
		shelfLife:   newMockRecordRepo[models.ShelfLife](),
		temperature: newMockRecordRepo[models.TemperatureRecommendation](),
		references:  newMockRecordRepo[models.Reference](),
		studies:     newMockStudyRepo(),
		links:       &mockStudyLinkRepo{},
		logs:        logs,
	}
	f.service = NewCommodityService(CommodityRepositories{
		Commodities: f.commodities,
		Ethylene:    f.ethylene,
		Respiration: f.respiration,
		ShelfLife:   f.shelfLife,
		Temperature: f.temperature,
		References:  f.references,
		Studies:     f.studies,
		StudyLinks:  f.links,
	}, zap.New(core))
	return f
}

func strPtr(s string) *string { return &s }

func TestCommodityService_CreateGeneratesID(t *testing.T) {
	f := newCommodityServiceFixture()

	created, err := f.service.Create(context.Background(), &models.Commodity{
		CommodityName: "Apple",
		Variety:       strPtr("Gala"),
	})
	require.NoError(t, err)
	assert.Equal(t, "apple-gala", created.ID)
}

func TestCommodityService_CreateKeepsExplicitID(t *testing.T) {
	f := newCommodityServiceFixture()

	created, err := f.service.Create(context.Background(), &models.Commodity{
		ID:            "custom-id",
		CommodityName: "Apple",
	})
	require.NoError(t, err)
	assert.Equal(t, "custom-id", created.ID)
}

func TestCommodityService_CreateRequiresName(t *testing.T) {
	f := newCommodityServiceFixture()

	_, err := f.service.Create(context.Background(), &models.Commodity{CommodityName: "  "})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Empty(t, f.commodities.commodities)
}

func TestCommodityService_CreateRejectsPunctuationOnlyName(t *testing.T) {
	tests := []struct {
		name    string
		variety *string
	}{
		{"???", nil},
		{"???", strPtr("!!")},
		{"--", strPtr("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCommodityServiceFixture()

			_, err := f.service.Create(context.Background(), &models.Commodity{
				CommodityName: tt.name,
				Variety:       tt.variety,
			})
			assert.ErrorIs(t, err, apperrors.ErrBadRequest)
			assert.Empty(t, f.commodities.commodities)
		})
	}
}

func TestCommodityService_CreatePunctuatedNameWithDigitVariety(t *testing.T) {
	f := newCommodityServiceFixture()

	created, err := f.service.Create(context.Background(), &models.Commodity{
		CommodityName: "???",
		Variety:       strPtr("#1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)
}

func TestCommodityService_CreateDuplicateIsConflict(t *testing.T) {
	f := newCommodityServiceFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, &models.Commodity{CommodityName: "Apple", Variety: strPtr("Gala")})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, &models.Commodity{CommodityName: "Apple", Variety: strPtr("Gala")})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCommodityService_List(t *testing.T) {
	f := newCommodityServiceFixture()
	ctx := context.Background()
	for _, name := range []string{"Pear", "Apple", "Pineapple"} {
		_, err := f.service.Create(ctx, &models.Commodity{CommodityName: name})
		require.NoError(t, err)
	}

	all, err := f.service.List(ctx, models.CommodityFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Apple", all[0].CommodityName)

	filtered, err := f.service.List(ctx, models.CommodityFilter{CommodityName: "apple"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestCommodityService_GetMissingIsNotFound(t *testing.T) {
	f := newCommodityServiceFixture()

	_, err := f.service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	msg, ok := apperrors.Message(err)
	assert.True(t, ok)
	assert.Equal(t, "No commodity: missing", msg)
}

func TestCommodityService_GetStorageErrorIsNotNotFound(t *testing.T) {
	f := newCommodityServiceFixture()
	f.commodities.getErr = errStorage

	_, err := f.service.Get(context.Background(), "apple")
	assert.ErrorIs(t, err, errStorage)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommodityService_GetWithoutChildren(t *testing.T) {
	f := newCommodityServiceFixture()
	ctx := context.Background()
	_, err := f.service.Create(ctx, &models.Commodity{CommodityName: "Apple", Variety: strPtr("Gala")})
	require.NoError(t, err)

	detail, err := f.service.Get(ctx, "apple-gala")
	require.NoError(t, err)
	assert.Equal(t, "apple-gala", detail.ID)
	assert.NotNil(t, detail.EthyleneSensitivity)
	assert.Empty(t, detail.EthyleneSensitivity)
	assert.NotNil(t, detail.RespirationRates)
	assert.Empty(t, detail.RespirationRates)
	assert.NotNil(t, detail.ShelfLife)
	assert.NotNil(t, detail.TemperatureRecommendations)
	assert.NotNil(t, detail.References)
	assert.NotNil(t, detail.Studies)
	assert.Empty(t, detail.Studies)
	assert.Nil(t, f.studies.getByIDsArg, "no links means no study lookup")
}

func TestCommodityService_GetAssemblesAggregate(t *testing.T) {
	f := newCommodityServiceFixture()
	ctx := context.Background()
	_, err := f.service.Create(ctx, &models.Commodity{CommodityName: "Pear"})
	require.NoError(t, err)

	temp := 0.0
	f.ethylene.byCommodity["pear"] = []*models.EthyleneSensitivity{{ID: 1, CommodityID: "pear", Temperature: &temp}}
	f.references.byCommodity["pear"] = []*models.Reference{{ID: 7, CommodityID: "pear", Source: "Handbook"}}

	first, _ := f.studies.Create(ctx, &models.Study{Title: "First"})
	second, _ := f.studies.Create(ctx, &models.Study{Title: "Second"})
	// Linked in reverse id order; link order wins.
	f.links.links = []models.StudyCommodityLink{
		{CommodityID: "pear", StudyID: second.ID},
		{CommodityID: "pear", StudyID: first.ID},
	}

	detail, err := f.service.Get(ctx, "pear")
	require.NoError(t, err)
	require.Len(t, detail.EthyleneSensitivity, 1)
	require.Len(t, detail.References, 1)
	assert.Equal(t, "Handbook", detail.References[0].Source)
	require.Len(t, detail.Studies, 2)
	assert.Equal(t, "Second", detail.Studies[0].Title)
	assert.Equal(t, "First", detail.Studies[1].Title)
	assert.Equal(t, []int64{second.ID, first.ID}, f.studies.getByIDsArg)
}

func TestCommodityService_GetDegradesChildFailures(t *testing.T) {
	f := newCommodityServiceFixture()
	ctx := context.Background()
	_, err := f.service.Create(ctx, &models.Commodity{CommodityName: "Pear"})
	require.NoError(t, err)

	f.shelfLife.getErr = errStorage
	f.links.queryErr = errStorage
	f.references.byCommodity["pear"] = []*models.Reference{{ID: 1, Source: "Handbook"}}

	detail, err := f.service.Get(ctx, "pear")
	require.NoError(t, err)
	assert.NotNil(t, detail.ShelfLife)
	assert.Empty(t, detail.ShelfLife)
	assert.NotNil(t, detail.Studies)
	assert.Empty(t, detail.Studies)
	assert.Len(t, detail.References, 1)

	warnings := f.logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 2)
	assert.Equal(t, "shelf_life", warnings[0].ContextMap()["collection"])
	assert.Equal(t, "Failed to fetch study links", warnings[1].Message)
}

func TestCommodityService_GetStudyResolutionFailure(t *testing.T) {
	f := newCommodityServiceFixture()
	ctx := context.Background()
	_, err := f.service.Create(ctx, &models.Commodity{CommodityName: "Pear"})
	require.NoError(t, err)
	f.links.links = []models.StudyCommodityLink{{CommodityID: "pear", StudyID: 3}}
	f.studies.getByIDsErr = errStorage

	detail, err := f.service.Get(ctx, "pear")
	require.NoError(t, err)
	assert.Empty(t, detail.Studies)
}

func TestCommodityService_UpdateEmptyIsBadRequest(t *testing.T) {
	f := newCommodityServiceFixture()

	_, err := f.service.Update(context.Background(), "apple", map[string]any{})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Equal(t, 0, f.commodities.updateCalls)
}

func TestCommodityService_UpdateRejectsIDChange(t *testing.T) {
	f := newCommodityServiceFixture()

	_, err := f.service.Update(context.Background(), "apple", map[string]any{"id": "pear"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Equal(t, 0, f.commodities.updateCalls)
}

func TestCommodityService_Update(t *testing.T) {
	f := newCommodityServiceFixture()
	ctx := context.Background()
	_, err := f.service.Create(ctx, &models.Commodity{CommodityName: "Apple"})
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, "apple", map[string]any{"variety": "Fuji"})
	require.NoError(t, err)
	assert.Equal(t, "Fuji", *updated.Variety)
	assert.Equal(t, "apple", updated.ID)

	_, err = f.service.Update(ctx, "missing", map[string]any{"variety": "Fuji"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommodityService_Delete(t *testing.T) {
	f := newCommodityServiceFixture()
	ctx := context.Background()
	_, err := f.service.Create(ctx, &models.Commodity{CommodityName: "Apple"})
	require.NoError(t, err)

	id, err := f.service.Delete(ctx, "apple")
	require.NoError(t, err)
	assert.Equal(t, "apple", id)

	_, err = f.service.Delete(ctx, "apple")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
