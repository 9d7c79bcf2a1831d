//go:build integration

package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/models"
	"github.com/windham/commodity-api/pkg/testhelpers"
)

func TestStudyRepository_CreateAndGet(t *testing.T) {
	ctx := testhelpers.GetTestDB(t).Scope(t)
	repo := NewStudyRepository()

	created, err := repo.Create(ctx, &models.Study{
		Title:     "Modified atmosphere packaging of pears",
		Date:      strPtr("2021-06-15"),
		Source:    strPtr("Windham Packaging"),
		Objective: strPtr("Extend storage life"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "2021-06-15", *created.Date)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	missing, err := repo.GetByID(ctx, created.ID+1000)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStudyRepository_InvalidDate(t *testing.T) {
	ctx := testhelpers.GetTestDB(t).Scope(t)

	_, err := NewStudyRepository().Create(ctx, &models.Study{Title: "Bad date", Date: strPtr("June 2021")})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestStudyRepository_GetAllOrdersByDateDesc(t *testing.T) {
	ctx := testhelpers.GetTestDB(t).Scope(t)
	repo := NewStudyRepository()

	older, err := repo.Create(ctx, &models.Study{Title: "Older", Date: strPtr("2019-01-01")})
	require.NoError(t, err)
	newer, err := repo.Create(ctx, &models.Study{Title: "Newer", Date: strPtr("2023-01-01")})
	require.NoError(t, err)
	undated, err := repo.Create(ctx, &models.Study{Title: "Undated"})
	require.NoError(t, err)

	studies, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, studies, 3)
	assert.Equal(t, []int64{newer.ID, older.ID, undated.ID}, []int64{studies[0].ID, studies[1].ID, studies[2].ID})
}

func TestStudyRepository_GetByIDsPreservesOrder(t *testing.T) {
	ctx := testhelpers.GetTestDB(t).Scope(t)
	repo := NewStudyRepository()

	a, err := repo.Create(ctx, &models.Study{Title: "A"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &models.Study{Title: "B"})
	require.NoError(t, err)

	studies, err := repo.GetByIDs(ctx, []int64{b.ID, a.ID + b.ID + 1000, a.ID})
	require.NoError(t, err)
	require.Len(t, studies, 2)
	assert.Equal(t, "B", studies[0].Title)
	assert.Equal(t, "A", studies[1].Title)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStudyRepository_UpdateAndDelete(t *testing.T) {
	ctx := testhelpers.GetTestDB(t).Scope(t)
	repo := NewStudyRepository()

	created, err := repo.Create(ctx, &models.Study{Title: "Draft", Date: strPtr("2020-02-02")})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, map[string]any{
		"title": "Final",
		"date":  "2020-03-03",
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "2020-03-03", *updated.Date)

	_, err = repo.Update(ctx, created.ID+1000, map[string]any{"title": "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), apperrors.ErrNotFound)
}

func TestStudyCommodityRepository_Links(t *testing.T) {
	ctx := testhelpers.GetTestDB(t).Scope(t)
	studies := NewStudyRepository()
	links := NewStudyCommodityRepository()

	createTestCommodity(t, ctx, "pear", "Pear", nil)
	createTestCommodity(t, ctx, "apple-gala", "Apple", strPtr("Gala"))
	s1, err := studies.Create(ctx, &models.Study{Title: "S1"})
	require.NoError(t, err)
	s2, err := studies.Create(ctx, &models.Study{Title: "S2"})
	require.NoError(t, err)

	for _, l := range []models.StudyCommodityLink{
		{CommodityID: "pear", StudyID: s2.ID},
		{CommodityID: "pear", StudyID: s1.ID},
		{CommodityID: "apple-gala", StudyID: s2.ID},
	} {
		created, err := links.Create(ctx, &l)
		require.NoError(t, err)
		assert.Equal(t, l, *created)
	}

	studyIDs, err := links.GetByCommodityID(ctx, "pear")
	require.NoError(t, err)
	assert.Equal(t, []int64{s2.ID, s1.ID}, studyIDs)

	commodityIDs, err := links.GetByStudyID(ctx, s2.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pear", "apple-gala"}, commodityIDs)

	none, err := links.GetByCommodityID(ctx, "no-such-commodity")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	require.NoError(t, links.DeleteByStudyID(ctx, s2.ID))
	assert.ErrorIs(t, links.DeleteByStudyID(ctx, s2.ID), apperrors.ErrNotFound)

	commodityIDs, err = links.GetByStudyID(ctx, s2.ID)
	require.NoError(t, err)
	assert.Empty(t, commodityIDs)
}

func TestStudyCommodityRepository_DuplicateIsConflict(t *testing.T) {
	ctx := testhelpers.GetTestDB(t).Scope(t)
	createTestCommodity(t, ctx, "pear", "Pear", nil)
	s, err := NewStudyRepository().Create(ctx, &models.Study{Title: "S"})
	require.NoError(t, err)

	links := NewStudyCommodityRepository()
	_, err = links.Create(ctx, &models.StudyCommodityLink{CommodityID: "pear", StudyID: s.ID})
	require.NoError(t, err)
	_, err = links.Create(ctx, &models.StudyCommodityLink{CommodityID: "pear", StudyID: s.ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestStudyCommodityRepository_UnknownStudyIsBadRequest(t *testing.T) {
	ctx := testhelpers.GetTestDB(t).Scope(t)
	createTestCommodity(t, ctx, "pear", "Pear", nil)

	_, err := NewStudyCommodityRepository().Create(ctx, &models.StudyCommodityLink{CommodityID: "pear", StudyID: 999999})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
