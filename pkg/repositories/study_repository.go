package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/windham/commodity-api/pkg/apperrors"
	"github.com/windham/commodity-api/pkg/models"
	"github.com/windham/commodity-api/pkg/sql"
)

// StudyRepository provides data access for windham_studies.
type StudyRepository interface {
	Create(ctx context.Context, study *models.Study) (*models.Study, error)
	GetAll(ctx context.Context) ([]*models.Study, error)
	// GetByID returns nil, nil when the study does not exist.
	GetByID(ctx context.Context, id int64) (*models.Study, error)
	// GetByIDs returns the studies in the order of ids. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Study, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Study, error)
	Delete(ctx context.Context, id int64) error
}

const studyColumns = `id, title, to_char(date, 'YYYY-MM-DD'), source, objective`

var studyUpdateColumns = map[string]string{
	"title":     "title",
	"date":      "date",
	"source":    "source",
	"objective": "objective",
}

type studyRepository struct{}

// NewStudyRepository creates a new StudyRepository.
func NewStudyRepository() StudyRepository {
	return &studyRepository{}
}

var _ StudyRepository = (*studyRepository)(nil)

func (r *studyRepository) Create(ctx context.Context, s *models.Study) (*models.Study, error) {
	date, err := parseStudyDate(s.Date)
	if err != nil {
		return nil, err
	}

	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO windham_studies (title, date, source, objective)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + studyColumns

	created, err := scanStudy(db.QueryRow(ctx, query, s.Title, date, s.Source, s.Objective))
	if err != nil {
		return nil, storageError(err, "create study")
	}
	return created, nil
}

func (r *studyRepository) GetAll(ctx context.Context) ([]*models.Study, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, `SELECT `+studyColumns+` FROM windham_studies ORDER BY date DESC NULLS LAST, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query studies: %w", err)
	}
	defer rows.Close()

	return collectStudies(rows)
}

func (r *studyRepository) GetByID(ctx context.Context, id int64) (*models.Study, error) {
	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	s, err := scanStudy(db.QueryRow(ctx, `SELECT `+studyColumns+` FROM windham_studies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get study: %w", err)
	}
	return s, nil
}

func (r *studyRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Study, error) {
	if len(ids) == 0 {
		return []*models.Study{}, nil
	}

	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, `SELECT `+studyColumns+` FROM windham_studies WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query studies by id: %w", err)
	}
	defer rows.Close()

	found, err := collectStudies(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Study, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	ordered := make([]*models.Study, 0, len(found))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

func (r *studyRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Study, error) {
	if raw, ok := fields["date"]; ok {
		converted, err := convertDateField(raw)
		if err != nil {
			return nil, err
		}
		copied := make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		copied["date"] = converted
		fields = copied
	}

	update, err := sql.BuildPartialUpdate(fields, studyUpdateColumns)
	if err != nil {
		return nil, err
	}

	db, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE windham_studies SET %s WHERE id = $%d RETURNING %s`,
		update.SetClause, update.NextParam(), studyColumns)

	s, err := scanStudy(db.QueryRow(ctx, query, update.Args(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("No study: %d", id)
		}
		return nil, storageError(err, "update study")
	}
	return s, nil
}

func (r *studyRepository) Delete(ctx context.Context, id int64) error {
	db, err := conn(ctx)
	if err != nil {
		return err
	}

	result, err := db.Exec(ctx, `DELETE FROM windham_studies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete study: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("Could not find study to delete: %d", id)
	}
	return nil
}

func collectStudies(rows pgx.Rows) ([]*models.Study, error) {
	studies := []*models.Study{}
	for rows.Next() {
		s, err := scanStudy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study: %w", err)
		}
		studies = append(studies, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating studies: %w", err)
	}
	return studies, nil
}

func scanStudy(row pgx.Row) (*models.Study, error) {
	var s models.Study
	if err := row.Scan(&s.ID, &s.Title, &s.Date, &s.Source, &s.Objective); err != nil {
		return nil, err
	}
	return &s, nil
}

// parseStudyDate converts an optional YYYY-MM-DD string to a DATE parameter.
func parseStudyDate(date *string) (*time.Time, error) {
	if date == nil || *date == "" {
		return nil, nil
	}
	t, err := time.Parse(models.StudyDateLayout, *date)
	if err != nil {
		return nil, apperrors.BadRequestf("Invalid study date %q, expected YYYY-MM-DD", *date)
	}
	return &t, nil
}

func convertDateField(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		t, err := parseStudyDate(&v)
		if err != nil || t == nil {
			return nil, err
		}
		return *t, nil
	default:
		return nil, apperrors.BadRequestf("Invalid study date, expected YYYY-MM-DD")
	}
}
