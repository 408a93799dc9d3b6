package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
)

type curriculumRepository struct {
	db core.DBExecutor
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(db core.DBExecutor) curriculum.Repository {
	return &curriculumRepository{db: db}
}

func (repo *curriculumRepository) CreateCurriculum(ctx context.Context, c curriculum.Curriculum) (curriculum.Curriculum, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "encoding curriculum")
	}
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO curricula (id, user_id, status, doc) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
		c.ID, c.UserID, string(c.Status), types.JSONText(doc),
	)
	if err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "inserting curriculum")
	}
	if n, err := res.RowsAffected(); err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "inserting curriculum")
	} else if n == 0 {
		return curriculum.Curriculum{}, curriculum.ErrCurriculumExists
	}
	return c, nil
}

func (repo *curriculumRepository) GetCurriculum(ctx context.Context, userID, id string) (curriculum.Curriculum, error) {
	var doc types.JSONText
	err := repo.db.GetContext(ctx, &doc, `SELECT doc FROM curricula WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return curriculum.Curriculum{}, curriculum.ErrNotFound
		}
		return curriculum.Curriculum{}, errors.Wrap(err, "selecting curriculum")
	}
	var c curriculum.Curriculum
	if err = doc.Unmarshal(&c); err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "decoding curriculum")
	}
	return c, nil
}

func (repo *curriculumRepository) CurriculumExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM curricula WHERE id = $1)`, id); err != nil {
		return false, errors.Wrap(err, "checking curriculum")
	}
	return exists, nil
}

func (repo *curriculumRepository) QueryCurricula(ctx context.Context, userID string, filter curriculum.QueryFilter) ([]curriculum.Curriculum, error) {
	q := `SELECT doc FROM curricula WHERE user_id = $1 ORDER BY seq`
	args := []interface{}{userID}
	if filter.Status != "" {
		q = `SELECT doc FROM curricula WHERE user_id = $1 AND status = $2 ORDER BY seq`
		args = append(args, string(filter.Status))
	}

	var docs []types.JSONText
	if err := repo.db.SelectContext(ctx, &docs, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting curricula")
	}
	curricula := make([]curriculum.Curriculum, 0, len(docs))
	for _, doc := range docs {
		var c curriculum.Curriculum
		if err := doc.Unmarshal(&c); err != nil {
			return nil, errors.Wrap(err, "decoding curriculum")
		}
		curricula = append(curricula, c)
	}
	return curricula, nil
}

func (repo *curriculumRepository) UpdateCurriculum(ctx context.Context, c curriculum.Curriculum) (curriculum.Curriculum, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "encoding curriculum")
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE curricula SET status = $3, doc = $4 WHERE id = $1 AND user_id = $2`,
		c.ID, c.UserID, string(c.Status), types.JSONText(doc),
	)
	if err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "updating curriculum")
	}
	if n, err := res.RowsAffected(); err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "updating curriculum")
	} else if n == 0 {
		return curriculum.Curriculum{}, curriculum.ErrNotFound
	}
	return c, nil
}
