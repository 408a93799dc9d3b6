package dummydb

import (
	"context"

	"github.com/truongductri01/daily-spark/core/curriculum"
)

type curriculumRepository struct {
	db *curriculumTable
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(db *DB) curriculum.Repository {
	return &curriculumRepository{db: db.curriculum}
}

func (repo *curriculumRepository) CreateCurriculum(_ context.Context, c curriculum.Curriculum) (curriculum.Curriculum, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; ok {
		return curriculum.Curriculum{}, curriculum.ErrCurriculumExists
	}
	stored := clone(c)
	repo.db.table[c.ID] = &stored
	repo.db.byUser[c.UserID] = append(repo.db.byUser[c.UserID], c.ID)
	return clone(stored), nil
}

func (repo *curriculumRepository) GetCurriculum(_ context.Context, userID, id string) (curriculum.Curriculum, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok && c.UserID == userID {
		return clone(*c), nil
	}
	return curriculum.Curriculum{}, curriculum.ErrNotFound
}

func (repo *curriculumRepository) CurriculumExists(_ context.Context, id string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.table[id]
	return ok, nil
}

func (repo *curriculumRepository) QueryCurricula(_ context.Context, userID string, filter curriculum.QueryFilter) ([]curriculum.Curriculum, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var curricula []curriculum.Curriculum
	for _, id := range repo.db.byUser[userID] {
		if c := repo.db.table[id]; filter.Match(*c) {
			curricula = append(curricula, clone(*c))
		}
	}
	return curricula, nil
}

func (repo *curriculumRepository) UpdateCurriculum(_ context.Context, c curriculum.Curriculum) (curriculum.Curriculum, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[c.ID]
	if !ok || orig.UserID != c.UserID {
		return curriculum.Curriculum{}, curriculum.ErrNotFound
	}
	stored := clone(c)
	repo.db.table[c.ID] = &stored
	return clone(stored), nil
}

// clone deep copies c so that callers never share slices with the table.
func clone(c curriculum.Curriculum) curriculum.Curriculum {
	topics := make([]curriculum.Topic, len(c.Topics))
	for i, tp := range c.Topics {
		if tp.Resources != nil {
			resources := make([]string, len(tp.Resources))
			copy(resources, tp.Resources)
			tp.Resources = resources
		}
		topics[i] = tp
	}
	c.Topics = topics
	return c
}
