package redisrepos

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/truongductri01/daily-spark/core/curriculum"
)

// keys: {ns}:curricula:{userID} (list of ids, insertion order), {ns}:curriculum:{id} (JSON document)
type curriculumRepository struct {
	rdb *redis.Client
	ns  string
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(rdb *redis.Client, namespace string) curriculum.Repository {
	return &curriculumRepository{rdb: rdb, ns: namespace}
}

func (repo *curriculumRepository) partitionKey(userID string) string { return repo.ns + ":curricula:" + userID }
func (repo *curriculumRepository) docKey(id string) string           { return repo.ns + ":curriculum:" + id }

func (repo *curriculumRepository) CreateCurriculum(ctx context.Context, c curriculum.Curriculum) (curriculum.Curriculum, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "encoding curriculum")
	}
	created, err := createIndexed(ctx, repo.rdb, repo.docKey(c.ID), doc, repo.partitionKey(c.UserID), c.ID)
	if err != nil {
		return curriculum.Curriculum{}, wrapErr(err, "storing curriculum")
	}
	if !created {
		return curriculum.Curriculum{}, curriculum.ErrCurriculumExists
	}
	return c, nil
}

func (repo *curriculumRepository) get(ctx context.Context, rdb getter, id string) (curriculum.Curriculum, error) {
	doc, err := rdb.Get(ctx, repo.docKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return curriculum.Curriculum{}, curriculum.ErrNotFound
		}
		return curriculum.Curriculum{}, wrapErr(err, "getting curriculum")
	}
	var c curriculum.Curriculum
	if err = json.Unmarshal(doc, &c); err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "decoding curriculum")
	}
	return c, nil
}

func (repo *curriculumRepository) GetCurriculum(ctx context.Context, userID, id string) (curriculum.Curriculum, error) {
	c, err := repo.get(ctx, repo.rdb, id)
	if err != nil {
		return curriculum.Curriculum{}, err
	}
	if c.UserID != userID {
		return curriculum.Curriculum{}, curriculum.ErrNotFound
	}
	return c, nil
}

func (repo *curriculumRepository) CurriculumExists(ctx context.Context, id string) (bool, error) {
	n, err := repo.rdb.Exists(ctx, repo.docKey(id)).Result()
	if err != nil {
		return false, wrapErr(err, "checking curriculum")
	}
	return n > 0, nil
}

func (repo *curriculumRepository) QueryCurricula(ctx context.Context, userID string, filter curriculum.QueryFilter) ([]curriculum.Curriculum, error) {
	ids, err := repo.rdb.LRange(ctx, repo.partitionKey(userID), 0, -1).Result()
	if err != nil {
		return nil, wrapErr(err, "listing curricula")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = repo.docKey(id)
	}
	docs, err := repo.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, wrapErr(err, "getting curricula")
	}

	curricula := make([]curriculum.Curriculum, 0, len(docs))
	for _, doc := range docs {
		s, ok := doc.(string)
		if !ok { // missing key
			continue
		}
		var c curriculum.Curriculum
		if err = json.Unmarshal([]byte(s), &c); err != nil {
			return nil, errors.Wrap(err, "decoding curriculum")
		}
		if filter.Match(c) {
			curricula = append(curricula, c)
		}
	}
	return curricula, nil
}

// UpdateCurriculum replaces the stored document, provided it exists in the partition of c.UserID.
// The check and the write run in one WATCH transaction.
func (repo *curriculumRepository) UpdateCurriculum(ctx context.Context, c curriculum.Curriculum) (curriculum.Curriculum, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return curriculum.Curriculum{}, errors.Wrap(err, "encoding curriculum")
	}

	key := repo.docKey(c.ID)
	err = repo.rdb.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := repo.get(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		if stored.UserID != c.UserID {
			return curriculum.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetXX(ctx, key, doc, redis.KeepTTL)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Cause(err) == curriculum.ErrNotFound {
			return curriculum.Curriculum{}, curriculum.ErrNotFound
		}
		if errors.Is(err, redis.TxFailedErr) {
			return curriculum.Curriculum{}, errors.Wrapf(err, "curriculum %q modified concurrently", c.ID)
		}
		return curriculum.Curriculum{}, wrapErr(err, "storing curriculum")
	}
	return c, nil
}
