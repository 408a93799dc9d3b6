package redisrepos

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/truongductri01/daily-spark/core/user"
)

// keys: {ns}:users (list of ids, insertion order), {ns}:user:{id} (JSON document)
type userRepository struct {
	rdb *redis.Client
	ns  string
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(rdb *redis.Client, namespace string) user.Repository {
	return &userRepository{rdb: rdb, ns: namespace}
}

func (repo *userRepository) idsKey() string          { return repo.ns + ":users" }
func (repo *userRepository) docKey(id string) string { return repo.ns + ":user:" + id }

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := json.Marshal(usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "encoding user")
	}
	created, err := createIndexed(ctx, repo.rdb, repo.docKey(usr.ID), doc, repo.idsKey(), usr.ID)
	if err != nil {
		return user.User{}, wrapErr(err, "storing user")
	}
	if !created {
		return user.User{}, user.ErrUserExists
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	doc, err := repo.rdb.Get(ctx, repo.docKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, wrapErr(err, "getting user")
	}
	var usr user.User
	if err = json.Unmarshal(doc, &usr); err != nil {
		return user.User{}, errors.Wrap(err, "decoding user")
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := json.Marshal(usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "encoding user")
	}
	updated, err := repo.rdb.SetXX(ctx, repo.docKey(usr.ID), doc, redis.KeepTTL).Result()
	if err != nil {
		return user.User{}, wrapErr(err, "storing user")
	}
	if !updated {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) QueryUserIDs(ctx context.Context) ([]string, error) {
	ids, err := repo.rdb.LRange(ctx, repo.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, wrapErr(err, "listing user ids")
	}
	return ids, nil
}

func (repo *userRepository) CountUsers(ctx context.Context) (int, error) {
	n, err := repo.rdb.LLen(ctx, repo.idsKey()).Result()
	if err != nil {
		return 0, wrapErr(err, "counting users")
	}
	return int(n), nil
}
