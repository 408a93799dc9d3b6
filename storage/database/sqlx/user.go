package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/user"
)

type userRepository struct {
	db core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DBExecutor) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := json.Marshal(usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "encoding user")
	}
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO users (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		usr.ID, types.JSONText(doc),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	if n, err := res.RowsAffected(); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	} else if n == 0 {
		return user.User{}, user.ErrUserExists
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var doc types.JSONText
	if err := repo.db.GetContext(ctx, &doc, `SELECT doc FROM users WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	var usr user.User
	if err := doc.Unmarshal(&usr); err != nil {
		return user.User{}, errors.Wrap(err, "decoding user")
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := json.Marshal(usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "encoding user")
	}
	res, err := repo.db.ExecContext(ctx, `UPDATE users SET doc = $2 WHERE id = $1`, usr.ID, types.JSONText(doc))
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	} else if n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) QueryUserIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	if err := repo.db.SelectContext(ctx, &ids, `SELECT id FROM users ORDER BY seq`); err != nil {
		return nil, errors.Wrap(err, "selecting user ids")
	}
	return ids, nil
}

func (repo *userRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT count(*) FROM users`); err != nil {
		return 0, errors.Wrap(err, "counting users")
	}
	return count, nil
}
