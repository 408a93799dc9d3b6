package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/core/user"
	dummydb "github.com/truongductri01/daily-spark/storage/database/dummy"
	redisrepos "github.com/truongductri01/daily-spark/storage/database/redis"
	sqlxrepos "github.com/truongductri01/daily-spark/storage/database/sqlx"
)

const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
)

// Repositories are the document store clients shared by the services.
type Repositories struct {
	Users     user.Repository
	Curricula curriculum.Repository
	close     func() error
}

func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// NewRepositories opens the storage backend selected by conf.Database.Engine.
func NewRepositories(ctx context.Context, conf *core.Config, logger core.Logger) (*Repositories, error) {
	switch conf.Database.Engine {
	case "", EngineMemory:
		db, err := dummydb.Open()
		if err != nil {
			return nil, errors.Wrap(err, "opening in-memory database")
		}
		logger.Warn("using the in-memory database: data is lost on restart")
		return &Repositories{
			Users:     dummydb.NewUserRepository(db),
			Curricula: dummydb.NewCurriculumRepository(db),
			close:     db.Close,
		}, nil

	case EnginePostgres:
		db, err := Open(conf)
		if err != nil {
			return nil, err
		}
		if err = EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info(fmt.Sprintf("connected to postgres at %s", conf.Database.Address()))
		return &Repositories{
			Users:     sqlxrepos.NewUserRepository(db),
			Curricula: sqlxrepos.NewCurriculumRepository(db),
			close:     db.Close,
		}, nil

	case EngineRedis:
		rdb, err := OpenRedis(ctx, conf)
		if err != nil {
			return nil, err
		}
		ns := strings.ToLower(conf.AppName)
		logger.Info(fmt.Sprintf("connected to redis at %s", conf.Redis.Addr))
		return &Repositories{
			Users:     redisrepos.NewUserRepository(rdb, ns),
			Curricula: redisrepos.NewCurriculumRepository(rdb, ns),
			close:     rdb.Close,
		}, nil

	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}
}
