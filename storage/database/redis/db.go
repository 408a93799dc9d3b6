package redisrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/truongductri01/daily-spark/core"
)

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// wrapErr wraps err with msg; a closed client becomes a core shutdown error.
func wrapErr(err error, msg string) error {
	if errors.Is(err, redis.ErrClosed) {
		return errors.Wrap(core.NewShutdownError("redis client closed: "+err.Error()), msg)
	}
	return errors.Wrap(err, msg)
}

// createIndexed stores doc at docKey and appends id to listKey in a single MULTI/EXEC,
// unless docKey already exists, in which case created is false.
// Redis does not roll back a transaction whose commands failed at runtime,
// so the writes of a failed transaction are undone before returning the error.
func createIndexed(ctx context.Context, rdb *redis.Client, docKey string, doc []byte, listKey, id string) (created bool, err error) {
	err = rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, docKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, docKey, doc, 0)
			pipe.RPush(ctx, listKey, id)
			return nil
		})
		if err != nil {
			if !errors.Is(err, redis.TxFailedErr) {
				_, _ = tx.Pipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, docKey)
					pipe.LRem(ctx, listKey, -1, id)
					return nil
				})
			}
			return err
		}
		created = true
		return nil
	}, docKey)

	if errors.Is(err, redis.TxFailedErr) { // docKey was written concurrently
		return false, nil
	}
	return created, err
}
