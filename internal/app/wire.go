package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/marquee/internal/adapters/cache/questioncache"
	"github.com/okian/marquee/internal/adapters/firestore"
	"github.com/okian/marquee/internal/adapters/redismirror"
	"github.com/okian/marquee/internal/adapters/repository"
	"github.com/okian/marquee/internal/config"
	"github.com/okian/marquee/pkg/logger"
)

const redisPingTimeout = 2 * time.Second

// questionFetcher is the question cache's document source.
type questionFetcher interface {
	questioncache.Fetcher
	Close() error
}

// openQuestionFetcher connects to Firestore. Tests replace it.
//
//nolint:gochecknoglobals // test seam
var openQuestionFetcher = func(ctx context.Context, cfg *config.Config, log logger.Logger) (questionFetcher, error) {
	c, err := firestore.New(ctx, cfg.FirestoreProjectID,
		firestore.WithCollection(cfg.FirestoreCollection),
		firestore.WithCredentialsFile(cfg.FirestoreCredentialsFile),
		firestore.WithLogger(log.Named("firestore")),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FromConfig opens the store, applies migrations and seeds, and builds the
// optional question cache. Optional backends that fail to come up are logged
// and left out. The returned service is not started.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.Nop()
	}

	store, err := repository.Open(ctx, cfg.DBDriver, cfg.DBDSN, repository.WithLogger(log.Named("repository")))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	if cfg.SeedOnStart {
		if err := store.Seed(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}

	opts := []Option{
		WithLogger(log),
		WithWorkerCount(cfg.BattleRecordWorkers),
		WithQueueSize(cfg.BattleRecordQueueSize),
		WithCloser(store.Close),
	}

	if cfg.FirestoreProjectID == "" {
		log.Info(ctx, "firestore not configured; serving questions from the store only")
		return New(store, opts...), nil
	}

	fetcher, err := openQuestionFetcher(ctx, cfg, log)
	if err != nil {
		log.Warn(ctx, "firestore unavailable; serving questions from the store only",
			logger.String("project", cfg.FirestoreProjectID),
			logger.Error(err),
		)
		return New(store, opts...), nil
	}
	opts = append(opts, WithCloser(fetcher.Close))

	cacheOpts := []questioncache.Option{
		questioncache.WithTTL(cfg.CacheTTL()),
		questioncache.WithLogger(log.Named("questioncache")),
	}
	if rdb := openRedis(ctx, cfg, log); rdb != nil {
		cacheOpts = append(cacheOpts, questioncache.WithMirror(redismirror.New(rdb)))
		opts = append(opts, WithCloser(rdb.Close))
	}

	opts = append(opts, WithQuestionCache(questioncache.New(fetcher, cacheOpts...)))
	return New(store, opts...), nil
}

// openRedis returns nil when Redis is not configured or not reachable.
func openRedis(ctx context.Context, cfg *config.Config, log logger.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		log.Warn(ctx, "redis unavailable; question mirror disabled",
			logger.String("addr", cfg.RedisAddr),
			logger.Error(err),
		)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
