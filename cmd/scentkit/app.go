package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/rushteam/scentkit/config"
	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/filter"
	"github.com/rushteam/scentkit/index"
	"github.com/rushteam/scentkit/quiz"
	"github.com/rushteam/scentkit/recommend"
	"github.com/rushteam/scentkit/store"
	"github.com/rushteam/scentkit/store/sqlstore"
)

// app 持有一次进程生命周期内的依赖。
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	catalog *core.Catalog
	engine  *recommend.Engine
	quiz    *quiz.Service
	users   core.UserStore
	closers []io.Closer
}

// newApp 加载目录与相似度索引，并按配置选择用户数据后端。
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	db, err := sqlstore.Open(ctx, cfg.Storage.SQLiteDSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	a.closers = append(a.closers, db)

	items, err := db.AllItems(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.catalog = core.NewCatalog(items)

	ix, err := index.Load(cfg.Index.Path, a.catalog, index.WithThreshold(cfg.Index.Threshold))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load index: %w", err)
	}
	cache, err := index.NewCache(ix, cfg.Index.CacheSize)
	if err != nil {
		a.Close()
		return nil, err
	}

	switch cfg.Storage.Backend {
	case config.BackendRedis:
		kv, err := store.NewRedisStore(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisDB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, kv)
		a.users = store.NewUserStore(kv, store.WithKeyPrefix(cfg.Storage.KeyPrefix))
	default:
		a.users = db
	}

	scorer, err := newScorer(cfg, a.catalog, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.engine = recommend.New(ix,
		recommend.WithSimilarity(cache),
		recommend.WithUserStore(a.users),
		recommend.WithScorer(scorer),
		recommend.WithRankConfig(cfg.Rank),
		recommend.WithSignalTimeout(cfg.Server.SignalTimeout),
		recommend.WithLogger(logger),
	)
	a.quiz = quiz.NewService(a.users, a.engine,
		quiz.WithLogger(logger),
		quiz.WithPerPage(cfg.Rank.DefaultPerPage),
	)

	logger.Info().
		Int("fragrances", a.catalog.Len()).
		Str("index", cfg.Index.Path).
		Str("backend", cfg.Storage.Backend).
		Msg("catalog loaded")
	return a, nil
}

func newScorer(cfg *config.Config, catalog *core.Catalog, logger zerolog.Logger) (*quiz.Scorer, error) {
	opts := []quiz.ScorerOption{
		quiz.WithFallbackSize(cfg.Quiz.FallbackSize),
		quiz.WithDefaultMinRating(cfg.Quiz.MinRating),
	}
	if cfg.Quiz.VibeTable != "" {
		table, err := quiz.LoadVibeTableFile(cfg.Quiz.VibeTable)
		if err != nil {
			return nil, fmt.Errorf("load vibe table: %w", err)
		}
		opts = append(opts, quiz.WithVibeTable(table))
	}
	if cfg.Quiz.FilterExpr != "" {
		f, err := filter.NewExprFilter(cfg.Quiz.FilterExpr)
		if err != nil {
			return nil, fmt.Errorf("quiz filter: %w", err)
		}
		logger.Info().Str("expr", f.Expr()).Msg("quiz filter enabled")
		opts = append(opts, quiz.WithFilters(f))
	}
	return quiz.NewScorer(catalog, opts...), nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
