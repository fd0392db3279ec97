// Package recommend 实现混合推荐：标题内容相似、问卷偏好、收藏相似三路信号合并排序。
package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/index"
	"github.com/rushteam/scentkit/metrics"
	"github.com/rushteam/scentkit/pipeline"
	"github.com/rushteam/scentkit/quiz"
	"github.com/rushteam/scentkit/rank"
	"github.com/rushteam/scentkit/recall"
	"github.com/rushteam/scentkit/rerank"
)

// Engine 是混合推荐引擎。目录与索引只读，缓存自带并发控制，
// 因此同一个 Engine 可被并发请求共享。
//
// 排序流程（pipeline）：
//
//	recall.Fanout(content, favorite, quiz) -> recall.Fallback -> rank.WeightSort -> rerank.PageNode
type Engine struct {
	index   *index.Index
	similar index.SimilarityService
	prefs   core.PreferencesStore
	favs    core.FavoritesStore
	scorer  *quiz.Scorer
	cfg     core.RankConfig
	timeout time.Duration
	logger  zerolog.Logger

	pipeline *pipeline.Pipeline
}

type Option func(*Engine)

// WithSimilarity 设置相似度服务，通常是 *index.Cache；默认直接查询索引。
func WithSimilarity(svc index.SimilarityService) Option {
	return func(e *Engine) { e.similar = svc }
}

func WithPreferences(store core.PreferencesStore) Option {
	return func(e *Engine) { e.prefs = store }
}

func WithFavorites(store core.FavoritesStore) Option {
	return func(e *Engine) { e.favs = store }
}

// WithUserStore 同时设置偏好与收藏存储。
func WithUserStore(store core.UserStore) Option {
	return func(e *Engine) {
		e.prefs = store
		e.favs = store
	}
}

// WithScorer 设置问卷打分器，默认使用内置 vibe 映射。
func WithScorer(s *quiz.Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

func WithRankConfig(cfg core.RankConfig) Option {
	return func(e *Engine) { e.cfg = cfg.WithDefaults() }
}

// WithSignalTimeout 限制每一路信号读取存储的耗时，超时的信号按无结果处理。
func WithSignalTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(ix *index.Index, opts ...Option) *Engine {
	e := &Engine{
		index:  ix,
		cfg:    core.DefaultRankConfig(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.similar == nil {
		e.similar = index.Direct{Index: ix}
	}
	if e.scorer == nil {
		e.scorer = quiz.NewScorer(ix.Catalog())
	}
	e.logger = e.logger.With().Str("component", "recommend").Logger()
	e.pipeline = e.buildPipeline()
	return e
}

func (e *Engine) buildPipeline() *pipeline.Pipeline {
	// Sources 的顺序即同权重时的来源优先级
	sources := []recall.Source{
		&recall.Content{
			Index:   e.index,
			Similar: e.similar,
			TopN:    e.cfg.ContentTopN,
			Weight:  e.cfg.ContentWeight,
		},
	}
	if e.favs != nil {
		sources = append(sources, &recall.Favorites{
			Store:   e.favs,
			Index:   e.index,
			Similar: e.similar,
			Limit:   e.cfg.FavoriteLimit,
			TopN:    e.cfg.FavoriteTopN,
			Weight:  e.cfg.FavoriteWeight,
		})
	}
	if e.prefs != nil {
		sources = append(sources, &recall.Preference{
			Store:  e.prefs,
			Scorer: e.scorer,
			Rank:   e.cfg,
		})
	}

	return &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Fanout{Sources: sources, Timeout: e.timeout},
		&recall.Fallback{Catalog: e.index.Catalog(), TopN: e.cfg.FallbackTopN, Weight: e.cfg.FallbackWeight},
		&rank.WeightSort{},
		&rerank.PageNode{MaxPerPage: e.cfg.MaxPerPage},
	}}
}

// RankConfig 返回生效的排序配置（已补全默认值）。
func (e *Engine) RankConfig() core.RankConfig {
	return e.cfg
}

// Catalog 返回引擎使用的目录。
func (e *Engine) Catalog() *core.Catalog {
	return e.index.Catalog()
}

// Rank 返回混合推荐的一页。缺失的用户、偏好、收藏或无法解析的标题都不是错误，
// 只是对应信号没有候选；目录非空时兜底保证结果非空。
func (e *Engine) Rank(ctx context.Context, req core.RankRequest) (*core.RankedPage, error) {
	start := time.Now()
	defer func() {
		metrics.RankDuration.Observe(time.Since(start).Seconds())
	}()

	req.Title = strings.TrimSpace(req.Title)
	rctx := core.NewRecommendContext(req)
	logger := e.requestLogger(ctx).With().Str("user_id", req.UserID).Logger()
	ctx = logger.WithContext(ctx)

	cands, err := e.pipeline.Run(ctx, rctx, nil)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	page := &core.RankedPage{
		Items:   make([]*core.Item, 0, len(cands)),
		Total:   rctx.Total,
		Page:    rctx.Page,
		PerPage: rctx.PerPage,
		Sources: make(map[core.Source]int),
	}
	for _, c := range cands {
		page.Items = append(page.Items, c.Item)
		page.Sources[c.Source]++
	}

	ev := logger.Debug()
	if lbl, ok := rctx.GetLabel("title_match"); ok {
		ev = ev.Str("title_match", lbl.Value)
	}
	ev.Str("title", req.Title).
		Int("total", page.Total).
		Int("page", page.Page).
		Int("returned", len(page.Items)).
		Dur("took", time.Since(start)).
		Msg("ranked")
	return page, nil
}

// requestLogger 优先沿用 ctx 里的 logger（保留 request_id 等请求字段），没有时用引擎自己的。
func (e *Engine) requestLogger(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return e.logger
}

// Personalized 是不带标题的推荐；请求页为空时返回评分最高的 per_page 个物品。
func (e *Engine) Personalized(ctx context.Context, req core.RankRequest) (*core.RankedPage, error) {
	req.Title = ""
	page, err := e.Rank(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		page.Items = e.index.Catalog().TopRated(page.PerPage)
		page.Sources = map[core.Source]int{core.SourceFallback: len(page.Items)}
	}
	return page, nil
}

// Similar 返回与 name 最相似的物品（纯内容相似，不看用户信号）。
// name 会先去掉 gender 后缀；精确匹配和子串匹配都失败时返回 core.ErrItemNotFound。
func (e *Engine) Similar(ctx context.Context, name string) ([]*core.Item, error) {
	query := StripGenderSuffix(name)
	id, ok := e.index.LookupByName(query)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrItemNotFound, name)
	}

	nbs := e.similar.Similar(ctx, id, e.cfg.SimilarTopN)
	out := make([]*core.Item, 0, len(nbs))
	for _, nb := range nbs {
		if it, ok := e.index.Catalog().Get(nb.ItemID); ok {
			out = append(out, it)
		}
	}
	return out, nil
}

var genderSuffixes = []string{"for women and men", "for men", "for women"}

// StripGenderSuffix 归一化名称并去掉 "for women and men" / "for men" / "for women"。
func StripGenderSuffix(name string) string {
	s := core.NormalizeName(name)
	for _, suffix := range genderSuffixes {
		s = strings.TrimSpace(strings.ReplaceAll(s, suffix, ""))
	}
	return s
}
