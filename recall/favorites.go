package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/index"
)

// Favorites 是基于用户收藏的个性化召回：取前 Limit 个收藏，各自扩展 TopN 个相似物品。
type Favorites struct {
	Store   core.FavoritesStore
	Index   *index.Index
	Similar index.SimilarityService

	// Limit 参与召回的收藏数上限，按加入顺序取前 Limit 个
	Limit  int
	TopN   int
	Weight float64
}

func (r *Favorites) Name() string { return string(core.SourceFavorite) }

func (r *Favorites) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	if r.Store == nil || r.Index == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	ids, err := r.Store.ListFavorites(ctx, rctx.UserID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if r.Limit > 0 && len(ids) > r.Limit {
		ids = ids[:r.Limit]
	}

	sim := r.Similar
	if sim == nil {
		sim = index.Direct{Index: r.Index}
	}

	var out []*core.Candidate
	for _, id := range ids {
		out = append(out, neighbors(ctx, r.Index.Catalog(), sim, id, r.TopN, r.Weight, core.SourceFavorite)...)
	}
	return out, nil
}
