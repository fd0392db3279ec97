package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/index"
	"github.com/rushteam/scentkit/pkg/utils"
)

// Content 是基于标题的内容相似召回：标题解析到目录物品后，取其 TopN 个相似物品。
// 标题为空或无法解析时不产出候选，也不报错。
type Content struct {
	Index   *index.Index
	Similar index.SimilarityService // 通常是 *index.Cache

	TopN   int
	Weight float64
}

func (r *Content) Name() string { return string(core.SourceContent) }

func (r *Content) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	if r.Index == nil || rctx == nil || rctx.Title == "" {
		return nil, nil
	}

	seed, ok := r.Index.LookupByName(rctx.Title)
	if !ok {
		rctx.PutLabel("title_match", utils.Label{Value: "miss", Source: "recall.content"})
		return nil, nil
	}
	rctx.PutLabel("title_match", utils.Label{Value: strconv.FormatInt(seed, 10), Source: "recall.content"})

	return neighbors(ctx, r.Index.Catalog(), r.similar(), seed, r.TopN, r.Weight, core.SourceContent), nil
}

func (r *Content) similar() index.SimilarityService {
	if r.Similar != nil {
		return r.Similar
	}
	return index.Direct{Index: r.Index}
}

// neighbors 把 seed 的相似物品转换为固定权重的候选
func neighbors(
	ctx context.Context,
	catalog *core.Catalog,
	sim index.SimilarityService,
	seed int64,
	topN int,
	weight float64,
	source core.Source,
) []*core.Candidate {
	nbs := sim.Similar(ctx, seed, topN)
	out := make([]*core.Candidate, 0, len(nbs))
	seedLabel := strconv.FormatInt(seed, 10)
	for _, nb := range nbs {
		it, ok := catalog.Get(nb.ItemID)
		if !ok {
			continue
		}
		c := core.NewCandidate(it, weight, source)
		c.PutLabel("similar_to", utils.Label{Value: seedLabel, Source: string(source)})
		c.PutLabel("similarity", utils.Label{Value: strconv.FormatFloat(nb.Score, 'f', 4, 64), Source: string(source)})
		out = append(out, c)
	}
	return out
}
