package recall

import (
	"context"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/metrics"
	"github.com/rushteam/scentkit/pipeline"
	"github.com/rushteam/scentkit/pkg/utils"
)

// Fallback 是兜底召回：只有上游没有任何候选时，返回目录中评分最高的 TopN 个物品。
// Fallback 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Fallback struct {
	Catalog *core.Catalog
	TopN    int
	Weight  float64
}

func (r *Fallback) Name() string        { return "recall.fallback" }
func (r *Fallback) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口：上游非空时原样返回
func (r *Fallback) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(cands) > 0 {
		return cands, nil
	}
	out, err := r.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	metrics.SignalCandidates.WithLabelValues(string(core.SourceFallback)).Add(float64(len(out)))
	return out, nil
}

// Recall 实现 Source 接口
func (r *Fallback) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Candidate, error) {
	top := r.Catalog.TopRated(r.TopN)
	out := make([]*core.Candidate, 0, len(top))
	for _, it := range top {
		c := core.NewCandidate(it, r.Weight, core.SourceFallback)
		c.PutLabel("recall_source", utils.Label{Value: string(core.SourceFallback), Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
