package recall

import (
	"context"

	"github.com/rushteam/scentkit/core"
)

// Source 表示一路召回信号（content / favorite / quiz / ...）。
// 返回的候选 Score 即排序权重，调用方不再二次加权。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}
