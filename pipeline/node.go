package pipeline

import (
	"context"

	"github.com/rushteam/scentkit/core"
)

// Kind 用于标记 Node 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：各信号源生成候选并合并
	KindRank   Kind = "rank"   // 排序阶段：按权重排序
	KindReRank Kind = "rerank" // 重排阶段：分页截断
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 candidates -> 输出 candidates”的形态，方便召回合并、兜底、排序、分页等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		cands []*core.Candidate,
	) ([]*core.Candidate, error)
}
