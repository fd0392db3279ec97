package rank

import (
	"context"
	"sort"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/pipeline"
)

// WeightSort 按候选权重降序排序。
// 稳定排序：权重相同的候选保持合并后的相对顺序，保证同样的输入得到同样的输出。
type WeightSort struct{}

func (n *WeightSort) Name() string        { return "rank.weight_sort" }
func (n *WeightSort) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *WeightSort) Process(
	_ context.Context,
	_ *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
	return cands, nil
}
