package recall

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/metrics"
	"github.com/rushteam/scentkit/pipeline"
	"github.com/rushteam/scentkit/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并按物品 ID 合并结果。
//
// 合并规则：
//   - 同一物品保留权重最大的候选
//   - 权重相同时保留来源优先级更高的（content > favorite > quiz > fallback）
//   - 物品位置取第一次出现的位置
//
// 每个召回源的结果写入固定槽位，合并按 Sources 顺序进行，与 goroutine 调度无关。
// 召回源出错或超时只记录日志，返回空结果，不中断其他召回源。
type Fanout struct {
	Sources []Source
	Timeout time.Duration // 每个召回源的超时时间
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	logger := zerolog.Ctx(ctx)
	slots := make([][]*core.Candidate, len(n.Sources))

	eg, egCtx := errgroup.WithContext(ctx)

	for i, src := range n.Sources {
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			cands, err := src.Recall(recallCtx, rctx)
			if err != nil {
				metrics.SignalErrors.WithLabelValues(src.Name(), "recall").Inc()
				logger.Warn().Err(err).Str("source", src.Name()).Msg("recall source degraded")
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, c := range cands {
				if c == nil {
					continue
				}
				c.PutLabel("recall_source", utils.Label{Value: src.Name(), Source: "recall"})
			}
			metrics.SignalCandidates.WithLabelValues(src.Name()).Add(float64(len(cands)))
			slots[i] = cands
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return Merge(slots...), nil
}

// Merge 按物品 ID 合并多路候选，规则见 Fanout。
// 被替换的候选的 labels 会合并到胜出的候选上。
func Merge(lists ...[]*core.Candidate) []*core.Candidate {
	size := 0
	for _, l := range lists {
		size += len(l)
	}

	seen := make(map[int64]int, size)
	out := make([]*core.Candidate, 0, size)
	for _, l := range lists {
		for _, c := range l {
			if c == nil || c.Item == nil {
				continue
			}
			pos, ok := seen[c.Item.ID]
			if !ok {
				seen[c.Item.ID] = len(out)
				out = append(out, c)
				continue
			}

			old := out[pos]
			if wins(c, old) {
				for k, v := range old.Labels {
					c.PutLabel(k, v)
				}
				out[pos] = c
				continue
			}
			for k, v := range c.Labels {
				old.PutLabel(k, v)
			}
		}
	}
	return out
}

// wins 判断 c 是否应替换已存在的 old
func wins(c, old *core.Candidate) bool {
	if c.Score != old.Score {
		return c.Score > old.Score
	}
	return c.Source.Precedence() < old.Source.Precedence()
}
