package rerank

import (
	"context"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/pipeline"
)

// PageNode 是分页节点，通常在排序节点之后使用，截取请求页的候选。
// 分页参数不合法时做钳制，不报错：
//   - page < 1 按 1 处理
//   - per_page 钳制到 [1, MaxPerPage]，0 和负数都按 1 处理
//
// 未指定 per_page 时的默认值由调用方（HTTP 层、问卷服务）填入，这里不再区分。
//
// 分页前的候选总数写回 rctx.Total，钳制后的参数写回 rctx.Page / rctx.PerPage。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.Fanout{...},
//	        &rank.WeightSort{},
//	        &rerank.PageNode{MaxPerPage: 20},
//	    },
//	}
type PageNode struct {
	MaxPerPage int
}

func (n *PageNode) Name() string {
	return "rerank.page"
}

func (n *PageNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *PageNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	page, perPage := Clamp(rctx.Page, rctx.PerPage, n.MaxPerPage)
	rctx.Page, rctx.PerPage = page, perPage
	rctx.Total = len(cands)

	start, end := Bounds(len(cands), page, perPage)
	return cands[start:end], nil
}

// Clamp 钳制分页参数，maxPerPage <= 0 时按 20 处理。
func Clamp(page, perPage, maxPerPage int) (int, int) {
	if maxPerPage <= 0 {
		maxPerPage = 20
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// Bounds 返回第 page 页在长度为 total 的列表中的 [start, end)，越界时返回空区间。
func Bounds(total, page, perPage int) (start, end int) {
	if page < 1 || perPage < 1 {
		return 0, 0
	}
	if page-1 > total/perPage {
		return total, total
	}
	start = (page - 1) * perPage
	if start >= total {
		return total, total
	}
	end = start + perPage
	if end > total {
		end = total
	}
	return start, end
}
