package core

import "github.com/rushteam/scentkit/pkg/utils"

// RecommendContext 承载一次请求的用户/查询/分页信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string
	Title  string // 可选：按标题做内容相似召回

	Page    int
	PerPage int

	// Total 由分页节点写回：分页前的候选总数
	Total int

	// Labels 是请求级标签，例如 title 是否命中
	Labels map[string]utils.Label
}

// NewRecommendContext 从请求构建上下文。
func NewRecommendContext(req RankRequest) *RecommendContext {
	return &RecommendContext{
		UserID:  req.UserID,
		Title:   req.Title,
		Page:    req.Page,
		PerPage: req.PerPage,
		Labels:  make(map[string]utils.Label),
	}
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
