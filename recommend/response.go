package recommend

import "github.com/rushteam/scentkit/core"

// ResponseType 是推荐结果的类型标记，由 HTTP 层原样返回给客户端。
type ResponseType string

const (
	TypeHybrid       ResponseType = "hybrid"
	TypeContentBased ResponseType = "content-based"
	TypePersonalized ResponseType = "personalized"
	TypeSimilar      ResponseType = "similar"
)

// Classify 根据本页的来源分布给出类型：只有内容相似时为 content-based，否则为 hybrid。
func Classify(page *core.RankedPage) ResponseType {
	if page == nil || len(page.Sources) == 0 {
		return TypeHybrid
	}
	for src, n := range page.Sources {
		if src != core.SourceContent && n > 0 {
			return TypeHybrid
		}
	}
	return TypeContentBased
}
