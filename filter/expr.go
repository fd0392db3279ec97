package filter

import (
	"context"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式过滤：表达式为 true 的物品保留，false 的移除。
//
// 示例：
//
//	f, _ := filter.NewExprFilter(`item.rating_count >= 50`)
type ExprFilter struct {
	expr *dsl.Expr
}

// NewExprFilter 编译表达式，表达式非法时返回错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	e, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{expr: e}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

// Expr 返回表达式原文。
func (f *ExprFilter) Expr() string { return f.expr.String() }

func (f *ExprFilter) ShouldFilter(_ context.Context, prefs *core.UserPreferences, item *core.Item) (bool, error) {
	keep, err := f.expr.Match(item, prefs)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
