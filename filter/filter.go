package filter

import (
	"context"

	"github.com/rushteam/scentkit/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
//
// prefs 可以为 nil（例如目录浏览时没有用户偏好）。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, prefs *core.UserPreferences, item *core.Item) (bool, error)
}

// GenderFilter 只保留 gender 与给定值相同的物品（大小写、首尾空白不敏感）。
// Gender 为空时不过滤。
type GenderFilter struct {
	Gender string
}

func (f *GenderFilter) Name() string { return "filter.gender" }

func (f *GenderFilter) ShouldFilter(_ context.Context, _ *core.UserPreferences, item *core.Item) (bool, error) {
	want := core.NormalizeName(f.Gender)
	if want == "" {
		return false, nil
	}
	return core.NormalizeName(item.Gender) != want, nil
}

// MinRatingFilter 移除 rating_value 低于 MinRating 的物品。
type MinRatingFilter struct {
	MinRating float64
}

func (f *MinRatingFilter) Name() string { return "filter.min_rating" }

func (f *MinRatingFilter) ShouldFilter(_ context.Context, _ *core.UserPreferences, item *core.Item) (bool, error) {
	return item.RatingValue < f.MinRating, nil
}

// BrandFilter 按品牌子串过滤（大小写不敏感），Brand 为空时不过滤。
type BrandFilter struct {
	Brand string
}

func (f *BrandFilter) Name() string { return "filter.brand" }

func (f *BrandFilter) ShouldFilter(_ context.Context, _ *core.UserPreferences, item *core.Item) (bool, error) {
	want := core.NormalizeName(f.Brand)
	if want == "" {
		return false, nil
	}
	return !containsFold(item.Brand, want), nil
}

// ForPreferences 根据用户偏好构建硬过滤：gender（设置时）+ min_rating。
// 偏好没有给出 min_rating 时使用 defaultMinRating。
func ForPreferences(prefs *core.UserPreferences, defaultMinRating float64) []Filter {
	rating := &MinRatingFilter{MinRating: MinRatingFor(prefs, defaultMinRating)}
	if prefs == nil {
		return []Filter{rating}
	}
	return []Filter{&GenderFilter{Gender: prefs.Gender}, rating}
}

// MinRatingFor 返回生效的评分下限：原始答案里有非空 min_rating 时以偏好为准。
// 没有原始答案的偏好（直接构造）MinRating > 0 时也以偏好为准。
func MinRatingFor(prefs *core.UserPreferences, def float64) float64 {
	if prefs == nil {
		return def
	}
	if v, ok := prefs.Raw[core.KeyMinRating]; ok && v != nil {
		return prefs.MinRating
	}
	if prefs.Raw == nil && prefs.MinRating > 0 {
		return prefs.MinRating
	}
	return def
}
