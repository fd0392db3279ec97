package filter

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rushteam/scentkit/core"
)

// Apply 依次用 filters 检查每个物品，任何一个过滤器返回 true，该物品就会被过滤掉。
// 保留物品的原始顺序，不修改入参切片。
//
// 过滤器出错时记录日志并视为不过滤，不中断流程。
func Apply(
	ctx context.Context,
	prefs *core.UserPreferences,
	items []*core.Item,
	filters ...Filter,
) []*core.Item {
	out := make([]*core.Item, 0, len(items))
	if len(filters) == 0 {
		for _, it := range items {
			if it != nil {
				out = append(out, it)
			}
		}
		return out
	}

	logger := zerolog.Ctx(ctx)
	for _, item := range items {
		if item == nil {
			continue
		}

		shouldFilter := false
		for _, f := range filters {
			if f == nil {
				continue
			}
			ok, err := f.ShouldFilter(ctx, prefs, item)
			if err != nil {
				logger.Warn().Err(err).
					Str("filter", f.Name()).
					Int64("item_id", item.ID).
					Msg("filter error, item kept")
				continue
			}
			if ok {
				shouldFilter = true
				break
			}
		}
		if !shouldFilter {
			out = append(out, item)
		}
	}
	return out
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}
