// Package conv 提供问卷答案等弱类型值（map[string]any）的类型转换。
package conv

import (
	"strconv"

	"github.com/goccy/go-json"
)

// ToFloat64 将 any 转为 float64。
// 支持各类整数与浮点数，以及 json.Number；其他类型返回 (0, false)。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ToString 将 any 转为 string。
// string 原样返回；数字格式化为最短表示（答案里偶尔出现数字选项）；其他类型返回 ("", false)。
func ToString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}
