package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/scentkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("prefs", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Expr 是编译好的物品过滤表达式，使用 CEL (Common Expression Language)。
// 编译一次，可被多个请求并发求值。
//
// 可用变量：
//   - item: id / name / brand / gender / rating_value / rating_count / main_accords（小写） / perfumers
//   - prefs: experience_level / gender / min_rating / answers（原始问卷答案）
//
// 示例：
//   - `item.rating_count >= 100`
//   - `!("oud" in item.main_accords)`
//   - `prefs.experience_level != "Beginner" || item.rating_value >= 4.0`
type Expr struct {
	source string
	prg    cel.Program
}

// Compile 编译表达式，表达式必须返回布尔值。
func Compile(expr string) (*Expr, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	return &Expr{source: expr, prg: prg}, nil
}

// String 返回表达式原文。
func (e *Expr) String() string {
	return e.source
}

// Match 对物品求值。prefs 可以为 nil。
func (e *Expr) Match(item *core.Item, prefs *core.UserPreferences) (bool, error) {
	out, _, err := e.prg.Eval(map[string]any{
		"item":  itemInput(item),
		"prefs": prefsInput(prefs),
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// itemInput 构建 CEL 表达式的 item 输入
func itemInput(it *core.Item) map[string]any {
	accords := make([]string, 0, len(it.MainAccords))
	for _, a := range it.MainAccords {
		accords = append(accords, core.NormalizeName(a))
	}
	perfumers := it.Perfumers
	if perfumers == nil {
		perfumers = []string{}
	}
	return map[string]any{
		"id":           it.ID,
		"name":         it.Name,
		"brand":        it.Brand,
		"gender":       it.Gender,
		"rating_value": it.RatingValue,
		"rating_count": int64(it.RatingCount),
		"main_accords": accords,
		"perfumers":    perfumers,
	}
}

// prefsInput 构建 CEL 表达式的 prefs 输入；没有偏好时各字段为零值
func prefsInput(p *core.UserPreferences) map[string]any {
	if p == nil {
		return map[string]any{
			"experience_level": "",
			"gender":           "",
			"min_rating":       core.DefaultMinRating,
			"answers":          map[string]any{},
		}
	}
	answers := p.Raw
	if answers == nil {
		answers = map[string]any{}
	}
	return map[string]any{
		"experience_level": string(p.Level),
		"gender":           p.Gender,
		"min_rating":       p.MinRating,
		"answers":          answers,
	}
}
