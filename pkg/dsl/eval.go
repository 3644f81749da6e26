// Package dsl 提供基于 CEL (Common Expression Language) 的条件表达式求值，
// 用于配置驱动的过滤规则（例如按 label 或分数过滤候选）。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/venuktan/recommeder-system/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Expr 是编译后的条件表达式，可对多个 (item, rctx) 重复求值。
//
// 表达式语法（CEL 标准语法）：
//   - label.recall_source == "popular"
//   - item.score > 0.7
//   - label.rank_model == "cf.useruser" && item.score >= 3.5
//
// 注意：CEL 访问不存在的 key 会报错，存在性检查用 label.key != null。
type Expr struct {
	prg cel.Program
}

// Compile 编译表达式。编译一次，求值多次。
func Compile(expr string) (*Expr, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Expr{prg: prg}, nil
}

// EvalBool 对单个 item 求值，表达式必须返回布尔。
func (e *Expr) EvalBool(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := e.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any)
	labelAccessor := make(map[string]any)
	if item != nil {
		for k, v := range item.Labels {
			labels[k] = map[string]any{"value": v.Value, "source": v.Source}
			// label.recall_source 直接访问 value，兼容简写
			labelAccessor[k] = v.Value
		}
	}

	itemInput := map[string]any{}
	if item != nil {
		itemInput = map[string]any{
			"id":     item.ID,
			"score":  item.Score,
			"meta":   item.Meta,
			"labels": labels,
		}
	}

	rctxInput := map[string]any{}
	if rctx != nil {
		rctxInput = map[string]any{
			"user_id": rctx.UserID,
			"scene":   rctx.Scene,
			"params":  rctx.Params,
		}
	}

	return map[string]any{
		"item":  itemInput,
		"label": labelAccessor,
		"rctx":  rctxInput,
	}
}
