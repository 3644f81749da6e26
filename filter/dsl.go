package filter

import (
	"context"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/pkg/dsl"
)

// DSLFilter 按 CEL 表达式过滤：表达式为 true 的物品被移除。
// 例如 `item.score < 2.0` 或 `label.recall_source == "popular"`。
type DSLFilter struct {
	expr *dsl.Expr
	raw  string
}

// NewDSLFilter 编译表达式并创建过滤器；表达式编译一次，逐 item 求值。
func NewDSLFilter(expr string) (*DSLFilter, error) {
	compiled, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &DSLFilter{expr: compiled, raw: expr}, nil
}

func (f *DSLFilter) Name() string { return "filter.dsl" }

func (f *DSLFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	return f.expr.EvalBool(item, rctx)
}

var _ Filter = (*DSLFilter)(nil)
