// Package rerank 提供排序之后的重排/截断 Node。
package rerank

import (
	"context"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/pipeline"
)

// TopNNode 是 Top-N 截断节点，在排序节点之后截取前 N 个物品。
type TopNNode struct {
	// N 要保留的物品数量；N <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string        { return "rerank.topn" }
func (n *TopNNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
