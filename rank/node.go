// Package rank 提供排序阶段的 Node：用打分器给候选物品打分并按分数降序排列。
package rank

import (
	"context"
	"sort"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/pipeline"
	"github.com/venuktan/recommeder-system/pkg/utils"
	"github.com/venuktan/recommeder-system/score"
)

// ScorerNode 是排序 Node：把 score.ItemScorer 接入 Pipeline。
// - 对每个候选物品写入 item.Score 与 labels：rank_model
// - 按分数降序稳定排序
type ScorerNode struct {
	Scorer score.ItemScorer
}

func (n *ScorerNode) Name() string        { return "rank.scorer" }
func (n *ScorerNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScorerNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil || len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}

	scores, err := n.Scorer.Score(ctx, rctx.UserID, ids)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		it.Score = scores[it.ID]
		it.PutLabel("rank_model", utils.Label{Value: n.Scorer.Name(), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

var _ pipeline.Node = (*ScorerNode)(nil)
