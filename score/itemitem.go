package score

import (
	"context"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/model"
)

// ItemItemScorer 是物品协同过滤打分器：用预计算的邻居表，
// 对用户已评分的邻居做相似度加权平均。
//
// predict(u, i) = Σ sim(i,j)·rating(u,j) / Σ sim(i,j)
// （j 取 i 的邻居表里用户评过分的前 NeighborhoodSize 个；模型里的
// 相似度都是非负的，分母不取绝对值）
type ItemItemScorer struct {
	ratings core.RatingStore
	model   *model.ItemItemModel

	// NeighborhoodSize 参与加权的邻居数上限；<= 0 表示用全部命中的邻居。
	NeighborhoodSize int
}

func NewItemItemScorer(ratings core.RatingStore, m *model.ItemItemModel) *ItemItemScorer {
	return &ItemItemScorer{ratings: ratings, model: m}
}

func (s *ItemItemScorer) Name() string { return "cf.itemitem" }

// Score 对每个候选物品产出一个分值。
// 兜底：邻居表里没有用户评过分的物品、或相似度和为 0 → 0。
func (s *ItemItemScorer) Score(ctx context.Context, userID int64, items []int64) (map[int64]float64, error) {
	history, err := s.ratings.RatingHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]float64, len(items))
	for _, itemID := range items {
		var num, den float64
		matched := 0
		for _, n := range s.model.Neighbors(itemID) {
			rating, ok := history[n.ItemID]
			if !ok {
				continue
			}
			num += n.Score * rating
			den += n.Score
			matched++
			if s.NeighborhoodSize > 0 && matched >= s.NeighborhoodSize {
				break
			}
		}
		if den == 0 {
			out[itemID] = 0
			continue
		}
		out[itemID] = num / den
	}
	return out, nil
}

var _ ItemScorer = (*ItemItemScorer)(nil)
