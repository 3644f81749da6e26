package score

import (
	"context"
	"math"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/pkg/accum"
	"github.com/venuktan/recommeder-system/pkg/sparse"
)

// DefaultNeighborhoodSize 是用户协同过滤的默认邻域大小。
const DefaultNeighborhoodSize = 30

// UserUserScorer 是用户协同过滤打分器：在线计算查询用户与候选物品
// 评分者之间的相似度，用加权邻域预测评分。
//
// predict(u, i) = mean(u) + Σ sim(u,v)·centered(v,i) / Σ |sim(u,v)|
// （v 取相似度最高的 NeighborhoodSize 个邻居）
//
// 邻居按原始带符号的相似度排序取 TopN，分母取绝对值——沿用原始算法的
// 字面行为，负相似度的邻居可能进入邻域。
type UserUserScorer struct {
	ratings core.RatingStore

	// NeighborhoodSize 邻域大小；<= 0 时取 DefaultNeighborhoodSize。
	NeighborhoodSize int
}

func NewUserUserScorer(ratings core.RatingStore) *UserUserScorer {
	return &UserUserScorer{ratings: ratings, NeighborhoodSize: DefaultNeighborhoodSize}
}

func (s *UserUserScorer) Name() string { return "cf.useruser" }

// Score 对每个候选物品产出一个分值。
// 兜底：无人评分的物品 / 邻域相似度和为 0 → 直接返回查询用户的均值；
// 未知用户 → 空画像，均值按 0。
func (s *UserUserScorer) Score(ctx context.Context, userID int64, items []int64) (map[int64]float64, error) {
	history, err := s.ratings.RatingHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	userVec := sparse.MutableFromMap(history)
	userMean, ok := userVec.Mean()
	if !ok {
		userMean = 0
	}
	userVec.AddScalar(-userMean)
	centered := userVec.Freeze()

	size := s.NeighborhoodSize
	if size <= 0 {
		size = DefaultNeighborhoodSize
	}

	out := make(map[int64]float64, len(items))
	for _, itemID := range items {
		raters, err := s.ratings.UsersWhoRated(ctx, itemID)
		if err != nil {
			return nil, err
		}

		// 同分邻居互不覆盖：TopN 以 (用户, 相似度) 对为单位保留
		acc := accum.NewTopN(size)
		centeredRating := make(map[int64]float64, len(raters))
		for _, rater := range raters {
			// 自身不参与邻域（与自己比相似度恒为 1）
			if rater == userID {
				continue
			}
			neighborHistory, err := s.ratings.RatingHistory(ctx, rater)
			if err != nil {
				return nil, err
			}
			neighborVec := sparse.MutableFromMap(neighborHistory)
			neighborMean, ok := neighborVec.Mean()
			if !ok {
				continue
			}
			neighborVec.AddScalar(-neighborMean)
			frozen := neighborVec.Freeze()

			rating, ok := frozen.Get(itemID)
			if !ok {
				continue
			}
			acc.Put(rater, sparse.Cosine(centered, frozen))
			centeredRating[rater] = rating
		}

		var num, den float64
		for _, n := range acc.Finish() {
			num += n.Score * centeredRating[n.ID]
			den += math.Abs(n.Score)
		}
		if den == 0 {
			// 无邻居或相似度全为 0，退回用户均值
			out[itemID] = userMean
			continue
		}
		out[itemID] = userMean + num/den
	}
	return out, nil
}

var _ ItemScorer = (*UserUserScorer)(nil)
