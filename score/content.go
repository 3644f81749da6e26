// Package score 实现三种打分器：内容（TF-IDF）、物品协同过滤、用户协同过滤。
//
// 统一契约：Score 对请求的每个物品都产出一个分值（绝不缺项）；
// 缺数据走各自的兜底数值而不是 error；打分器不在两次调用之间保留可变状态，
// 同一打分器可被多个请求并发使用。
package score

import (
	"context"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/model"
	"github.com/venuktan/recommeder-system/pkg/sparse"
)

// ItemScorer 是打分器的统一抽象：对一个用户给一批候选物品打分。
type ItemScorer interface {
	Name() string
	Score(ctx context.Context, userID int64, items []int64) (map[int64]float64, error)
}

// ContentScorer 是基于内容（TF-IDF）的打分器。
//
// score(u, i) = mean(u) + cos(u, i)
//
// 用户画像直接取其评分向量作为权重，与模型里的物品标签向量做余弦；
// mean(u) 把分值偏向该用户的平均喜好水平。
type ContentScorer struct {
	ratings core.RatingStore
	model   *model.TFIDFModel
}

func NewContentScorer(ratings core.RatingStore, m *model.TFIDFModel) *ContentScorer {
	return &ContentScorer{ratings: ratings, model: m}
}

func (s *ContentScorer) Name() string { return "content.tfidf" }

// Score 对每个候选物品产出一个分值。
// 兜底：未知用户 → 空画像，均值按 0；用户向量或物品向量范数为 0 → 相似度 0，
// 分值退化为均值项。
func (s *ContentScorer) Score(ctx context.Context, userID int64, items []int64) (map[int64]float64, error) {
	history, err := s.ratings.RatingHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	userVec := sparse.FromMap(history)
	userMean, _ := userVec.Mean()

	out := make(map[int64]float64, len(items))
	for _, itemID := range items {
		sim := 0.0
		if iv, ok := s.model.ItemVector(itemID); ok {
			sim = sparse.Cosine(userVec, iv)
		}
		out[itemID] = userMean + sim
	}
	return out, nil
}

var _ ItemScorer = (*ContentScorer)(nil)
