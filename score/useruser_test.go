package score

import (
	"context"
	"math"
	"testing"
)

const tol = 1e-9

func TestUserUserScorer_TiedNeighborsAllCount(t *testing.T) {
	// 查询用户 10 (mean 3, centered {100:+1, 101:-1})
	// 邻居 11 (mean 3, centered {100:+3, 101:-1, 200:-2})，sim = 2/√7
	// 邻居 12 (mean 3, centered {100:+1, 101:-3, 200:+2})，sim = 2/√7
	// 两个邻居相似度完全相同，预测必须把两个都算进去：
	// predict(200) = 3 + (s·(-2) + s·(+2)) / (|s|+|s|) = 3.0
	// 同分覆盖的实现会丢掉一个邻居，得到 1.0 或 5.0。
	ratings := &fakeRatings{histories: map[int64]map[int64]float64{
		10: {100: 4, 101: 2},
		11: {100: 6, 101: 2, 200: 1},
		12: {100: 4, 101: 0, 200: 5},
	}}
	scorer := NewUserUserScorer(ratings)

	scores, err := scorer.Score(context.Background(), 10, []int64{200})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got := scores[200]; math.Abs(got-3.0) > tol {
		t.Errorf("predict(200) = %v, want 3.0", got)
	}
}

func TestUserUserScorer_SingleNeighbor(t *testing.T) {
	// 查询用户 10 (mean 3, centered {1:+1, 2:-1})
	// 邻居 11 (mean 3, centered {1:+3, 2:-1, 3:-2})，sim = 2/√7 > 0
	// predict(3) = 3 + s·(-2)/|s| = 1.0
	ratings := &fakeRatings{histories: map[int64]map[int64]float64{
		10: {1: 4, 2: 2},
		11: {1: 6, 2: 2, 3: 1},
	}}
	scorer := NewUserUserScorer(ratings)

	scores, err := scorer.Score(context.Background(), 10, []int64{3})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got := scores[3]; math.Abs(got-1.0) > tol {
		t.Errorf("predict(3) = %v, want 1.0", got)
	}
}

func TestUserUserScorer_NeighborhoodSizeCap(t *testing.T) {
	// 查询用户 10 (mean 3, centered {1:+1, 2:-1})
	// 邻居 11 (mean 4, centered {1:+2, 2:-2, 3:0})，sim = 1.0，centered(3) = 0
	// 邻居 12 (mean 4, centered {1:0, 2:-2, 3:+2})，sim = 0.5，centered(3) = +2
	ratings := &fakeRatings{histories: map[int64]map[int64]float64{
		10: {1: 4, 2: 2},
		11: {1: 6, 2: 2, 3: 4},
		12: {1: 4, 2: 2, 3: 6},
	}}

	// 邻域只取相似度最高的邻居 11：predict(3) = 3 + 0/1 = 3.0
	capped := NewUserUserScorer(ratings)
	capped.NeighborhoodSize = 1
	scores, err := capped.Score(context.Background(), 10, []int64{3})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got := scores[3]; math.Abs(got-3.0) > tol {
		t.Errorf("capped predict(3) = %v, want 3.0", got)
	}

	// 全邻域：predict(3) = 3 + (1·0 + 0.5·2)/(1+0.5) = 3 + 2/3
	full := NewUserUserScorer(ratings)
	scores, err = full.Score(context.Background(), 10, []int64{3})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got, want := scores[3], 3.0+2.0/3.0; math.Abs(got-want) > tol {
		t.Errorf("full predict(3) = %v, want %v", got, want)
	}
}

func TestUserUserScorer_Fallbacks(t *testing.T) {
	ratings := &fakeRatings{histories: map[int64]map[int64]float64{
		10: {1: 4, 2: 2, 50: 5},
	}}
	scorer := NewUserUserScorer(ratings)

	scores, err := scorer.Score(context.Background(), 10, []int64{99, 50})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	// 无人评分的物品 → 用户均值
	userMean := (4.0 + 2.0 + 5.0) / 3.0
	if got := scores[99]; math.Abs(got-userMean) > tol {
		t.Errorf("predict(unrated item) = %v, want user mean %v", got, userMean)
	}

	// 只有查询用户自己评过的物品：自身被排除，邻域为空 → 用户均值
	if got := scores[50]; math.Abs(got-userMean) > tol {
		t.Errorf("predict(self-only item) = %v, want user mean %v", got, userMean)
	}
}

func TestUserUserScorer_UnknownUser(t *testing.T) {
	ratings := &fakeRatings{histories: map[int64]map[int64]float64{}}
	scorer := NewUserUserScorer(ratings)

	scores, err := scorer.Score(context.Background(), 999, []int64{1, 2})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	// 未知用户均值按 0；每个请求的物品都必须有分值
	for _, itemID := range []int64{1, 2} {
		got, ok := scores[itemID]
		if !ok {
			t.Fatalf("missing score for item %d", itemID)
		}
		if got != 0 {
			t.Errorf("predict(%d) = %v, want 0", itemID, got)
		}
	}
}
