package filter

import (
	"context"

	"github.com/venuktan/recommeder-system/core"
)

// RatedFilter 过滤用户已评分的物品（"我已经看过的不要再推"）。
type RatedFilter struct {
	ratings core.RatingStore
}

func NewRatedFilter(ratings core.RatingStore) *RatedFilter {
	return &RatedFilter{ratings: ratings}
}

func (f *RatedFilter) Name() string { return "filter.rated" }

func (f *RatedFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.ratings == nil || rctx == nil || item == nil {
		return false, nil
	}
	history, err := f.ratings.RatingHistory(ctx, rctx.UserID)
	if err != nil {
		return false, err
	}
	_, rated := history[item.ID]
	return rated, nil
}

var _ Filter = (*RatedFilter)(nil)
