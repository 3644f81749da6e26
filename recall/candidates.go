package recall

import (
	"context"
	"sort"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/pipeline"
	"github.com/venuktan/recommeder-system/pkg/utils"
)

// Candidates 是候选全集召回源：取出全部物品，默认剔除用户已评分的。
// 打分器负责给每个候选产出分值，所以召回阶段只做集合构造。
// Candidates 同时实现 Source 和 Node 接口，可直接在 Pipeline 中使用。
type Candidates struct {
	Ratings core.RatingStore

	// IncludeRated 为 true 时保留用户已评分的物品（例如离线评测要给已评分物品打分）
	IncludeRated bool
}

func (r *Candidates) Name() string        { return "recall.candidates" }
func (r *Candidates) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Candidates) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Candidates) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Ratings == nil || rctx == nil {
		return nil, nil
	}

	items, err := r.Ratings.AllItems(ctx)
	if err != nil {
		return nil, err
	}

	var rated map[int64]float64
	if !r.IncludeRated {
		rated, err = r.Ratings.RatingHistory(ctx, rctx.UserID)
		if err != nil {
			return nil, err
		}
	}

	ids := make([]int64, 0, len(items))
	for _, id := range items {
		if _, ok := rated[id]; ok {
			continue
		}
		ids = append(ids, id)
	}
	// 升序输出，候选集与数据层遍历顺序无关
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*Candidates)(nil)
var _ pipeline.Node = (*Candidates)(nil)
