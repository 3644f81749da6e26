package model

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/pkg/accum"
	"github.com/venuktan/recommeder-system/pkg/sparse"
)

// Neighbor 是物品-物品模型里的一条邻居记录。
type Neighbor struct {
	ItemID int64
	Score  float64
}

// ItemItemModel 是物品协同过滤模型：每个物品一条按相似度降序的邻居表。
//
// 不变式：
//   - 邻居表按相似度降序，同分按邻居 ID 升序
//   - 不含物品自身，不含负相似度
//   - 长度不超过 (物品总数 - 1)
//
// 模型构建后只读，可被并发读取。
type ItemItemModel struct {
	neighbors map[int64][]Neighbor
}

// Neighbors 返回物品的邻居表（只读，调用方不得修改）。
// 未知物品返回 nil。
func (m *ItemItemModel) Neighbors(itemID int64) []Neighbor {
	return m.neighbors[itemID]
}

// Items 返回模型覆盖的物品 ID（升序）。
func (m *ItemItemModel) Items() []int64 {
	items := make([]int64, 0, len(m.neighbors))
	for id := range m.neighbors {
		items = append(items, id)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items
}

// ItemItemModelBuilder 从全量用户评分历史构建 ItemItemModel。
//
// 全对相似度计算是 O(items² · 平均评分人数)，是整个系统算法开销最重的一步。
type ItemItemModelBuilder struct {
	ratings core.RatingStore

	// ModelSize 限制每个物品保留的邻居数；<= 0 表示保留全部非负邻居
	// （即上限为物品总数 - 1）。
	ModelSize int

	// Parallelism 控制全对相似度计算的并发度；<= 1 时串行。
	// 每个 goroutine 只写自己物品的邻居表，结果与调度顺序无关。
	Parallelism int
}

func NewItemItemModelBuilder(ratings core.RatingStore) *ItemItemModelBuilder {
	return &ItemItemModelBuilder{ratings: ratings}
}

// Build 构建模型。构建要么整体成功，要么返回 error 且不产出模型。
func (b *ItemItemModelBuilder) Build(ctx context.Context) (*ItemItemModel, error) {
	itemVectors, items, err := b.itemVectors(ctx)
	if err != nil {
		return nil, err
	}

	limit := b.ModelSize
	if limit <= 0 || limit > len(items)-1 {
		limit = len(items) - 1
	}

	results := make([][]Neighbor, len(items))
	var eg errgroup.Group
	if b.Parallelism > 1 {
		eg.SetLimit(b.Parallelism)
	} else {
		eg.SetLimit(1)
	}

	for idx, itemID := range items {
		idx, itemID := idx, itemID
		eg.Go(func() error {
			acc := accum.NewTopN(limit)
			vec := itemVectors[itemID]
			for _, otherID := range items {
				if otherID == itemID {
					continue
				}
				// 负相关的物品对丢弃；零范数向量的相似度约定为 0，保留
				sim := sparse.Cosine(vec, itemVectors[otherID])
				if sim >= 0 {
					acc.Put(otherID, sim)
				}
			}
			ranked := acc.Finish()
			neighbors := make([]Neighbor, len(ranked))
			for i, s := range ranked {
				neighbors[i] = Neighbor{ItemID: s.ID, Score: s.Score}
			}
			results[idx] = neighbors
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	neighbors := make(map[int64][]Neighbor, len(items))
	for idx, itemID := range items {
		neighbors[itemID] = results[idx]
	}
	return &ItemItemModel{neighbors: neighbors}, nil
}

// itemVectors 把评分矩阵转置为物品视角：对每个物品，收集各用户对它的
// 均值中心化评分，得到以用户 ID 为键的稀疏向量。
//
// 用户历史流只遍历一次（StreamUserHistories 是一次性游标）。
// 均值中心化在转置之前按用户做：先减去该用户自己的均值，去掉评分尺度偏差。
func (b *ItemItemModelBuilder) itemVectors(ctx context.Context) (map[int64]sparse.Vector, []int64, error) {
	items, err := b.ratings.AllItems(ctx)
	if err != nil {
		return nil, nil, err
	}
	items = append([]int64(nil), items...)
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	itemData := make(map[int64]*sparse.MutableVector, len(items))
	for _, item := range items {
		itemData[item] = sparse.NewMutable()
	}

	err = b.ratings.StreamUserHistories(ctx, func(userID int64, history map[int64]float64) error {
		vec := sparse.MutableFromMap(history)
		mean, ok := vec.Mean()
		if !ok {
			// 空历史用户对模型没有贡献
			return nil
		}
		vec.AddScalar(-mean)
		for _, itemID := range vec.Keys() {
			acc, ok := itemData[itemID]
			if !ok {
				// 评分指向物品全集之外的 ID，忽略
				continue
			}
			v, _ := vec.Get(itemID)
			acc.Set(userID, v)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	itemVectors := make(map[int64]sparse.Vector, len(itemData))
	for itemID, vec := range itemData {
		itemVectors[itemID] = vec.Freeze()
	}
	return itemVectors, items, nil
}
