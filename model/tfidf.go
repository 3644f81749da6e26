package model

import (
	"context"
	"math"
	"sort"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/pkg/sparse"
)

// TFIDFModel 是基于内容的物品模型：每个物品一个单位化的 TF-IDF 标签向量。
//
// 不变式：
//   - 有标签的物品，其向量欧氏范数为 1（浮点容差内）
//   - 无标签的物品，其向量为空（范数 0），消费方按相似度 0 处理
//   - 词表快照随模型固化；模型构建后只读，可被并发读取
type TFIDFModel struct {
	tagIDs      map[string]int64
	itemVectors map[int64]sparse.Vector
}

// ItemVector 返回物品的 TF-IDF 向量；物品不在模型里时返回 (零向量, false)。
func (m *TFIDFModel) ItemVector(itemID int64) (sparse.Vector, bool) {
	v, ok := m.itemVectors[itemID]
	return v, ok
}

// TagID 返回标签在本模型词表里的 ID；构建后出现的新标签没有 ID，返回 (0, false)，
// 其贡献按 0 处理。
func (m *TFIDFModel) TagID(tag string) (int64, bool) {
	id, ok := m.tagIDs[tag]
	return id, ok
}

// Items 返回模型覆盖的物品 ID（升序）。
func (m *TFIDFModel) Items() []int64 {
	items := make([]int64, 0, len(m.itemVectors))
	for id := range m.itemVectors {
		items = append(items, id)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items
}

// TagCount 返回词表大小。
func (m *TFIDFModel) TagCount() int { return len(m.tagIDs) }

// TFIDFModelBuilder 从物品-标签数据构建 TFIDFModel。
// 依赖通过构造函数显式注入；builder 的中间状态在 Build 返回后即废弃，
// 产出的模型不持有 TagStore 的引用。
type TFIDFModelBuilder struct {
	tags core.TagStore
}

func NewTFIDFModelBuilder(tags core.TagStore) *TFIDFModelBuilder {
	return &TFIDFModelBuilder{tags: tags}
}

// Build 构建模型。两阶段：先为每个物品累积 TF 向量、同步累积 DF 向量；
// 再把 DF 原地转成 log-IDF，乘回每个 TF 向量并单位化。
// 构建要么整体成功，要么返回 error 且不产出模型。
func (b *TFIDFModelBuilder) Build(ctx context.Context) (*TFIDFModel, error) {
	tagIDs, err := b.buildTagIDMap(ctx)
	if err != nil {
		return nil, err
	}

	items, err := b.tags.AllItems(ctx)
	if err != nil {
		return nil, err
	}
	// 物品按 ID 升序处理，重建结果与数据层的遍历顺序无关
	items = append([]int64(nil), items...)
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	// docFreq 累积文档频率：每个标签在多少个物品上至少出现一次
	docFreq := sparse.NewMutable()
	itemTF := make(map[int64]*sparse.MutableVector, len(items))

	for _, item := range items {
		tagList, err := b.tags.ItemTags(ctx, item)
		if err != nil {
			return nil, err
		}

		work := sparse.NewMutable()
		seen := make(map[int64]bool, len(tagList))
		for _, tag := range tagList {
			id, ok := tagIDs[tag]
			if !ok {
				// 词表快照外的标签没有 ID，跳过
				continue
			}
			// 重复出现累加词频；DF 每个物品对同一标签只记一次
			work.Add(id, 1)
			if !seen[id] {
				docFreq.Add(id, 1)
				seen[id] = true
			}
		}
		itemTF[item] = work
	}

	// DF 原地转 log-IDF：idf(tag) = ln(物品总数 / df(tag))
	totalItems := float64(len(items))
	for _, id := range docFreq.Keys() {
		df, _ := docFreq.Get(id)
		docFreq.Set(id, math.Log(totalItems/df))
	}

	// TF 乘 IDF，再单位化；无标签物品保持空向量，跳过归一避免除零
	itemVectors := make(map[int64]sparse.Vector, len(itemTF))
	for item, tf := range itemTF {
		for _, id := range tf.Keys() {
			count, _ := tf.Get(id)
			idf, _ := docFreq.Get(id)
			tf.Set(id, count*idf)
		}
		if n := tf.Norm(); n > 0 {
			tf.Scale(1 / n)
		}
		itemVectors[item] = tf.Freeze()
	}

	return &TFIDFModel{tagIDs: tagIDs, itemVectors: itemVectors}, nil
}

// buildTagIDMap 为词表分配数字 ID。ID 从 1 起、按词表字典序分配，
// 同一份数据重建得到相同的映射。
func (b *TFIDFModelBuilder) buildTagIDMap(ctx context.Context) (map[string]int64, error) {
	vocab, err := b.tags.TagVocabulary(ctx)
	if err != nil {
		return nil, err
	}
	vocab = append([]string(nil), vocab...)
	sort.Strings(vocab)

	tagIDs := make(map[string]int64, len(vocab))
	for _, tag := range vocab {
		if _, ok := tagIDs[tag]; ok {
			continue
		}
		tagIDs[tag] = int64(len(tagIDs) + 1)
	}
	return tagIDs, nil
}
