// Package accum 提供有界 Top-N 累加器，用于邻居排序与截断。
//
// 关键契约：同分条目互不覆盖。用"分数 -> 值"的单值映射做 TopN 会在同分时
// 静默丢邻居，这里以 (ID, Score) 对为单位入堆，同分条目全部保留。
package accum

import (
	"container/heap"
	"sort"
)

// ScoredID 是一条带分数的候选（邻居物品/邻居用户）。
type ScoredID struct {
	ID    int64
	Score float64
}

// TopN 保留分数最高的 N 条 (ID, Score)。
// 排序契约：分数降序，同分按 ID 升序（保证重建结果确定）。
type TopN struct {
	limit int
	h     scoredHeap
}

// NewTopN 创建容量为 limit 的累加器；limit <= 0 表示不设上限。
func NewTopN(limit int) *TopN {
	return &TopN{limit: limit}
}

// Put 放入一条候选。超过容量时挤掉当前最差的一条
// （最差 = 分数最低，同分中 ID 最大）。
func (t *TopN) Put(id int64, score float64) {
	e := ScoredID{ID: id, Score: score}
	if t.limit <= 0 || t.h.Len() < t.limit {
		heap.Push(&t.h, e)
		return
	}
	if worse(t.h[0], e) {
		t.h[0] = e
		heap.Fix(&t.h, 0)
	}
}

// Len 返回当前保留的条数。
func (t *TopN) Len() int { return t.h.Len() }

// Finish 取出结果：分数降序，同分按 ID 升序。累加器随后不可复用。
func (t *TopN) Finish() []ScoredID {
	out := make([]ScoredID, len(t.h))
	copy(out, t.h)
	t.h = nil
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// worse 判断 a 是否比 b 更差（更该被挤掉）。
func worse(a, b ScoredID) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.ID > b.ID
}

// scoredHeap 是以"最差在堆顶"为序的最小堆。
type scoredHeap []ScoredID

func (h scoredHeap) Len() int           { return len(h) }
func (h scoredHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h scoredHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *scoredHeap) Push(x any)        { *h = append(*h, x.(ScoredID)) }
func (h *scoredHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
