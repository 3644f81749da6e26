package recall

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/store"
)

// fakeRatings 是测试用的内存 RatingStore。
type fakeRatings struct {
	histories map[int64]map[int64]float64
	items     []int64
}

func (f *fakeRatings) RatingHistory(_ context.Context, userID int64) (map[int64]float64, error) {
	h := f.histories[userID]
	out := make(map[int64]float64, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRatings) UsersWhoRated(_ context.Context, itemID int64) ([]int64, error) {
	var users []int64
	for userID, h := range f.histories {
		if _, ok := h[itemID]; ok {
			users = append(users, userID)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users, nil
}

func (f *fakeRatings) AllItems(_ context.Context) ([]int64, error) {
	return f.items, nil
}

func (f *fakeRatings) StreamUserHistories(ctx context.Context, fn func(userID int64, history map[int64]float64) error) error {
	for userID := range f.histories {
		h, err := f.RatingHistory(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(userID, h); err != nil {
			return err
		}
	}
	return nil
}

// fakeSource 是测试用的静态召回源。
type fakeSource struct {
	name  string
	ids   []int64
	err   error
	delay time.Duration
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, core.NewItem(id))
	}
	return out, nil
}

func TestCandidates_ExcludesRated(t *testing.T) {
	ratings := &fakeRatings{
		histories: map[int64]map[int64]float64{1: {10: 5.0, 12: 3.0}},
		items:     []int64{12, 10, 11, 13},
	}
	r := &Candidates{Ratings: ratings}
	rctx := &core.RecommendContext{UserID: 1}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	got := itemIDs(items)
	want := []int64{11, 13}
	assertIDs(t, got, want)

	for _, it := range items {
		if lbl, ok := it.Labels["recall_source"]; !ok || lbl.Value != "recall.candidates" {
			t.Errorf("item %d missing recall_source label", it.ID)
		}
	}
}

func TestCandidates_IncludeRated(t *testing.T) {
	ratings := &fakeRatings{
		histories: map[int64]map[int64]float64{1: {10: 5.0}},
		items:     []int64{11, 10},
	}
	r := &Candidates{Ratings: ratings, IncludeRated: true}
	rctx := &core.RecommendContext{UserID: 1}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	assertIDs(t, itemIDs(items), []int64{10, 11})
}

func TestCandidates_UnknownUser(t *testing.T) {
	ratings := &fakeRatings{items: []int64{2, 1}}
	r := &Candidates{Ratings: ratings}
	rctx := &core.RecommendContext{UserID: 999}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	// 未知用户 → 空历史，全量候选，升序
	assertIDs(t, itemIDs(items), []int64{1, 2})
}

func TestPopular_FromZSet(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	s.ZAdd(ctx, "popular:items", 10, "1")
	s.ZAdd(ctx, "popular:items", 30, "3")
	s.ZAdd(ctx, "popular:items", 20, "2")

	r := &Popular{Store: s, Key: "popular:items", TopN: 2}
	items, err := r.Recall(ctx, nil)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	assertIDs(t, itemIDs(items), []int64{3, 2})
}

func TestPopular_Fallback(t *testing.T) {
	r := &Popular{IDs: []int64{7, 8}}
	items, err := r.Recall(context.Background(), nil)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	assertIDs(t, itemIDs(items), []int64{7, 8})
}

func TestFanout_MergeAndDedup(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&fakeSource{name: "a", ids: []int64{1, 2}},
			&fakeSource{name: "b", ids: []int64{2, 3}},
		},
		Dedup: true,
	}

	items, err := n.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	// 按源顺序合并，重复 ID 保留先出现的
	assertIDs(t, itemIDs(items), []int64{1, 2, 3})

	for _, it := range items {
		if it.ID == 2 {
			// 重复物品的 labels 合并，保留两个来源
			lbl := it.Labels["recall_source"]
			if lbl.Value != "a|b" {
				t.Errorf("item 2 recall_source = %q, want a|b", lbl.Value)
			}
		}
	}
}

func TestFanout_NoDedup(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&fakeSource{name: "a", ids: []int64{1}},
			&fakeSource{name: "b", ids: []int64{1}},
		},
	}
	items, err := n.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2 (duplicates kept)", len(items))
	}
}

func TestFanout_SourceFailureIsIsolated(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&fakeSource{name: "bad", err: errors.New("boom")},
			&fakeSource{name: "good", ids: []int64{5}},
		},
		Dedup: true,
	}
	items, err := n.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	assertIDs(t, itemIDs(items), []int64{5})
}

func TestFanout_Timeout(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&fakeSource{name: "slow", ids: []int64{1}, delay: 200 * time.Millisecond},
			&fakeSource{name: "fast", ids: []int64{2}},
		},
		Dedup:   true,
		Timeout: 20 * time.Millisecond,
	}
	items, err := n.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	assertIDs(t, itemIDs(items), []int64{2})
}

func itemIDs(items []*core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it.ID)
		}
	}
	return out
}

func assertIDs(t *testing.T, got, want []int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
