package score

import (
	"context"
	"sort"
)

// fakeRatings 是测试用的内存 RatingStore。
type fakeRatings struct {
	histories map[int64]map[int64]float64
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
	seen := make(map[int64]bool)
	var items []int64
	for _, h := range f.histories {
		for itemID := range h {
			if !seen[itemID] {
				seen[itemID] = true
				items = append(items, itemID)
			}
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items, nil
}

func (f *fakeRatings) StreamUserHistories(ctx context.Context, fn func(userID int64, history map[int64]float64) error) error {
	users := make([]int64, 0, len(f.histories))
	for userID := range f.histories {
		users = append(users, userID)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	for _, userID := range users {
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
