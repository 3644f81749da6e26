// Package dao 提供 core.RatingStore / core.TagStore 的存储适配器：
// 评分与标签快照以 JSON 存在 core.Store（内存/Redis）里，这里负责编解码。
package dao

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/venuktan/recommeder-system/core"
)

// StoreRatingAdapter 是基于 core.Store 的评分数据适配器。
//
// key 布局：
//   - 用户评分历史：{KeyPrefix}:user:{userID} -> JSON map[itemID]rating
//   - 物品评分用户：{KeyPrefix}:item:{itemID} -> JSON map[userID]rating
//   - 所有用户列表：{KeyPrefix}:users -> JSON []userID
//   - 所有物品列表：{KeyPrefix}:items -> JSON []itemID
type StoreRatingAdapter struct {
	store core.Store

	KeyPrefix string
}

// NewStoreRatingAdapter 创建一个基于 core.Store 的评分适配器。
func NewStoreRatingAdapter(s core.Store, keyPrefix string) *StoreRatingAdapter {
	if keyPrefix == "" {
		keyPrefix = "ratings"
	}
	return &StoreRatingAdapter{store: s, KeyPrefix: keyPrefix}
}

// RatingHistory 返回用户的评分历史；未知用户返回空 map，不是 error。
func (a *StoreRatingAdapter) RatingHistory(ctx context.Context, userID int64) (map[int64]float64, error) {
	key := a.KeyPrefix + ":user:" + strconv.FormatInt(userID, 10)
	return a.getRatingMap(ctx, key)
}

// UsersWhoRated 返回评过该物品的用户（升序）；无人评分返回空列表。
func (a *StoreRatingAdapter) UsersWhoRated(ctx context.Context, itemID int64) ([]int64, error) {
	key := a.KeyPrefix + ":item:" + strconv.FormatInt(itemID, 10)
	users, err := a.getRatingMap(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(users))
	for userID := range users {
		out = append(out, userID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// AllItems 返回全部物品 ID。
func (a *StoreRatingAdapter) AllItems(ctx context.Context) ([]int64, error) {
	return a.getIDList(ctx, a.KeyPrefix+":items")
}

// StreamUserHistories 逐用户遍历全部评分历史，一次性单遍。
func (a *StoreRatingAdapter) StreamUserHistories(ctx context.Context, fn func(userID int64, history map[int64]float64) error) error {
	users, err := a.getIDList(ctx, a.KeyPrefix+":users")
	if err != nil {
		return err
	}
	for _, userID := range users {
		history, err := a.RatingHistory(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(userID, history); err != nil {
			return err
		}
	}
	return nil
}

func (a *StoreRatingAdapter) getRatingMap(ctx context.Context, key string) (map[int64]float64, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return make(map[int64]float64), nil
		}
		return nil, err
	}

	// JSON 对象的 key 只能是字符串，读出后转回 int64
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	result := make(map[int64]float64, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleData, core.ErrorCodeInvalidInput, "dao: bad id key "+k)
		}
		result[id] = v
	}
	return result, nil
}

func (a *StoreRatingAdapter) getIDList(ctx context.Context, key string) ([]int64, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []int64{}, nil
		}
		return nil, err
	}

	var result []int64
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

var _ core.RatingStore = (*StoreRatingAdapter)(nil)
