package dao

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/venuktan/recommeder-system/core"
)

// StoreTagAdapter 是基于 core.Store 的物品标签数据适配器。
//
// key 布局：
//   - 物品标签出现列表：{KeyPrefix}:item:{itemID} -> JSON []tag（可重复）
//   - 标签词表：{KeyPrefix}:vocab -> JSON []tag（去重）
//   - 所有物品列表：{KeyPrefix}:items -> JSON []itemID
type StoreTagAdapter struct {
	store core.Store

	KeyPrefix string
}

// NewStoreTagAdapter 创建一个基于 core.Store 的标签适配器。
func NewStoreTagAdapter(s core.Store, keyPrefix string) *StoreTagAdapter {
	if keyPrefix == "" {
		keyPrefix = "tags"
	}
	return &StoreTagAdapter{store: s, KeyPrefix: keyPrefix}
}

// ItemTags 返回物品的标签出现列表；无标签物品返回空列表，不是 error。
func (a *StoreTagAdapter) ItemTags(ctx context.Context, itemID int64) ([]string, error) {
	key := a.KeyPrefix + ":item:" + strconv.FormatInt(itemID, 10)
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var result []string
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TagVocabulary 返回全量标签词表。
func (a *StoreTagAdapter) TagVocabulary(ctx context.Context) ([]string, error) {
	data, err := a.store.Get(ctx, a.KeyPrefix+":vocab")
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var result []string
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AllItems 返回全部物品 ID。
func (a *StoreTagAdapter) AllItems(ctx context.Context) ([]int64, error) {
	data, err := a.store.Get(ctx, a.KeyPrefix+":items")
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

var _ core.TagStore = (*StoreTagAdapter)(nil)
