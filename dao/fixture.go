package dao

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/venuktan/recommeder-system/core"
)

// Rating 是一条评分事件（用于初始化/导入快照）。
type Rating struct {
	UserID int64   `json:"user_id"`
	ItemID int64   `json:"item_id"`
	Rating float64 `json:"rating"`
}

// SetupRatings 将评分事件写入 store，生成 StoreRatingAdapter 约定的 key 布局。
// 同一 (user, item) 出现多次时后写覆盖先写（以事件顺序为准）。
// 通常由离线导入任务调用，在线侧只读。
func SetupRatings(ctx context.Context, s core.Store, keyPrefix string, events []Rating) error {
	if keyPrefix == "" {
		keyPrefix = "ratings"
	}

	userRatings := make(map[int64]map[string]float64)
	itemRatings := make(map[int64]map[string]float64)
	for _, ev := range events {
		if userRatings[ev.UserID] == nil {
			userRatings[ev.UserID] = make(map[string]float64)
		}
		userRatings[ev.UserID][strconv.FormatInt(ev.ItemID, 10)] = ev.Rating

		if itemRatings[ev.ItemID] == nil {
			itemRatings[ev.ItemID] = make(map[string]float64)
		}
		itemRatings[ev.ItemID][strconv.FormatInt(ev.UserID, 10)] = ev.Rating
	}

	kvs := make(map[string][]byte, len(userRatings)+len(itemRatings)+2)

	users := make([]int64, 0, len(userRatings))
	for userID, ratings := range userRatings {
		users = append(users, userID)
		data, err := json.Marshal(ratings)
		if err != nil {
			return err
		}
		kvs[keyPrefix+":user:"+strconv.FormatInt(userID, 10)] = data
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	items := make([]int64, 0, len(itemRatings))
	for itemID, ratings := range itemRatings {
		items = append(items, itemID)
		data, err := json.Marshal(ratings)
		if err != nil {
			return err
		}
		kvs[keyPrefix+":item:"+strconv.FormatInt(itemID, 10)] = data
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	usersData, err := json.Marshal(users)
	if err != nil {
		return err
	}
	kvs[keyPrefix+":users"] = usersData

	itemsData, err := json.Marshal(items)
	if err != nil {
		return err
	}
	kvs[keyPrefix+":items"] = itemsData

	return s.BatchSet(ctx, kvs)
}

// SetupTags 将物品标签写入 store，生成 StoreTagAdapter 约定的 key 布局。
// 词表为所有出现过的标签去重后排序。
func SetupTags(ctx context.Context, s core.Store, keyPrefix string, itemTags map[int64][]string) error {
	if keyPrefix == "" {
		keyPrefix = "tags"
	}

	kvs := make(map[string][]byte, len(itemTags)+2)

	vocabSet := make(map[string]struct{})
	items := make([]int64, 0, len(itemTags))
	for itemID, tags := range itemTags {
		items = append(items, itemID)
		for _, tag := range tags {
			vocabSet[tag] = struct{}{}
		}
		data, err := json.Marshal(tags)
		if err != nil {
			return err
		}
		kvs[keyPrefix+":item:"+strconv.FormatInt(itemID, 10)] = data
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	vocab := make([]string, 0, len(vocabSet))
	for tag := range vocabSet {
		vocab = append(vocab, tag)
	}
	sort.Strings(vocab)

	vocabData, err := json.Marshal(vocab)
	if err != nil {
		return err
	}
	kvs[keyPrefix+":vocab"] = vocabData

	itemsData, err := json.Marshal(items)
	if err != nil {
		return err
	}
	kvs[keyPrefix+":items"] = itemsData

	return s.BatchSet(ctx, kvs)
}
