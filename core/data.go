package core

import "context"

// RatingStore 是评分数据的领域接口，为模型构建与打分提供评分快照。
//
// 约定：
//   - 缺数据不是错误：未知用户返回空 map，无人评分的物品返回空列表
//   - 同一 (user, item) 的多条评分事件在数据层收敛为最新一条，
//     调用方拿到的历史里每个物品只有一个评分
//   - 访问失败（IO、后端不可用）原样返回 error，调用方不重试不吞错
type RatingStore interface {
	// RatingHistory 返回用户的评分历史：map[itemID]rating
	RatingHistory(ctx context.Context, userID int64) (map[int64]float64, error)

	// UsersWhoRated 返回评过该物品的全部用户
	UsersWhoRated(ctx context.Context, itemID int64) ([]int64, error)

	// AllItems 返回全部物品 ID
	AllItems(ctx context.Context) ([]int64, error)

	// StreamUserHistories 对全部用户的评分历史做一次性遍历。
	// fn 返回非 nil error 时终止遍历并透传该 error；
	// 遍历结束后底层资源由实现负责释放，调用方不得留存 history 的引用。
	StreamUserHistories(ctx context.Context, fn func(userID int64, history map[int64]float64) error) error
}

// TagStore 是物品标签数据的领域接口，为 TF-IDF 模型构建提供标签快照。
//
// 约定：
//   - ItemTags 返回的是标签出现列表：同一标签在一个物品上可重复出现
//     （重复次数参与词频），无标签物品返回空列表而不是 error
type TagStore interface {
	// ItemTags 返回该物品的标签出现列表（可重复）
	ItemTags(ctx context.Context, itemID int64) ([]string, error)

	// TagVocabulary 返回全量标签词表（去重）
	TagVocabulary(ctx context.Context) ([]string, error)

	// AllItems 返回全部物品 ID
	AllItems(ctx context.Context) ([]int64, error)
}
