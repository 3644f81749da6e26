// Package recsys 是一个推荐系统核心库：内容推荐与协同过滤。
//
// 设计要点：
// - 三种打分器共用一套契约：ContentScorer（TF-IDF 内容打分）、
//   ItemItemScorer（物品-物品协同过滤，离线模型）、UserUserScorer（用户-用户协同过滤，在线检索）
// - 模型构建与打分分离：ModelBuilder 离线构建，Scorer 在线只读
// - Pipeline-first: 推荐链路通过 Node 串联（Recall → Filter → Rank → ReRank）
// - 数据面可插拔：core.RatingStore / core.TagStore 接口 + dao 存储适配器（内存/Redis）
package recsys

import "github.com/venuktan/recommeder-system/pipeline"

// 轻量 facade：便于用户直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
