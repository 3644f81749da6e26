package core

import "github.com/venuktan/recommeder-system/pkg/utils"

// RecommendContext 承载本次请求的用户与场景信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64
	Scene  string

	// Labels 是用户级标签，可驱动 Pipeline 行为（例如：新用户、重度用户）
	Labels map[string]utils.Label

	// Params 请求级上下文参数（query、time_of_day、device_type 等）
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
