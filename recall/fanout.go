package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/pipeline"
	"github.com/venuktan/recommeder-system/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 支持超时、限流、按来源优先级去重。
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		results = make([][]*core.Item, len(n.Sources))
	)

	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		i, src := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				// 单个召回源失败/超时不拖垮整条链路，返回空结果
				return nil
			}

			for _, it := range items {
				if it == nil {
					continue
				}
				it.PutLabel("recall_source", utils.Label{Value: src.Name(), Source: "recall"})
			}

			mu.Lock()
			results[i] = items
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 按 Sources 顺序合并：相同 ID 保留先出现的（优先级 = 源的顺序），labels 合并
	var all []*core.Item
	if !n.Dedup {
		for _, items := range results {
			all = append(all, items...)
		}
		return all, nil
	}

	seen := make(map[int64]*core.Item)
	for _, items := range results {
		for _, it := range items {
			if it == nil {
				continue
			}
			if old, ok := seen[it.ID]; ok {
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID] = it
			all = append(all, it)
		}
	}
	return all, nil
}

var _ pipeline.Node = (*Fanout)(nil)
