// Package builders 注册内置 Node 的配置构建器。
// import _ 本包即可启用配置驱动的 Pipeline 构建。
package builders

import (
	"fmt"
	"time"

	"github.com/venuktan/recommeder-system/config"
	"github.com/venuktan/recommeder-system/filter"
	"github.com/venuktan/recommeder-system/pipeline"
	"github.com/venuktan/recommeder-system/pkg/conv"
	"github.com/venuktan/recommeder-system/recall"
	"github.com/venuktan/recommeder-system/rerank"
)

func init() {
	config.Register("recall.popular", BuildPopularNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("recall.candidates", BuildCandidatesNode)
	config.Register("rank.scorer", BuildScorerNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("filter", BuildFilterNode)
}

func BuildPopularNode(cfg map[string]interface{}) (pipeline.Node, error) {
	ids := conv.SliceAnyToInt64(cfg["ids"])
	if ids == nil {
		ids = []int64{}
	}
	node := &recall.Popular{
		Key: conv.ConfigGet(cfg, "key", ""),
		IDs: ids,
	}
	if n := conv.ConfigGetInt64(cfg, "topn", 0); n > 0 {
		node.TopN = int(n)
	}
	return node, nil
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "popular":
			ids := conv.SliceAnyToInt64(sourceMap["ids"])
			if ids == nil {
				ids = []int64{}
			}
			src := &recall.Popular{
				Key: conv.ConfigGet(sourceMap, "key", ""),
				IDs: ids,
			}
			if n := conv.ConfigGetInt64(sourceMap, "topn", 0); n > 0 {
				src.TopN = int(n)
			}
			sources = append(sources, src)
		case "candidates":
			// candidates 需 RatingStore，暂未从配置构建
			return nil, fmt.Errorf("candidates source requires a rating store, build it in code")
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func BuildCandidatesNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("recall.candidates requires a rating store, register a custom builder or build it in code")
}

func BuildScorerNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("rank.scorer requires a scorer instance (model + rating store), register a custom builder or build it in code")
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	return &rerank.TopNNode{N: int(n)}, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "dsl":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("dsl filter: expr not found")
			}
			f, err := filter.NewDSLFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("dsl filter: %w", err)
			}
			filters = append(filters, f)
		case "rated":
			return nil, fmt.Errorf("rated filter requires a rating store, build it in code")
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}
