package builders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/venuktan/recommeder-system/config"
	"github.com/venuktan/recommeder-system/core"
	"github.com/venuktan/recommeder-system/pipeline"
)

const yamlConfig = `
pipeline:
  name: popular_topn
  nodes:
    - type: recall.popular
      config:
        ids: [3, 1, 2]
    - type: filter
      config:
        filters:
          - type: dsl
            expr: 'item.id == 2'
    - type: rerank.topn
      config:
        n: 1
`

func TestConfigDrivenPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(yamlConfig), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig() error = %v", err)
	}

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}

	items, err := p.Run(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// 召回 [3 1 2] → 过滤掉 2 → 截断到 1 个
	if len(items) != 1 || items[0].ID != 3 {
		t.Errorf("Run() = %v, want single item 3", items)
	}
}

func TestValidatePipelineConfig_Unknown(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "nope"}}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Errorf("ValidatePipelineConfig should reject unknown node type")
	}
}

func TestBuildFanoutNode(t *testing.T) {
	node, err := BuildFanoutNode(map[string]interface{}{
		"dedup":   true,
		"timeout": 1,
		"sources": []interface{}{
			map[string]interface{}{"type": "popular", "ids": []interface{}{1, 2}},
			map[string]interface{}{"type": "popular", "ids": []interface{}{2, 3}},
		},
	})
	if err != nil {
		t.Fatalf("BuildFanoutNode() error = %v", err)
	}

	items, err := node.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	want := []int64{1, 2, 3}
	if len(items) != len(want) {
		t.Fatalf("items = %d, want %d", len(items), len(want))
	}
	for i, w := range want {
		if items[i].ID != w {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, w)
		}
	}
}

func TestBuildFilterNode_BadExpr(t *testing.T) {
	_, err := BuildFilterNode(map[string]interface{}{
		"filters": []interface{}{
			map[string]interface{}{"type": "dsl", "expr": "item.score >"},
		},
	})
	if err == nil {
		t.Errorf("BuildFilterNode should fail on invalid expression")
	}
}

func TestBuildScorerNode_NeedsCode(t *testing.T) {
	if _, err := BuildScorerNode(nil); err == nil {
		t.Errorf("BuildScorerNode should return an explanatory error")
	}
}
