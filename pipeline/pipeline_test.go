package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/venuktan/recommeder-system/core"
)

// appendNode 往 items 后追加一个固定 ID 的物品。
type appendNode struct {
	id  int64
	err error
}

func (n *appendNode) Name() string { return "test.append" }
func (n *appendNode) Kind() Kind   { return KindRecall }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.id)), nil
}

func TestPipeline_Run(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{id: 1},
		&appendNode{id: 2},
	}}

	items, err := p.Run(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 || items[1].ID != 2 {
		t.Errorf("Run() = %v, want items [1 2]", items)
	}
}

func TestPipeline_RunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&appendNode{id: 1},
		&appendNode{err: boom},
		&appendNode{id: 3},
	}}

	items, err := p.Run(context.Background(), nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if items != nil {
		t.Errorf("Run() items = %v, want nil on error", items)
	}
}
