package queue

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scout/internal/adapters/config"
)

// NodeID is the unique identifier for the scan queue Graft node.
const NodeID graft.ID = "engine.queue"

func init() {
	graft.Register(graft.Node[*Queue]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (*Queue, error) {
			cfg, err := graft.Dep[config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.QueueConcurrency, cfg.TaskTimeout, RunJob), nil
		},
	})
}
