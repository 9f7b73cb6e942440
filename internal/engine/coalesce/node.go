package coalesce

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scout/internal/adapters/config"
)

// NodeID is the unique identifier for the coalescer Graft node.
const NodeID graft.ID = "engine.coalescer"

func init() {
	graft.Register(graft.Node[*Coalescer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (*Coalescer, error) {
			cfg, err := graft.Dep[config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.CoalescerMaxAge, cfg.CoalescerSweepInterval), nil
		},
	})
}
