package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scout/internal/adapters/config"
	"go.trai.ch/scout/internal/core/ports"
)

// NodeID is the unique identifier for the result cache Graft node.
const NodeID graft.ID = "adapter.result_cache"

func init() {
	graft.Register(graft.Node[ports.ResultCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.ResultCache, error) {
			cfg, err := graft.Dep[config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg.CachePruneInterval), nil
		},
	})
}
