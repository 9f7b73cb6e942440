package pathcheck

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scout/internal/adapters/config"
	"go.trai.ch/scout/internal/core/ports"
)

// NodeID is the unique identifier for the path validator Graft node.
const NodeID graft.ID = "adapter.path_validator"

func init() {
	graft.Register(graft.Node[ports.PathValidator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.PathValidator, error) {
			cfg, err := graft.Dep[config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.ValidatorCacheSize), nil
		},
	})
}
