package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/scout/internal/adapters/logger"
	"go.trai.ch/scout/internal/core/ports"
)

const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[Config]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Config, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return Config{}, err
			}

			loader := NewLoader(NewOSFS(), log)
			if path := PathOverride(os.Args[1:]); path != "" {
				return loader.LoadFile(path)
			}

			cwd, err := os.Getwd()
			if err != nil {
				return Config{}, err
			}
			return loader.Load(cwd)
		},
	})
}
