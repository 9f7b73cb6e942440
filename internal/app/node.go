package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scout/internal/adapters/cache"     //nolint:depguard // Wired in app layer
	"go.trai.ch/scout/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/scout/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/scout/internal/adapters/pathcheck" //nolint:depguard // Wired in app layer
	"go.trai.ch/scout/internal/adapters/scan"      //nolint:depguard // Wired in app layer
	"go.trai.ch/scout/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/scout/internal/core/ports"
	"go.trai.ch/scout/internal/engine/coalesce"
	"go.trai.ch/scout/internal/engine/queue"
)

const (
	// OrchestratorNodeID is the unique identifier for the orchestrator Graft node.
	OrchestratorNodeID graft.ID = "app.orchestrator"
	// ComponentsNodeID is the unique identifier for the components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        OrchestratorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			pathcheck.NodeID,
			cache.NodeID,
			coalesce.NodeID,
			queue.NodeID,
			scan.NodeID,
		},
		Run: runOrchestratorNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			OrchestratorNodeID,
			telemetry.NodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runOrchestratorNode(ctx context.Context) (*Orchestrator, error) {
	cfg, err := graft.Dep[config.Config](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	validator, err := graft.Dep[ports.PathValidator](ctx)
	if err != nil {
		return nil, err
	}

	resultCache, err := graft.Dep[ports.ResultCache](ctx)
	if err != nil {
		return nil, err
	}

	coalescer, err := graft.Dep[*coalesce.Coalescer](ctx)
	if err != nil {
		return nil, err
	}

	scanQueue, err := graft.Dep[*queue.Queue](ctx)
	if err != nil {
		return nil, err
	}

	scanner, err := graft.Dep[ports.Scanner](ctx)
	if err != nil {
		return nil, err
	}

	return NewOrchestrator(validator, resultCache, coalescer, scanQueue, scanner, log, cfg.CacheTTL), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	orchestrator, err := graft.Dep[*Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[*telemetry.Recorder](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[config.Config](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		Orchestrator: orchestrator,
		Logger:       log,
		Telemetry:    recorder,
		Config:       cfg,
	}, nil
}
