package app

import (
	"go.trai.ch/scout/internal/adapters/config"
	"go.trai.ch/scout/internal/adapters/telemetry"
	"go.trai.ch/scout/internal/core/ports"
)

// Components bundles everything the CLI layer needs from the wiring graph.
type Components struct {
	Orchestrator *Orchestrator
	Logger       ports.Logger
	Telemetry    *telemetry.Recorder
	Config       config.Config
}
