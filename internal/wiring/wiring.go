// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/scout/internal/adapters/cache"
	_ "go.trai.ch/scout/internal/adapters/config"
	_ "go.trai.ch/scout/internal/adapters/fs"
	_ "go.trai.ch/scout/internal/adapters/logger"
	_ "go.trai.ch/scout/internal/adapters/pathcheck"
	_ "go.trai.ch/scout/internal/adapters/scan"
	_ "go.trai.ch/scout/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/scout/internal/app"
	_ "go.trai.ch/scout/internal/engine/coalesce"
	_ "go.trai.ch/scout/internal/engine/queue"
)
