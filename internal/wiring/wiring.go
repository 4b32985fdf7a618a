// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mast/internal/adapters/config"
	_ "go.trai.ch/mast/internal/adapters/fs"
	_ "go.trai.ch/mast/internal/adapters/logger"
	_ "go.trai.ch/mast/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/mast/internal/app"
)
