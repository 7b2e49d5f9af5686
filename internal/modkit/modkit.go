// Package modkit wires API modules from shared deps and functional options
package modkit

import (
	"sylwalk/internal/modkit/module"
	"sylwalk/internal/modkit/repokit"
	"sylwalk/internal/platform/config"
	"sylwalk/internal/platform/logger"
)

// Module is what the API mounts, see module.Module
type Module = module.Module

// Deps are the process wide dependencies handed to every module
// PG and Lite are nil unless the matching store is enabled
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	PG   repokit.TxRunner
	Lite repokit.TxRunner
}
