//go:build tinygo

package app

import (
	"inkdash/dash/client/logger"
	"inkdash/dash/store"
	"inkdash/internal/config"
)

// The device has no network stack.
func feedTasks(config.Config, *store.Store, *logger.Logger) []task { return nil }
