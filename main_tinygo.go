//go:build tinygo

package main

import (
	"context"
	"errors"

	"inkdash/app"
	"inkdash/dash/ui"
	"inkdash/hal"
	"inkdash/internal/config"
)

func main() {
	h := hal.New()
	err := app.Run(context.Background(), h, config.Default())
	if errors.Is(err, ui.ErrReboot) {
		h.Reset()
	}
	if err != nil {
		h.Logger().WriteLineString("inkdash: " + err.Error())
	}
	// The last frame stays on the glass.
	select {}
}
