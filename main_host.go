//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inkdash/app"
	"inkdash/dash/ui"
	"inkdash/hal"
	"inkdash/internal/config"
)

func main() {
	var (
		cfgPath  string
		headless bool
		hz       int
	)
	flag.StringVar(&cfgPath, "config", "", "Config file (default: ./inkdash.yaml or /etc/inkdash/inkdash.yaml).")
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.IntVar(&hz, "hz", 0, "Window tick rate (0 = from config).")
	flag.Parse()

	if err := run(cfgPath, headless, hz); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgPath string, headless bool, hz int) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg := loaded.Config()
	if headless {
		cfg.Headless = true
	}
	if hz > 0 {
		cfg.Hz = hz
	}
	if cfg.Backend == "periph" {
		cfg.Headless = true
	}

	h, err := hal.NewHost(cfg)
	if err != nil {
		return err
	}
	defer h.Close()

	if f := loaded.File(); f != "" {
		loaded.Watch(func(next config.Config) {
			h.Reconfigure(next)
			h.Logger().WriteLineString("config: reloaded " + f)
		}, func(err error) {
			h.Logger().WriteLineString("config: " + err.Error())
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The Reboot menu entry restarts the dashboard in-process.
	dashboard := func(ctx context.Context) error {
		for {
			err := app.Run(ctx, h, cfg)
			if !errors.Is(err, ui.ErrReboot) {
				return err
			}
		}
	}

	if cfg.Headless {
		return hal.RunHeadless(ctx, h, hal.HeadlessConfig{FrameDir: cfg.FrameDir}, dashboard)
	}
	return hal.RunWindow(ctx, h, cfg.Panel.Scale, cfg.Hz, dashboard)
}
