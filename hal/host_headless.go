//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	// FrameDir, if set, receives a BMP of the glass after every refresh.
	FrameDir string
}

// RunHeadless runs the dashboard without a window until run returns.
func RunHeadless(ctx context.Context, h *Host, cfg HeadlessConfig, run func(ctx context.Context) error) error {
	if cfg.FrameDir != "" && h.sim != nil {
		if err := os.MkdirAll(cfg.FrameDir, 0o755); err != nil {
			return fmt.Errorf("headless: frame dir: %w", err)
		}
		h.sim.OnFrame(func(f PanelFrame) {
			if err := writeFrame(cfg.FrameDir, f); err != nil {
				h.logger.WriteLineString("headless: " + err.Error())
			}
		})
		defer h.sim.OnFrame(nil)
	}
	return run(ctx)
}

func writeFrame(dir string, f PanelFrame) error {
	name := filepath.Join(dir, fmt.Sprintf("frame-%05d-%s.bmp", f.Seq, f.Mode))
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := bmp.Encode(out, f.Image); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return out.Close()
}
