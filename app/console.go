package app

import (
	"context"
	"fmt"

	"inkdash/dash/gfx"
	"inkdash/dash/ui"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

var consoleFont = &proggy.TinySZ8pt7b

// console is a text terminal covering the whole panel. It owns the panel
// before the dashboard starts (boot banner) and after a task panicked.
type console struct {
	canvas *gfx.Canvas
	panel  ui.Panel
	screen *gfx.Console
	term   *tinyterm.Terminal
}

func newConsole(canvas *gfx.Canvas, panel ui.Panel) *console {
	w, h := canvas.Size()
	c := &console{
		canvas: canvas,
		panel:  panel,
		screen: gfx.NewConsole(w, h),
	}
	// tinyterm draws light on dark.
	c.screen.Inverse = true
	c.term = tinyterm.NewTerminal(c.screen)
	c.term.Configure(&tinyterm.Config{
		Font:       consoleFont,
		FontHeight: 10,
		FontOffset: 6,
	})
	return c
}

func (c *console) Println(s string) {
	fmt.Fprint(c.term, "\n"+s)
}

func (c *console) Printf(format string, args ...any) {
	c.Println(fmt.Sprintf(format, args...))
}

// Flush copies the terminal onto the canvas and commits it with a full
// refresh. tinyterm has already drawn into screen on every write.
func (c *console) Flush(ctx context.Context) error {
	c.canvas.Clear()
	c.screen.DrawTo(c.canvas)
	return c.panel.Update(ctx, c.canvas.Buffer(), false)
}
