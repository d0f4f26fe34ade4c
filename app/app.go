// Package app wires the dashboard together: one store, the producers that
// write into it, and the UI task that turns it into e-paper frames.
package app

import (
	"context"
	"errors"
	"sync"

	"inkdash/dash/client/logger"
	"inkdash/dash/content"
	"inkdash/dash/epd"
	"inkdash/dash/gfx"
	"inkdash/dash/nvs"
	"inkdash/dash/pager"
	"inkdash/dash/render"
	logsvc "inkdash/dash/services/logger"
	"inkdash/dash/services/sensors"
	"inkdash/dash/store"
	"inkdash/dash/ui"
	"inkdash/hal"
	"inkdash/internal/buildinfo"
	"inkdash/internal/config"
	"inkdash/kernel"
)

// task is one long-running goroutine of the dashboard.
type task struct {
	name string
	run  func(ctx context.Context)
}

type system struct {
	h     hal.HAL
	cfg   config.Config
	clock *kernel.SystemClock
	log   *logger.Logger
	store *store.Store
	tasks []task
}

// Run starts the dashboard on h and blocks until ctx is done, the Reboot
// menu entry was chosen (ui.ErrReboot) or a task panicked (ErrTaskPanic).
// It fails early with hal.ErrNoPanel when there is nothing to draw on.
func Run(ctx context.Context, h hal.HAL, cfg config.Config) error {
	clock := kernel.NewSystemClock()
	logs := logsvc.New(h.Logger())
	logCtx, stopLogs := context.WithCancel(context.Background())
	logDone := make(chan struct{})
	go func() {
		logs.Run(logCtx)
		close(logDone)
	}()
	defer func() {
		stopLogs()
		<-logDone
	}()

	log := logger.New(logs.Mailbox(), clock, "app")
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))
	log.Infof("inkdash %s", buildinfo.Long())

	panel := h.Panel()
	if panel == nil {
		log.Errorf("display: %v", hal.ErrNoPanel)
		return hal.ErrNoPanel
	}

	s := &system{
		h:     h,
		cfg:   cfg,
		clock: clock,
		log:   log,
		store: store.New(clock),
	}
	return s.run(ctx, panel)
}

func (s *system) run(ctx context.Context, panel hal.Panel) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	trap := &panicTrap{cancel: cancel}

	canvas := gfx.NewCanvas(gfx.NativeWidth, gfx.NativeHeight)
	ctrl := epd.New(panel)
	defer ctrl.Close()

	con := newConsole(canvas, ctrl)
	s.boot(ctx, con)
	ctrl.ForceFull()

	uiTask := s.uiTask(canvas, ctrl)
	s.producers()
	s.tasks = append(s.tasks, feedTasks(s.cfg, s.store, s.log)...)

	var wg sync.WaitGroup
	for _, t := range s.tasks {
		t := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer trap.catch(t.name)
			t.run(ctx)
		}()
	}

	var err error
	func() {
		defer trap.catch("ui")
		err = uiTask.Run(ctx)
	}()
	cancel()
	wg.Wait()

	if info := trap.first(); info != nil {
		showPanic(s.h.Logger(), newConsole(canvas, ctrl), *info)
		return *info
	}
	if errors.Is(err, ui.ErrReboot) {
		s.log.Infof("rebooting")
	}
	return err
}

// boot shows the build and the hardware found on a console screen.
func (s *system) boot(ctx context.Context, con *console) {
	con.Printf("inkdash %s", buildinfo.Short())
	con.Println("co2:      " + present(s.h.CO2() != nil))
	con.Println("pressure: " + present(s.h.Pressure() != nil))
	con.Println("battery:  " + present(s.h.Battery() != nil))
	con.Println("buttons:  " + present(s.h.Buttons() != nil))
	con.Println("storage:  " + present(s.h.Storage() != nil))
	con.Println("starting...")
	if err := con.Flush(ctx); err != nil {
		s.log.Warnf("boot screen: %v", err)
	}
}

func present(ok bool) string {
	if ok {
		return "ok"
	}
	return "missing"
}

func (s *system) uiTask(canvas *gfx.Canvas, ctrl *epd.Controller) *ui.Task {
	fonts := render.DefaultFonts()
	mcfg := ui.Config{
		Status:        s.store,
		Metrics:       pager.NewFontMetrics(fonts.Body),
		Layout:        pager.DefaultLayout,
		Reboot:        s.h.Reset,
		HoldThreshold: s.cfg.HoldThreshold,
		Log:           s.log.With("ui"),
	}
	if co2 := s.h.CO2(); co2 != nil {
		mcfg.Calibrator = co2
	}
	if fs := s.h.Storage(); fs != nil {
		mcfg.Content = content.NewSource(fs, s.cfg.ReaderFile)
		mcfg.Pages = nvs.NewPageIndex(nvs.New(fs))
	}

	wake := kernel.NewNotifier()
	s.store.RegisterConsumer(wake)
	return &ui.Task{
		Machine: ui.NewMachine(mcfg),
		Status:  s.store,
		Canvas:  canvas,
		Render:  render.New(canvas, fonts),
		Panel:   ctrl,
		Wake:    wake,
		Clock:   s.clock,
		Wall:    s.h.Clock(),
		Log:     s.log.With("ui"),
	}
}

// producers adds one sampler per peripheral that came up.
func (s *system) producers() {
	add := func(name string, st sensors.Stepper) {
		s.tasks = append(s.tasks, task{name: name, run: func(ctx context.Context) {
			sensors.Run(ctx, st)
		}})
	}

	if dev := s.h.CO2(); dev != nil {
		c := &sensors.CO2{Sensor: dev, Env: s.store, Log: s.log.With("co2")}
		if err := c.Start(); err != nil {
			c.Log.Errorf("%v", err)
		} else {
			add("co2", c)
		}
	}
	if dev := s.h.Pressure(); dev != nil {
		add("pressure", &sensors.Pressure{Sensor: dev, Env: s.store, Log: s.log.With("baro")})
	}
	if dev := s.h.Battery(); dev != nil {
		add("battery", &sensors.Battery{Source: dev, Env: s.store, Log: s.log.With("power")})
	}
	if dev := s.h.Network(); dev != nil {
		add("link", &sensors.Link{Net: dev, Env: s.store, Log: s.log.With("net")})
	}
	if dev := s.h.Buttons(); dev != nil {
		b := &sensors.Buttons{A: dev.A(), B: dev.B(), Env: s.store, Log: s.log.With("buttons")}
		if err := b.Configure(); err != nil {
			b.Log.Errorf("%v", err)
		} else {
			add("buttons", b)
		}
	}
	s.log.Infof("producers: %d", len(s.tasks))
}
