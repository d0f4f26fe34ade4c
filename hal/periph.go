//go:build !tinygo

package hal

import (
	"fmt"

	"inkdash/internal/config"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// initPeriph wires the dashboard to a Linux board: SSD1680 panel on SPI,
// SCD4x and BMx280 on one I2C bus, buttons on GPIO. Only the panel is
// required; missing sensors are logged and left nil.
func (h *Host) initPeriph(cfg config.PeriphConfig) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph: host init: %w", err)
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return fmt.Errorf("periph: open SPI %q: %w", cfg.SPIPort, err)
	}
	h.closers = append(h.closers, port.Close)
	conn, err := port.Connect(physic.Frequency(cfg.SPIHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		return fmt.Errorf("periph: SPI connect: %w", err)
	}
	dc, err := periphOutPin(cfg.DC)
	if err != nil {
		return err
	}
	rst, err := periphOutPin(cfg.Reset)
	if err != nil {
		return err
	}
	busy, err := periphInPin(cfg.Busy)
	if err != nil {
		return err
	}
	panel := newSSD1680(conn, dc, rst, busy, PanelWidth, PanelHeight)
	if err := panel.Init(); err != nil {
		return fmt.Errorf("periph: panel init: %w", err)
	}
	h.panel = panel

	h.buttons = hostButtons{
		a: h.periphButton(cfg.ButtonA),
		b: h.periphButton(cfg.ButtonB),
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		h.logf("periph: open I2C %q: %v (no sensors)", cfg.I2CBus, err)
		return nil
	}
	h.closers = append(h.closers, bus.Close)

	co2 := newSCD4x(bus)
	if err := co2.Init(); err != nil {
		h.logf("periph: scd4x: %v", err)
	} else {
		h.co2 = co2
	}

	baro, err := bmxx80.NewI2C(bus, cfg.BaroAddr, &bmxx80.DefaultOpts)
	if err != nil {
		h.logf("periph: bmxx80 at 0x%02x: %v", cfg.BaroAddr, err)
	} else {
		h.baro = periphBaro{dev: baro}
		h.closers = append(h.closers, baro.Halt)
	}
	return nil
}

func (h *Host) logf(format string, args ...any) {
	h.logger.WriteLineString(fmt.Sprintf(format, args...))
}

func (h *Host) periphButton(name string) GPIOPin {
	if name == "" {
		return nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		h.logf("periph: button pin %q not found", name)
		return nil
	}
	return &periphPin{p: p}
}

type periphBaro struct {
	dev *bmxx80.Dev
}

func (b periphBaro) Read() (PressureReading, error) {
	var e physic.Env
	if err := b.dev.Sense(&e); err != nil {
		return PressureReading{}, fmt.Errorf("bmxx80: sense: %w", err)
	}
	return PressureReading{
		Pressure:    float32(float64(e.Pressure) / float64(physic.Pascal)),
		Temperature: float32(e.Temperature.Celsius()),
	}, nil
}

// periphPin adapts a periph GPIO to GPIOPin.
type periphPin struct {
	p gpio.PinIO
}

func (p *periphPin) Name() string { return p.p.Name() }

func (p *periphPin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *periphPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode == GPIOModeOutput {
		return p.p.Out(gpio.Low)
	}
	pp := gpio.Float
	switch pull {
	case GPIOPullUp:
		pp = gpio.PullUp
	case GPIOPullDown:
		pp = gpio.PullDown
	}
	return p.p.In(pp, gpio.NoEdge)
}

func (p *periphPin) Read() (bool, error)    { return p.p.Read() == gpio.High, nil }
func (p *periphPin) Write(level bool) error { return p.p.Out(gpio.Level(level)) }

// Set and Get let the panel driver use the pin directly.
func (p *periphPin) Set(high bool) { _ = p.p.Out(gpio.Level(high)) }
func (p *periphPin) Get() bool     { return p.p.Read() == gpio.High }

func periphOutPin(name string) (*periphPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("periph: pin %q not found", name)
	}
	if err := p.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("periph: pin %s: %w", name, err)
	}
	return &periphPin{p: p}, nil
}

func periphInPin(name string) (*periphPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("periph: pin %q not found", name)
	}
	if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("periph: pin %s: %w", name, err)
	}
	return &periphPin{p: p}, nil
}
