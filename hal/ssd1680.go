package hal

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// SSD1680 commands used by the 2.9" 128x296 panel.
const (
	ssdDriverOutput  = 0x01
	ssdDataEntry     = 0x11
	ssdSoftReset     = 0x12
	ssdTempSensor    = 0x18
	ssdMasterActive  = 0x20
	ssdUpdateCtrl1   = 0x21
	ssdUpdateCtrl2   = 0x22
	ssdWriteBW       = 0x24
	ssdWriteRed      = 0x26
	ssdBorder        = 0x3C
	ssdRAMXRange     = 0x44
	ssdRAMYRange     = 0x45
	ssdRAMXCounter   = 0x4E
	ssdRAMYCounter   = 0x4F
	ssdSeqFull       = 0xF7
	ssdSeqPartial    = 0xFF
	ssdBusyPoll      = 10 * time.Millisecond
	ssdBusyTimeout   = 5 * time.Second
	ssdResetPulse    = 10 * time.Millisecond
	ssdDataEntryIncr = 0x03
)

var ErrPanelBusy = errors.New("panel busy timeout")

// spiTx is the half of a SPI bus the panel needs. machine.SPI and periph's
// spi.Conn both satisfy it.
type spiTx interface {
	Tx(w, r []byte) error
}

// outPin and inPin match machine.Pin; periph pins are adapted.
type outPin interface {
	Set(high bool)
}

type inPin interface {
	Get() bool
}

// ssd1680 drives an SSD1680 e-paper controller over 4-wire SPI. The BW RAM
// holds the current plane and the red RAM the previous one.
type ssd1680 struct {
	bus  spiTx
	dc   outPin
	rst  outPin
	busy inPin
	w, h int

	mu  sync.Mutex
	cmd [1]byte
	// sleep is swapped out by tests.
	sleep func(time.Duration)
}

func newSSD1680(bus spiTx, dc, rst outPin, busy inPin, w, h int) *ssd1680 {
	return &ssd1680{bus: bus, dc: dc, rst: rst, busy: busy, w: w, h: h, sleep: time.Sleep}
}

func (d *ssd1680) Size() (w, h int) { return d.w, d.h }

func (d *ssd1680) command(c byte, data ...byte) error {
	d.dc.Set(false)
	d.cmd[0] = c
	if err := d.bus.Tx(d.cmd[:], nil); err != nil {
		return fmt.Errorf("ssd1680: command 0x%02x: %w", c, err)
	}
	if len(data) == 0 {
		return nil
	}
	d.dc.Set(true)
	if err := d.bus.Tx(data, nil); err != nil {
		return fmt.Errorf("ssd1680: data for 0x%02x: %w", c, err)
	}
	return nil
}

func (d *ssd1680) waitIdle() error {
	deadline := time.Now().Add(ssdBusyTimeout)
	for d.busy.Get() {
		if time.Now().After(deadline) {
			return ErrPanelBusy
		}
		d.sleep(ssdBusyPoll)
	}
	return nil
}

// Init resets the controller and sets up the RAM window for the full panel.
func (d *ssd1680) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rst.Set(false)
	d.sleep(ssdResetPulse)
	d.rst.Set(true)
	d.sleep(ssdResetPulse)
	if err := d.waitIdle(); err != nil {
		return err
	}
	if err := d.command(ssdSoftReset); err != nil {
		return err
	}
	if err := d.waitIdle(); err != nil {
		return err
	}

	last := d.h - 1
	steps := []struct {
		cmd  byte
		data []byte
	}{
		{ssdDriverOutput, []byte{byte(last), byte(last >> 8), 0x00}},
		{ssdDataEntry, []byte{ssdDataEntryIncr}},
		{ssdRAMXRange, []byte{0x00, byte(d.w/8 - 1)}},
		{ssdRAMYRange, []byte{0x00, 0x00, byte(last), byte(last >> 8)}},
		{ssdBorder, []byte{0x05}},
		{ssdUpdateCtrl1, []byte{0x00, 0x80}},
		{ssdTempSensor, []byte{0x80}},
	}
	for _, s := range steps {
		if err := d.command(s.cmd, s.data...); err != nil {
			return err
		}
	}
	return d.waitIdle()
}

func (d *ssd1680) writeRAM(ram byte, buf []byte) error {
	if err := d.command(ssdRAMXCounter, 0x00); err != nil {
		return err
	}
	if err := d.command(ssdRAMYCounter, 0x00, 0x00); err != nil {
		return err
	}
	return d.command(ram, buf...)
}

func (d *ssd1680) WritePlanes(planes Plane, buf []byte) error {
	if len(buf) != (d.w*d.h+7)/8 {
		return fmt.Errorf("ssd1680: buffer is %d bytes, want %d", len(buf), (d.w*d.h+7)/8)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if planes&PlaneCurrent != 0 {
		if err := d.writeRAM(ssdWriteBW, buf); err != nil {
			return err
		}
	}
	if planes&PlanePrevious != 0 {
		if err := d.writeRAM(ssdWriteRed, buf); err != nil {
			return err
		}
	}
	return nil
}

// Refresh starts the update sequence and polls BUSY from a goroutine. done
// runs once BUSY drops or the poll times out.
func (d *ssd1680) Refresh(mode RefreshMode, done func()) error {
	seq := byte(ssdSeqFull)
	if mode == RefreshPartial {
		seq = ssdSeqPartial
	}
	d.mu.Lock()
	err := d.command(ssdUpdateCtrl2, seq)
	if err == nil {
		err = d.command(ssdMasterActive)
	}
	if err != nil {
		d.mu.Unlock()
		return err
	}
	go func() {
		_ = d.waitIdle()
		d.mu.Unlock()
		if done != nil {
			done()
		}
	}()
	return nil
}
