//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"

	"tinygo.org/x/drivers/bme280"
	"tinygo.org/x/tinyfs/littlefs"
)

// Board wiring.
const (
	pinButtonA = machine.GPIO19
	pinButtonB = machine.GPIO20

	pinPanelSCK  = machine.GPIO10
	pinPanelSDO  = machine.GPIO11
	pinPanelCS   = machine.GPIO9
	pinPanelDC   = machine.GPIO8
	pinPanelRST  = machine.GPIO12
	pinPanelBusy = machine.GPIO13

	pinSDA = machine.GPIO4
	pinSCL = machine.GPIO5

	pinBattery = machine.ADC0

	panelSPIHz = 4 * machine.MHz
)

type deviceHAL struct {
	logger  *uartLogger
	panel   Panel
	buttons deviceButtons
	co2     CO2Sensor
	baro    PressureSensor
	battery Battery
	storage Storage
}

// New brings up the board. Peripherals that fail are logged and left nil;
// the caller decides which ones are fatal.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	h := &deviceHAL{logger: &uartLogger{uart: uart}}

	h.buttons = deviceButtons{
		a: &machinePin{name: "BTN_A", pin: pinButtonA},
		b: &machinePin{name: "BTN_B", pin: pinButtonB},
	}

	if p, err := newDevicePanel(); err != nil {
		h.logf("panel: %v", err)
	} else {
		h.panel = p
	}

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{SDA: pinSDA, SCL: pinSCL, Frequency: 100 * machine.KHz}); err != nil {
		h.logf("i2c: %v", err)
	} else {
		co2 := newSCD4x(i2c)
		if err := co2.Init(); err != nil {
			h.logf("scd4x: %v", err)
		} else {
			h.co2 = co2
		}

		bme := bme280.New(i2c)
		if bme.Connected() {
			bme.Configure()
			h.baro = &bme280Sensor{dev: &bme}
		} else {
			h.logf("bme280: not found")
		}
	}

	machine.InitADC()
	adc := machine.ADC{Pin: pinBattery}
	adc.Configure(machine.ADCConfig{})
	h.battery = adcBattery{adc: adc}

	lfs := littlefs.New(machine.Flash)
	lfs.Configure(&littlefs.Config{CacheSize: 512, LookaheadSize: 512, BlockCycles: 100})
	if err := mountOrFormat(lfs); err != nil {
		h.logf("littlefs: %v", err)
	} else {
		h.storage = &lfsStorage{fs: lfs}
	}
	return h
}

func newDevicePanel() (*ssd1680, error) {
	spi := machine.SPI1
	if err := spi.Configure(machine.SPIConfig{
		Frequency: panelSPIHz,
		SCK:       pinPanelSCK,
		SDO:       pinPanelSDO,
		Mode:      0,
	}); err != nil {
		return nil, err
	}
	for _, p := range []machine.Pin{pinPanelCS, pinPanelDC, pinPanelRST} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}
	pinPanelBusy.Configure(machine.PinConfig{Mode: machine.PinInput})

	d := newSSD1680(csSPI{spi: spi, cs: pinPanelCS}, pinPanelDC, pinPanelRST, pinPanelBusy, PanelWidth, PanelHeight)
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (h *deviceHAL) logf(format string, args ...any) {
	h.logger.WriteLineString(fmt.Sprintf(format, args...))
}

func (h *deviceHAL) Logger() Logger           { return h.logger }
func (h *deviceHAL) Clock() Clock             { return deviceClock{} }
func (h *deviceHAL) Reset()                   { machine.CPUReset() }
func (h *deviceHAL) Panel() Panel             { return h.panel }
func (h *deviceHAL) Buttons() Buttons         { return h.buttons }
func (h *deviceHAL) CO2() CO2Sensor           { return h.co2 }
func (h *deviceHAL) Pressure() PressureSensor { return h.baro }
func (h *deviceHAL) Battery() Battery         { return h.battery }
func (h *deviceHAL) Storage() Storage         { return h.storage }
func (h *deviceHAL) Network() Network         { return nil }
