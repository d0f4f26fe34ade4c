package render

import "inkdash/dash/gfx"

var (
	iconButtonUp = gfx.Bitmap{W: 7, H: 4, Bits: []byte{
		0x10,
		0x38,
		0x7c,
		0xfe,
	}}

	iconCheck = gfx.Bitmap{W: 8, H: 8, Bits: []byte{
		0x01,
		0x03,
		0x06,
		0x8c,
		0xd8,
		0x70,
		0x20,
		0x00,
	}}

	iconWifi = gfx.Bitmap{W: 11, H: 8, Bits: []byte{
		0x3f, 0x80,
		0x40, 0x40,
		0x9f, 0x20,
		0x20, 0x80,
		0x0e, 0x00,
		0x11, 0x00,
		0x00, 0x00,
		0x04, 0x00,
	}}

	iconSliders = gfx.Bitmap{W: 8, H: 9, Bits: []byte{
		0x10,
		0xff,
		0x10,
		0x00,
		0x04,
		0xff,
		0x04,
		0x00,
		0x00,
	}}

	iconBars = gfx.Bitmap{W: 9, H: 8, Bits: []byte{
		0x01, 0x80,
		0x01, 0x80,
		0x0d, 0x80,
		0x0d, 0x80,
		0x6d, 0x80,
		0x6d, 0x80,
		0x6d, 0x80,
		0xff, 0x80,
	}}

	iconPeak = gfx.Bitmap{W: 9, H: 8, Bits: []byte{
		0x08, 0x00,
		0x14, 0x00,
		0x22, 0x00,
		0x41, 0x00,
		0x80, 0x80,
		0x00, 0x00,
		0x00, 0x00,
		0xff, 0x80,
	}}
)

// Battery gauge geometry.
const (
	batteryX, batteryY = 267, 39
	batteryW, batteryH = 21, 12

	BatteryEmpty = 3.3
	BatteryFull  = 4.2
)

// BatteryLevel maps a cell voltage to 0..1.
func BatteryLevel(volts float32) float32 {
	l := (volts - BatteryEmpty) / (BatteryFull - BatteryEmpty)
	if l < 0 {
		return 0
	}
	if l > 1 {
		return 1
	}
	return l
}

func (r *Renderer) battery(volts float32) {
	gfx.Rect(r.s, batteryX, batteryY, batteryW, batteryH, gfx.Black)
	gfx.FillRect(r.s, batteryX+batteryW, batteryY+3, 2, batteryH-6, gfx.Black)
	inner := int16(float32(batteryW-4) * BatteryLevel(volts))
	gfx.FillRect(r.s, batteryX+2, batteryY+2, inner, batteryH-4, gfx.Black)
}
