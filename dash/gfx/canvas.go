// Package gfx is the 1-bit drawing surface behind the e-paper panel.
package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Native panel geometry. The panel is mounted in landscape, so the UI draws
// on a 296x128 canvas rotated by 90 degrees.
const (
	NativeWidth  = 128
	NativeHeight = 296
)

var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// IsInk reports whether c is drawn black on a 1-bit panel.
func IsInk(c color.RGBA) bool {
	if c.A == 0 {
		return false
	}
	return int(c.R)+int(c.G)+int(c.B) < 3*128
}

// Canvas is a 1bpp framebuffer in the panel's native layout: row-major,
// most significant bit first, a cleared bit is black and 0xFF is white.
//
// It implements drivers.Displayer in rotated (logical) coordinates.
type Canvas struct {
	w, h int16
	rot  drivers.Rotation
	buf  []byte

	// OnDisplay, if set, is called by Display.
	OnDisplay func(c *Canvas) error
}

// NewCanvas allocates a white canvas of the given native size, rotated for
// landscape use.
func NewCanvas(nativeW, nativeH int16) *Canvas {
	c := &Canvas{
		w:   nativeW,
		h:   nativeH,
		rot: drivers.Rotation90,
		buf: make([]byte, (int(nativeW)*int(nativeH)+7)/8),
	}
	c.Clear()
	return c
}

// Size returns the logical size after rotation.
func (c *Canvas) Size() (x, y int16) {
	switch c.rot {
	case drivers.Rotation90, drivers.Rotation270:
		return c.h, c.w
	}
	return c.w, c.h
}

// NativeSize returns the size of the underlying buffer in pixels.
func (c *Canvas) NativeSize() (w, h int16) { return c.w, c.h }

func (c *Canvas) SetRotation(r drivers.Rotation) error {
	c.rot = r
	return nil
}

func (c *Canvas) Rotation() drivers.Rotation { return c.rot }

// native maps logical coordinates to the buffer.
func (c *Canvas) native(x, y int16) (int16, int16) {
	switch c.rot {
	case drivers.Rotation90:
		return c.w - 1 - y, x
	case drivers.Rotation180:
		return c.w - 1 - x, c.h - 1 - y
	case drivers.Rotation270:
		return y, c.h - 1 - x
	}
	return x, y
}

func (c *Canvas) index(x, y int16) (int, byte, bool) {
	nx, ny := c.native(x, y)
	if nx < 0 || nx >= c.w || ny < 0 || ny >= c.h {
		return 0, 0, false
	}
	i := int(ny)*int(c.w) + int(nx)
	return i / 8, byte(1) << (7 - uint(i%8)), true
}

// SetPixel writes one logical pixel. Out of range writes are dropped.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	idx, mask, ok := c.index(x, y)
	if !ok {
		return
	}
	if IsInk(col) {
		c.buf[idx] &^= mask
	} else {
		c.buf[idx] |= mask
	}
}

// Ink reports whether the logical pixel is black.
func (c *Canvas) Ink(x, y int16) bool {
	idx, mask, ok := c.index(x, y)
	if !ok {
		return false
	}
	return c.buf[idx]&mask == 0
}

// Clear paints the canvas white.
func (c *Canvas) Clear() {
	for i := range c.buf {
		c.buf[i] = 0xFF
	}
}

// Buffer exposes the native buffer. The caller must not keep it across
// draws.
func (c *Canvas) Buffer() []byte { return c.buf }

func (c *Canvas) Display() error {
	if c.OnDisplay == nil {
		return nil
	}
	return c.OnDisplay(c)
}

func (c *Canvas) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	FillRect(c, x, y, width, height, col)
	return nil
}
