package gfx

import (
	"testing"

	"tinygo.org/x/drivers"
)

func TestCanvasLandscapeMapping(t *testing.T) {
	c := NewCanvas(NativeWidth, NativeHeight)
	if w, h := c.Size(); w != 296 || h != 128 {
		t.Fatalf("Size() = %d,%d, want 296,128", w, h)
	}
	if len(c.Buffer()) != NativeWidth*NativeHeight/8 {
		t.Fatalf("len(Buffer()) = %d", len(c.Buffer()))
	}
	for i, b := range c.Buffer() {
		if b != 0xFF {
			t.Fatalf("new canvas byte %d = %#x, want 0xff", i, b)
		}
	}

	// Logical (0,0) is native (127,0): last bit of the first row.
	c.SetPixel(0, 0, Black)
	if got := c.Buffer()[15]; got != 0xFE {
		t.Fatalf("byte 15 = %#x, want 0xfe", got)
	}
	// Logical (295,127) is native (0,295): first bit of the last row.
	c.SetPixel(295, 127, Black)
	if got := c.Buffer()[295*16]; got != 0x7F {
		t.Fatalf("byte %d = %#x, want 0x7f", 295*16, got)
	}
	if !c.Ink(0, 0) || !c.Ink(295, 127) || c.Ink(1, 0) {
		t.Fatal("Ink() disagrees with SetPixel")
	}

	c.SetPixel(0, 0, White)
	if c.Ink(0, 0) {
		t.Fatal("white pixel still black")
	}
}

func TestCanvasDropsOutOfRange(t *testing.T) {
	c := NewCanvas(NativeWidth, NativeHeight)
	c.SetPixel(-1, 0, Black)
	c.SetPixel(296, 0, Black)
	c.SetPixel(0, 128, Black)
	for i, b := range c.Buffer() {
		if b != 0xFF {
			t.Fatalf("byte %d = %#x after out of range writes", i, b)
		}
	}
}

func TestCanvasRotationZero(t *testing.T) {
	c := NewCanvas(16, 4)
	if err := c.SetRotation(drivers.Rotation0); err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 16 || h != 4 {
		t.Fatalf("Size() = %d,%d", w, h)
	}
	c.SetPixel(9, 1, Black)
	if got := c.Buffer()[3]; got != 0xBF {
		t.Fatalf("byte 3 = %#x, want 0xbf", got)
	}
}

func TestCanvasDisplayHook(t *testing.T) {
	c := NewCanvas(8, 8)
	called := false
	c.OnDisplay = func(got *Canvas) error {
		called = got == c
		return nil
	}
	if err := c.Display(); err != nil || !called {
		t.Fatalf("Display() err=%v called=%v", err, called)
	}
}

func TestDottedLineAndBitmap(t *testing.T) {
	c := NewCanvas(NativeWidth, NativeHeight)
	DottedHLine(c, 0, 12, 10, 4, Black)
	for x := int16(0); x <= 12; x++ {
		if got, want := c.Ink(x, 10), x%4 == 0; got != want {
			t.Fatalf("Ink(%d,10) = %v, want %v", x, got, want)
		}
	}

	arrow := Bitmap{W: 3, H: 2, Bits: []byte{0x40, 0xE0}}
	DrawBitmap(c, 100, 50, arrow, Black)
	want := [][]bool{{false, true, false}, {true, true, true}}
	for y := range want {
		for x := range want[y] {
			if got := c.Ink(100+int16(x), 50+int16(y)); got != want[y][x] {
				t.Fatalf("bitmap pixel %d,%d = %v, want %v", x, y, got, want[y][x])
			}
		}
	}
}

func TestConsoleScrollWindow(t *testing.T) {
	con := NewConsole(4, 4)
	con.SetPixel(1, 0, Black)
	con.SetScroll(1)

	c := NewCanvas(4, 4)
	_ = c.SetRotation(drivers.Rotation0)
	con.DrawTo(c)

	// Buffer row 0 is now the bottom visible row.
	if !c.Ink(1, 3) {
		t.Fatal("scrolled pixel not at bottom row")
	}
	if c.Ink(1, 0) {
		t.Fatal("scrolled pixel still at top row")
	}
}

func TestConsoleInverse(t *testing.T) {
	con := NewConsole(2, 1)
	con.Inverse = true
	_ = con.FillRectangle(0, 0, 2, 1, Black)
	con.SetPixel(0, 0, White)

	c := NewCanvas(2, 1)
	_ = c.SetRotation(drivers.Rotation0)
	con.DrawTo(c)
	if !c.Ink(0, 0) || c.Ink(1, 0) {
		t.Fatalf("inverse console: ink(0,0)=%v ink(1,0)=%v, want true false", c.Ink(0, 0), c.Ink(1, 0))
	}
}
