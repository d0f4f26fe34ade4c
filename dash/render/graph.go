package render

import (
	"fmt"
	"math"

	"inkdash/dash/gfx"
)

// GraphMode selects the history plotted on the home screen.
type GraphMode uint8

const (
	GraphCO2 GraphMode = iota
	GraphAltitude
)

func (m GraphMode) String() string {
	if m == GraphAltitude {
		return "altitude"
	}
	return "co2"
}

// Toggle returns the other mode.
func (m GraphMode) Toggle() GraphMode {
	if m == GraphCO2 {
		return GraphAltitude
	}
	return GraphCO2
}

// Plot band. Samples are right-anchored at GraphEndX, newest last.
const (
	GraphEndX   = 296 - 150
	GraphHeight = 128
	GraphBottom = 128

	CO2ScaleMax = 3000

	gridDotStep  = 4
	maxGridLines = 20
	minAltSpan   = 5
)

// CO2Gridlines are the reference levels on the CO2 graph.
var CO2Gridlines = [...]int{400, 1000, 2000}

func clampRow(y int) int16 {
	if y >= GraphHeight {
		y = GraphHeight - 1
	}
	if y < 0 {
		y = 0
	}
	return int16(y)
}

// CO2Row maps a CO2 value to a row on the fixed 0..3000 ppm scale.
func CO2Row(ppm int) int16 {
	if ppm < 0 {
		ppm = 0
	}
	if ppm > CO2ScaleMax {
		ppm = CO2ScaleMax
	}
	return clampRow(GraphBottom - ppm*GraphHeight/CO2ScaleMax)
}

// SampleX is the column of sample i out of n, or -1 when it falls off the
// left edge.
func SampleX(i, n int) int16 {
	x := GraphEndX - (n - 1 - i)
	if x < 0 {
		return -1
	}
	return int16(x)
}

// AltitudeScale is the auto-scaled vertical range of the altitude graph.
type AltitudeScale struct {
	Min, Max float32
}

// NewAltitudeScale fits the scale to hist. Spans narrower than 5 m are
// widened around their midpoint.
func NewAltitudeScale(hist []float32) AltitudeScale {
	if len(hist) == 0 {
		return AltitudeScale{Min: -minAltSpan / 2.0, Max: minAltSpan / 2.0}
	}
	lo, hi := hist[0], hist[0]
	for _, v := range hist {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi-lo < minAltSpan {
		mid := (hi + lo) / 2
		lo, hi = mid-minAltSpan/2.0, mid+minAltSpan/2.0
	}
	return AltitudeScale{Min: lo, Max: hi}
}

// Row maps v into the band; values outside the scale are clamped.
func (s AltitudeScale) Row(v float32) int16 {
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	return s.row(v)
}

func (s AltitudeScale) row(v float32) int16 {
	span := s.Max - s.Min
	return clampRow(GraphBottom - int((v-s.Min)*GraphHeight/span))
}

// Gridlines returns the whole metre levels inside the scale, thinned so that
// at most about twenty remain.
func (s AltitudeScale) Gridlines() []int {
	start := int(math.Ceil(float64(s.Min)))
	end := int(math.Floor(float64(s.Max)))
	step := 1
	for (end-start)/step > maxGridLines {
		step++
	}
	var out []int
	for v := start; v <= end; v++ {
		if v%step != 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (r *Renderer) co2Graph(hist []int) {
	if len(hist) == 0 {
		return
	}
	for _, level := range CO2Gridlines {
		y := CO2Row(level)
		gfx.DottedHLine(r.s, 0, GraphEndX-1, y, gridDotStep, gfx.Black)
		r.text(r.fonts.Small, GraphEndX+1, y+2, fmt.Sprint(level))
	}
	for i, v := range hist {
		x := SampleX(i, len(hist))
		if x < 0 {
			continue
		}
		r.s.SetPixel(x, CO2Row(v), gfx.Black)
	}
}

func (r *Renderer) altitudeGraph(hist []float32) {
	if len(hist) == 0 {
		return
	}
	sc := NewAltitudeScale(hist)

	r.text(r.fonts.Small, 150, 5, fmt.Sprintf("%.0f", sc.Max))
	r.text(r.fonts.Small, 150, 126, fmt.Sprintf("%.0f", sc.Min))

	gfx.HLine(r.s, 0, GraphEndX-1, 0, gfx.Black)
	gfx.HLine(r.s, 0, GraphEndX-1, GraphHeight-1, gfx.Black)

	for _, v := range sc.Gridlines() {
		y := GraphBottom - int((float32(v)-sc.Min)*GraphHeight/(sc.Max-sc.Min))
		if y < 0 || y >= GraphHeight {
			continue
		}
		if v == 0 {
			gfx.HLine(r.s, 0, GraphEndX-1, int16(y), gfx.Black)
		} else {
			gfx.DottedHLine(r.s, 0, GraphEndX-1, int16(y), gridDotStep, gfx.Black)
		}
	}

	for i, v := range hist {
		x := SampleX(i, len(hist))
		if x < 0 {
			continue
		}
		r.s.SetPixel(x, sc.Row(v), gfx.Black)
	}
}
