package render

import (
	"fmt"
	"time"

	"inkdash/dash/gfx"
	"inkdash/dash/store"
)

// Home is everything the home screen shows.
type Home struct {
	Status   store.Snapshot
	Time     time.Time
	Graph    GraphMode
	CO2      []int
	Altitude []float32
}

func (r *Renderer) Home(h Home) {
	r.s.Clear()
	st := h.Status

	label := "CO :"
	if st.Measuring {
		label = "CO *"
	}
	r.text(r.fonts.Small, 196, 114, label)
	r.text(r.fonts.Small, 208, 122, "2")
	r.textRight(r.fonts.Medium, 292, 122, fmt.Sprintf("%dppm", st.CO2))
	gfx.DrawBitmap(r.s, 183, 112, iconCheck, gfx.Black)

	r.text(r.fonts.Small, 238, 82, "T:")
	r.text(r.fonts.Small, 238, 91, "H:")
	r.text(r.fonts.Small, 238, 100, "A:")
	r.textRight(r.fonts.Small, 292, 82, fmt.Sprintf("%.2fC", st.Temperature))
	r.textRight(r.fonts.Small, 292, 91, fmt.Sprintf("%.2f%%", st.Humidity))
	r.textRight(r.fonts.Small, 292, 100, fmt.Sprintf("%+.2fm", st.Altitude))

	r.textRight(r.fonts.Large, 292, 78, h.Time.Format("15:04:05"))

	switch h.Graph {
	case GraphCO2:
		r.co2Graph(h.CO2)
	case GraphAltitude:
		r.altitudeGraph(h.Altitude)
	}

	r.text(r.fonts.Small, 235, 48, fmt.Sprintf("%.2fV", st.BatteryVoltage))
	r.battery(st.BatteryVoltage)
	if st.WifiConnected {
		gfx.DrawBitmap(r.s, 252, 40, iconWifi, gfx.Black)
	}

	// Button hints: B opens the menu, A switches the graph.
	gfx.DrawBitmap(r.s, 162, 1, iconButtonUp, gfx.Black)
	gfx.DrawBitmap(r.s, 160, 7, iconSliders, gfx.Black)
	gfx.DrawBitmap(r.s, 283, 1, iconButtonUp, gfx.Black)
	if h.Graph == GraphCO2 {
		gfx.DrawBitmap(r.s, 282, 7, iconPeak, gfx.Black)
	} else {
		gfx.DrawBitmap(r.s, 282, 7, iconBars, gfx.Black)
	}
}
