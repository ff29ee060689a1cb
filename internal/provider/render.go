package provider

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/dyike/ChartPilotGo/internal/models"
)

const (
	chartWidth  = 240
	chartHeight = 120
)

// renderChart draws a minimal close-price sparkline so every snapshot
// carries a real image blob for the vision oracle.
func renderChart(bars []models.OHLCBar) []byte {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	bg := color.RGBA{R: 16, G: 20, B: 28, A: 255}
	for y := 0; y < chartHeight; y++ {
		for x := 0; x < chartWidth; x++ {
			img.Set(x, y, bg)
		}
	}

	if len(bars) >= 2 {
		lo, hi := bars[0].Low, bars[0].High
		for _, b := range bars {
			if b.Low < lo {
				lo = b.Low
			}
			if b.High > hi {
				hi = b.High
			}
		}
		span := hi - lo
		if span <= 0 {
			span = 1
		}

		line := color.RGBA{R: 80, G: 200, B: 120, A: 255}
		step := float64(chartWidth-1) / float64(len(bars)-1)
		toY := func(price float64) int {
			y := chartHeight - 1 - int((price-lo)/span*float64(chartHeight-1))
			if y < 0 {
				y = 0
			}
			if y >= chartHeight {
				y = chartHeight - 1
			}
			return y
		}
		for i := 1; i < len(bars); i++ {
			x0, y0 := int(float64(i-1)*step), toY(bars[i-1].Close)
			x1, y1 := int(float64(i)*step), toY(bars[i].Close)
			drawLine(img, x0, y0, x1, y1, line)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
