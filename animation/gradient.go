package animation

import (
	"image/color"
)

// ColorTable is a cyclic gradient sampled at every phase of a cycle
type ColorTable [Accuracy]color.RGBA

// NewColorTable spreads the stops evenly over one cycle and fills the table
// by linear interpolation between consecutive stops, the last stop blending
// back into the first.  Without stops every entry is transparent
func NewColorTable(stops []color.RGBA) (table *ColorTable) {
	table = &ColorTable{}
	for r := range stops {
		first := r * Accuracy / len(stops)
		last := (r + 1) * Accuracy / len(stops)
		if last == first {
			// More stops than table entries
			continue
		}
		colorA := stops[r]
		colorB := stops[(r+1)%len(stops)]

		for idx := first; idx < last; idx++ {
			ratio := float32(idx-first) / float32(last-first)
			table[idx] = lerp(colorA, colorB, ratio)
		}
	}
	return table
}

func lerp(a, b color.RGBA, ratio float32) color.RGBA {
	return color.RGBA{
		R: mix(a.R, b.R, ratio),
		G: mix(a.G, b.G, ratio),
		B: mix(a.B, b.B, ratio),
		A: mix(a.A, b.A, ratio),
	}
}

// mix rounds to the nearest channel value so that blending a channel with
// itself is exact
func mix(a, b uint8, ratio float32) uint8 {
	return uint8(float32(a)*(1-ratio) + float32(b)*ratio + 0.5)
}
