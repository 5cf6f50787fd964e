package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// maxChannel keeps 256 * channel below 256
const maxChannel = 0.999

// ToRGB converts a linear color to 8-bit sRGB-ish output using gamma 2:
// square root, clamp to [0, 0.999], scale by 256 and truncate.
// NaN channels become 0.
func ToRGB(c core.Color) color.RGBA {
	return color.RGBA{
		R: channelToByte(c.X),
		G: channelToByte(c.Y),
		B: channelToByte(c.Z),
		A: 255,
	}
}

func channelToByte(x float64) uint8 {
	x = math.Sqrt(x) // negative input yields NaN
	if math.IsNaN(x) {
		return 0
	}
	x = math.Max(0, math.Min(maxChannel, x))
	return uint8(256 * x)
}
