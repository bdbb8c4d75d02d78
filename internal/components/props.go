package components

import rl "github.com/gen2brain/raylib-go/raylib"

// colorVec returns c as normalized RGBA scaled by intensity in RGB.
func colorVec(c rl.Color, intensity float32) rl.Vector4 {
	return rl.Vector4{
		X: float32(c.R) / 255.0 * intensity,
		Y: float32(c.G) / 255.0 * intensity,
		Z: float32(c.B) / 255.0 * intensity,
		W: float32(c.A) / 255.0,
	}
}
