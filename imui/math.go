package imui

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Floor returns v with both components rounded down.
func (v Vec2) Floor() Vec2 {
	return Vec2{floor32(v.X), floor32(v.Y)}
}

// Vec4 is a 4D vector. Clip rectangles store (minX, minY, maxX, maxY);
// colors store (r, g, b, a) in [0, 1].
type Vec4 struct {
	X, Y, Z, W float32
}

// Color is a packed 32-bit color, R in the lowest byte (ABGR in memory
// order on little-endian machines, matching an R8G8B8A8 vertex attribute).
type Color uint32

// RGBA packs 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// ColorFromVec4 packs a floating point color, clamping to [0, 1].
func ColorFromVec4(c Vec4) Color {
	return RGBA(unitToByte(c.X), unitToByte(c.Y), unitToByte(c.Z), unitToByte(c.W))
}

// Components returns the 8-bit components of c.
func (c Color) Components() (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

func unitToByte(f float32) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

func floor32(f float32) float32 {
	return float32(math.Floor(float64(f)))
}

func round32(f float32) float32 {
	return float32(math.Round(float64(f)))
}
