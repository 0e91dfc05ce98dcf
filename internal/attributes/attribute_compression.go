// Package attributes decodes compactly packed point cloud vertex attributes
// (oct-encoded normals and RGB565 colors) into floating point values.
//
// All functions are pure and safe for concurrent use.
package attributes

import "math"

// OctRangeMax is the largest value of a 16 bit oct-encoded component.
const OctRangeMax = 65535

const (
	mask5      = (1 << 5) - 1
	mask6      = (1 << 6) - 1
	normalize5 = 1.0 / 31.0
	normalize6 = 1.0 / 63.0
)

// OctDecode decodes a 16 bit per component oct-encoded unit vector.
func OctDecode(x, y int) [3]float64 {
	return OctDecodeInRange(x, y, OctRangeMax)
}

// OctDecodeInRange decodes an oct-encoded unit vector whose components are in
// [0, rangeMax]. The result is always unit length: the folded vector can
// only have a zero z component when |x|+|y| == 1, so it is never zero.
func OctDecodeInRange(x, y, rangeMax int) [3]float64 {
	fx := FromSNorm(x, rangeMax)
	fy := FromSNorm(y, rangeMax)
	fz := 1.0 - (math.Abs(fx) + math.Abs(fy))

	if fz < 0.0 {
		oldX := fx
		fx = (1.0 - math.Abs(fy)) * SignNotZero(oldX)
		fy = (1.0 - math.Abs(oldX)) * SignNotZero(fy)
	}

	length := math.Sqrt(fx*fx + fy*fy + fz*fz)
	return [3]float64{fx / length, fy / length, fz / length}
}

// FromSNorm maps a value in [0, rangeMax] to [-1, 1]. Values outside of the
// range are clamped.
func FromSNorm(value, rangeMax int) float64 {
	if value < 0 {
		value = 0
	} else if value > rangeMax {
		value = rangeMax
	}
	return float64(value)/float64(rangeMax)*2.0 - 1.0
}

// SignNotZero returns -1 for negative values and 1 otherwise, zero included.
func SignNotZero(value float64) float64 {
	if value < 0.0 {
		return -1.0
	}
	return 1.0
}

// DecodeRGB565ToRGBA decodes a 5-6-5 packed color into normalized RGBA
// components. Alpha is always 1.
func DecodeRGB565ToRGBA(value uint16) [4]float64 {
	red := int(value >> 11)
	green := int(value>>5) & mask6
	blue := int(value) & mask5

	return [4]float64{
		float64(red) * normalize5,
		float64(green) * normalize6,
		float64(blue) * normalize5,
		1.0,
	}
}
