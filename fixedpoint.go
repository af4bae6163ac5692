package fontatlas

import "golang.org/x/image/math/fixed"

// round26_6 converts a signed 26.6 fixed-point value (integer pixels scaled
// by 64) to the nearest integer pixel, ties rounding up:
//
//	round26_6(v) == floor(v/64) + (1 if v&63 >= 32 else 0)
//
// Go's arithmetic right shift on a signed integer is already a floor
// division, so v>>6 gives floor(v/64) directly and v&63 gives the
// corresponding non-negative remainder in [0,63] for any sign of v. This
// avoids the overflow that the naive (v+32)>>6 suffers for values near the
// representable maximum, since nothing is added to v itself.
func round26_6(v fixed.Int26_6) int {
	iv := int32(v)
	whole := iv >> 6
	frac := iv & 63
	if frac >= 32 {
		whole++
	}
	return int(whole)
}
