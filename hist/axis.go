// SPDX-License-Identifier: MIT

package hist

import "math"

// Axis is a uniform binning of [Min, Max) into N bins.
// Bin 0 is the underflow bin and bin N+1 the overflow bin.
type Axis struct {
	N        int
	Min, Max float64
}

// validate reports whether the axis describes at least one finite bin.
func (a Axis) validate() error {
	if a.N <= 0 || !(a.Max > a.Min) || math.IsInf(a.Min, 0) || math.IsInf(a.Max, 0) {
		return ErrBadShape
	}

	return nil
}

// Width returns the width of one bin.
func (a Axis) Width() float64 {
	return (a.Max - a.Min) / float64(a.N)
}

// FindBin returns the bin holding x: 0 below Min, N+1 at or above Max.
// NaN lands in the overflow bin.
func (a Axis) FindBin(x float64) int {
	switch {
	case x < a.Min:
		return 0
	case !(x < a.Max):
		return a.N + 1
	}
	i := 1 + int((x-a.Min)/a.Width())
	if i > a.N { // rounding at the upper edge
		i = a.N
	}

	return i
}

// Center returns the centre of bin i (underflow/overflow extrapolate one width).
func (a Axis) Center(i int) float64 {
	return a.Min + (float64(i)-0.5)*a.Width()
}

// Low returns the lower edge of bin i.
func (a Axis) Low(i int) float64 {
	return a.Min + float64(i-1)*a.Width()
}

// cells is the number of physical bins on this axis, under/overflow included.
func (a Axis) cells() int { return a.N + 2 }
