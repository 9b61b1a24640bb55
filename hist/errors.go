// SPDX-License-Identifier: MIT

package hist

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when an axis has a non-positive bin count or an
	// empty/inverted range.
	ErrBadShape = errors.New("hist: invalid axis shape")

	// ErrDimension signals an operation that needs a specific dimensionality.
	ErrDimension = errors.New("hist: unsupported dimension")

	// ErrVectorLength signals a vector shorter than the requested bin count.
	ErrVectorLength = errors.New("hist: vector length mismatch")

	// ErrNilHist indicates that a nil *Hist was passed where a histogram is required.
	ErrNilHist = errors.New("hist: nil histogram")
)

// histErrorf wraps err with an operation tag, keeping errors.Is working.
func histErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
