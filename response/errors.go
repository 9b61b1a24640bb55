// SPDX-License-Identifier: MIT

package response

import (
	"errors"
	"fmt"
)

var (
	// ErrNilHist indicates a nil measured or truth template.
	ErrNilHist = errors.New("response: nil histogram template")

	// ErrOverflowDimension is returned when overflow tracking is requested for
	// a histogram with more than one dimension.
	ErrOverflowDimension = errors.New("response: overflow bins are only supported in 1D")

	// ErrBinRange signals a logical bin index outside the response.
	ErrBinRange = errors.New("response: bin index out of range")
)

// responseErrorf wraps err with an operation tag, keeping errors.Is working.
func responseErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
