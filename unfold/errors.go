// SPDX-License-Identifier: MIT

package unfold

import (
	"errors"
	"fmt"
)

var (
	// ErrAlgorithmUnavailable is returned by New for unknown kinds and for kinds
	// without a registered constructor.
	ErrAlgorithmUnavailable = errors.New("unfold: algorithm not available")

	// ErrNotConfigured signals an operation that needs Setup first.
	ErrNotConfigured = errors.New("unfold: engine not configured")

	// ErrNotUnfolded signals a report requested when no reconstruction is
	// available.
	ErrNotUnfolded = errors.New("unfold: no reconstruction available")

	// ErrVectorLength signals a measured vector, error vector or covariance
	// whose size differs from the measured bin count.
	ErrVectorLength = errors.New("unfold: vector length mismatch")

	// ErrRecoLength is returned when a strategy produces a reconstruction whose
	// length differs from the truth bin count.
	ErrRecoLength = errors.New("unfold: reconstruction length mismatch")

	// ErrSnapshotMismatch is returned by Restore when a snapshot was taken with
	// a response of different shape.
	ErrSnapshotMismatch = errors.New("unfold: snapshot does not match response")

	// ErrNilStrategy signals a nil strategy or constructor.
	ErrNilStrategy = errors.New("unfold: nil strategy")
)

// Operation tags for error wrapping.
const (
	opNew                  = "New"
	opRegister             = "Register"
	opSetMeasuredVector    = "SetMeasuredVector"
	opSetMeasuredCovVector = "SetMeasuredCovVector"
	opSetMeasuredCov       = "SetMeasuredCov"
	opRunToy               = "RunToy"
	opRestore              = "Restore"
	opPrintTable           = "PrintTable"
	opNone                 = "None.Unfold"
	opBinByBin             = "BinByBin.Unfold"
	opInvert               = "Invert.Unfold"
)

// unfoldErrorf wraps err with an operation tag, keeping errors.Is working.
func unfoldErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
