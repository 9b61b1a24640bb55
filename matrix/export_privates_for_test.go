// SPDX-License-Identifier: MIT

package matrix

// Test bridge for the options snapshot and panic messages.
//
// Purpose:
//   - Expose the resolved Options to matrix_test without widening the API.
//   - Export panic messages so tests match them without magic strings.
//
// Maintenance:
//   - Keep OptionsSnapshot in sync with the Options fields.

// Panic message exports.
const (
	PanicEpsilonInvalid_TestOnly = panicEpsilonInvalid
	PanicRcondInvalid_TestOnly   = panicRcondInvalid
)

// OptionsSnapshot is a read-only copy of the resolved Options.
type OptionsSnapshot struct {
	Eps   float64
	Rcond float64
}

// GatherOptionsSnapshot_TestOnly resolves opts over the defaults.
func GatherOptionsSnapshot_TestOnly(opts ...Option) OptionsSnapshot {
	o := gatherOptions(opts...)

	return OptionsSnapshot{Eps: o.eps, Rcond: o.rcond}
}
