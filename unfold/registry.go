// SPDX-License-Identifier: MIT

package unfold

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/unfold/hist"
)

// Constructor returns a fresh strategy of one kind.
type Constructor func() Strategy

var (
	registryMu sync.RWMutex
	registry   = map[Kind]Constructor{
		None:     func() Strategy { return NewNone() },
		BinByBin: func() Strategy { return NewBinByBin() },
		Invert:   func() Strategy { return NewInvert() },
	}
)

// Register makes kind available to New. A later registration of the same
// kind replaces the earlier one.
func Register(kind Kind, ctor Constructor) error {
	if ctor == nil {
		return unfoldErrorf(opRegister, ErrNilStrategy)
	}
	registryMu.Lock()
	registry[kind] = ctor
	registryMu.Unlock()

	return nil
}

// Available reports whether New can build kind.
func Available(kind Kind) bool {
	registryMu.RLock()
	_, ok := registry[kind]
	registryMu.RUnlock()

	return ok
}

// New builds an engine for kind and binds it to res and meas.
// A regularisation parameter given with WithRegParm is applied after the
// strategy is built.
//
// Errors:
//   - ErrAlgorithmUnavailable for unknown kinds and kinds without a
//     registered constructor; the error is also logged.
//   - ErrNilStrategy if the constructor returns nil.
func New(kind Kind, res ResponseMatrix, meas *hist.Hist, opts ...Option) (*Engine, error) {
	registryMu.RLock()
	ctor, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		cfg := gatherConfig(opts...)
		cfg.logger.Error("unfolding algorithm not available", "kind", kind, "id", int(kind))
		return nil, fmt.Errorf("%s: %w: %s", opNew, ErrAlgorithmUnavailable, kind)
	}
	s := ctor()
	if s == nil {
		return nil, unfoldErrorf(opNew, ErrNilStrategy)
	}
	e := NewEngine(s, opts...)
	e.Setup(res, meas)

	return e, nil
}
