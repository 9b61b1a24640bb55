// SPDX-License-Identifier: MIT

package unfold

import (
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultSeed seeds the random source of engines created without WithRandom
// or WithSeed.
const DefaultSeed uint64 = 4357

// RandomSource is a seeded random stream that can be shared between engines.
// Every draw takes the lock, so a shared source is safe for concurrent use;
// reproducibility still requires draws to be issued in a fixed order.
type RandomSource struct {
	mu  sync.Mutex
	src rand.Source
}

// NewRandomSource returns a stream seeded with seed.
func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{src: rand.NewSource(seed)}
}

// Uint64 implements rand.Source.
func (r *RandomSource) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.src.Uint64()
}

// Seed implements rand.Source and restarts the stream.
func (r *RandomSource) Seed(seed uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src.Seed(seed)
}

// Gaus draws from Normal(mean, sigma). A non-positive sigma returns mean.
func (r *RandomSource) Gaus(mean, sigma float64) float64 {
	if sigma <= 0 {
		return mean
	}

	return distuv.Normal{Mu: mean, Sigma: sigma, Src: r}.Rand()
}

// Poisson draws from Poisson(mean). A non-positive mean returns 0.
func (r *RandomSource) Poisson(mean float64) float64 {
	if mean <= 0 {
		return 0
	}

	return distuv.Poisson{Lambda: mean, Src: r}.Rand()
}
