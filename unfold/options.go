// SPDX-License-Identifier: MIT

package unfold

import (
	"log/slog"
	"math"
)

const (
	// DefaultNToys is the number of toys used for the CovToy treatment.
	DefaultNToys = 50

	// DefaultVerbose logs warnings and summaries but no debug output.
	DefaultVerbose = 1

	// DefaultToyPolicy resamples measured bins with Poisson draws.
	DefaultToyPolicy = PoissonToys

	// RegParmUnset leaves the strategy's own regularisation parameter in place.
	RegParmUnset = -1e30

	// maxGaussianRedraws bounds the rejection loop of Gaussian toys. A bin whose
	// draws keep coming out negative is set to zero.
	maxGaussianRedraws = 1000
)

// Option configures an Engine at construction.
type Option func(*config)

type config struct {
	name    string
	title   string
	regParm float64
	nToys   int
	verbose int
	policy  ToyPolicy
	rnd     *RandomSource
	logger  *slog.Logger
}

func defaultConfig() config {
	return config{
		regParm: RegParmUnset,
		nToys:   DefaultNToys,
		verbose: DefaultVerbose,
		policy:  DefaultToyPolicy,
	}
}

func gatherConfig(opts ...Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.rnd == nil {
		c.rnd = NewRandomSource(DefaultSeed)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// WithName sets the engine name (default: the response name).
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithTitle sets the engine title (default: "Unfold " + response title).
func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

// WithRegParm applies a regularisation parameter after construction.
// RegParmUnset keeps the strategy default. Panics on NaN.
func WithRegParm(p float64) Option {
	if math.IsNaN(p) {
		panic("unfold: WithRegParm(NaN)")
	}

	return func(c *config) { c.regParm = p }
}

// WithNToys sets the number of toys for CovToy. Panics if n < 0.
func WithNToys(n int) Option {
	if n < 0 {
		panic("unfold: WithNToys(n<0)")
	}

	return func(c *config) { c.nToys = n }
}

// WithVerbose sets the log verbosity: 0 silent, 1 warnings and summaries,
// 2 debug. Panics if v < 0.
func WithVerbose(v int) Option {
	if v < 0 {
		panic("unfold: WithVerbose(v<0)")
	}

	return func(c *config) { c.verbose = v }
}

// WithRandom shares an existing random stream. Panics on nil.
func WithRandom(r *RandomSource) Option {
	if r == nil {
		panic("unfold: WithRandom(nil)")
	}

	return func(c *config) { c.rnd = r }
}

// WithSeed gives the engine its own stream seeded with seed.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.rnd = NewRandomSource(seed) }
}

// WithToyPolicy selects Poisson or Gaussian resampling for toys.
func WithToyPolicy(p ToyPolicy) Option {
	if p != PoissonToys && p != GaussianToys {
		panic("unfold: WithToyPolicy(unknown policy)")
	}

	return func(c *config) { c.policy = p }
}

// WithLogger routes engine diagnostics to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("unfold: WithLogger(nil)")
	}

	return func(c *config) { c.logger = l }
}
