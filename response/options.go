// SPDX-License-Identifier: MIT

package response

// DefaultOverflow keeps under/overflow bins out of the logical range.
const DefaultOverflow = false

// Option configures a Response at construction.
type Option func(*options)

type options struct {
	overflow bool
	name     string
	title    string
}

// WithOverflow includes the under- and overflow bins in the logical range
// (1D histograms only).
func WithOverflow(on bool) Option {
	return func(o *options) { o.overflow = on }
}

// WithName sets the response name (default: "response").
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithTitle sets the response title (default: the truth template's title).
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}
