// Package mockdata fabricates the development-mode payloads returned when the
// koenote backend cannot be reached. Every payload has the shape of the real
// backend response for the same endpoint.
package mockdata

import (
	"math/rand/v2"
	"time"
)

// Rand is the randomness used by ProcessStatus. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// globalRand uses the concurrency-safe top-level math/rand/v2 functions.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Generator builds mock payloads. It is safe for concurrent use as long as
// the configured Rand is.
type Generator struct {
	now      func() time.Time
	rand     Rand
	location *time.Location
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRand sets the randomness source.
func WithRand(r Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// WithLocation sets the zone used for start_time values. Dates are always
// UTC.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.location = loc
		}
	}
}

// New creates a Generator using the wall clock, math/rand/v2 and time.Local
// unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		now:      time.Now,
		rand:     globalRand{},
		location: time.Local,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// date formats t as an ISO calendar date in UTC.
func date(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// clock formats t as HH:MM:SS in the generator's zone.
func (g *Generator) clock(t time.Time) string {
	return t.In(g.location).Format(time.TimeOnly)
}

// isoTimestamp formats t like JavaScript's Date.toISOString.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
