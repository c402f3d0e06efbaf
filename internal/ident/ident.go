// Package ident mints record identifiers of the form
// <kind><worldview prefix><name prefix><time digits><random suffix>.
package ident

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

const (
	DefaultMaxAttempts = 8

	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLen      = 4
	widenedLen     = 5
)

// Existing reports whether an ID is already taken within a kind.
type Existing interface {
	Contains(id string) bool
}

// IDSet is a map backed Existing. The zero value is not usable; use NewIDSet.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

type Request struct {
	Kind      dataset.Kind
	Worldview string
	NameHint  string
}

type Allocator struct {
	now         func() time.Time
	rng         *rand.Rand
	maxAttempts int
}

type Option func(*Allocator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Allocator) { a.now = now }
}

// WithRand replaces the random source used for suffixes.
func WithRand(rng *rand.Rand) Option {
	return func(a *Allocator) { a.rng = rng }
}

// WithMaxAttempts bounds how many candidates are tried against the existing
// set before the last one is returned anyway. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(a *Allocator) {
		if n >= 1 {
			a.maxAttempts = n
		}
	}
}

func New(opts ...Option) *Allocator {
	seed := uint64(time.Now().UnixNano())
	a := &Allocator{
		now:         time.Now,
		rng:         rand.New(rand.NewPCG(seed, seed>>17|1)),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns a new ID for req that existing does not contain. It never
// modifies existing; callers add the returned ID to their own set before the
// next call in a batch. A nil existing skips the collision check. Once the
// attempt limit is spent the suffix grows by one character per draw until a
// free ID turns up.
func (a *Allocator) Allocate(req Request, existing Existing) string {
	wp := WorldviewPrefix(req.Worldview)
	prefix := req.Kind.Letter() + wp + NamePrefix(req.NameHint, wp)

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		n := suffixLen
		if attempt >= a.maxAttempts/2 && attempt > 0 {
			n = widenedLen
		}
		id := prefix + a.timeDigits() + a.randomSuffix(n)
		if existing == nil || !existing.Contains(id) {
			return id
		}
	}
	for n := widenedLen + 1; ; n++ {
		id := prefix + a.timeDigits() + a.randomSuffix(n)
		if existing == nil || !existing.Contains(id) {
			return id
		}
	}
}

func (a *Allocator) timeDigits() string {
	ms := fmt.Sprintf("%06d", a.now().UnixMilli())
	return ms[len(ms)-6:]
}

func (a *Allocator) randomSuffix(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(suffixAlphabet[a.rng.IntN(len(suffixAlphabet))])
	}
	return b.String()
}
