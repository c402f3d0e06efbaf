package ident

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "mapped cjk", input: "废弃实验室", max: 3, want: "FQS"},
		{name: "ascii upper-cased", input: "moon", max: 3, want: "MOO"},
		{name: "unmapped skipped", input: "月王故事", max: 3, want: ""},
		{name: "mixed", input: "中x央", max: 3, want: "ZXY"},
		{name: "full-width folded", input: "ＡＢ", max: 2, want: "AB"},
		{name: "digits skipped", input: "1a2b", max: 3, want: "AB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Initials(tt.input, tt.max))
		})
	}
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, "", WorldviewPrefix(""))
	assert.Equal(t, "AAA", WorldviewPrefix("月王故事"))
	assert.Equal(t, "ZYA", WorldviewPrefix("中央"))

	assert.Equal(t, "FQ", NamePrefix("废弃实验室", "ZYA"))
	assert.Equal(t, "ZY", NamePrefix("", "ZYA"))
	assert.Equal(t, "AA", NamePrefix("", ""))
	assert.Equal(t, "AA", NamePrefix("月宫", ""))
}

var idPattern = regexp.MustCompile(`^[SLPC][A-Z]{0,3}[A-Z]{2}[0-9]{6}[0-9a-z]{3,5}$`)

func TestAllocateFormat(t *testing.T) {
	a := New(WithClock(fixedClock(1_700_000_123_456)), WithRand(rand.New(rand.NewPCG(1, 2))))

	id := a.Allocate(Request{Kind: dataset.KindScene, Worldview: "中央", NameHint: "废弃实验室"}, nil)
	require.Regexp(t, idPattern, id)
	assert.True(t, strings.HasPrefix(id, "SZYAFQ123456"), id)

	id = a.Allocate(Request{Kind: dataset.KindLayer}, nil)
	assert.True(t, strings.HasPrefix(id, "LAA123456"), id)
}

func TestAllocateKindLetter(t *testing.T) {
	a := New()
	for _, kind := range dataset.Kinds {
		id := a.Allocate(Request{Kind: kind, Worldview: "W", NameHint: "n"}, nil)
		assert.Equal(t, kind.Letter(), id[:1])
	}
}

func TestAllocateUniqueness(t *testing.T) {
	a := New(WithClock(fixedClock(42)))
	worldviews := []string{"", "默认世界观", "月王故事", "中央公园", "W1"}
	seen := make(map[string]IDSet)
	all := make(map[string]struct{})

	for i := range 10000 {
		kind := dataset.Kinds[i%len(dataset.Kinds)]
		if seen[string(kind)] == nil {
			seen[string(kind)] = NewIDSet()
		}
		id := a.Allocate(Request{Kind: kind, Worldview: worldviews[i%len(worldviews)], NameHint: "实验"}, seen[string(kind)])
		_, dup := all[id]
		require.False(t, dup, "duplicate id %s after %d allocations", id, i)
		all[id] = struct{}{}
		seen[string(kind)].Add(id)
	}
}

type takenSet struct {
	calls int
	taken func(call int, id string) bool
}

func (s *takenSet) Contains(id string) bool {
	s.calls++
	return s.taken(s.calls, id)
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	t.Run("rerolls until free", func(t *testing.T) {
		set := &takenSet{taken: func(call int, _ string) bool { return call < 3 }}
		a := New(WithMaxAttempts(5))
		id := a.Allocate(Request{Kind: dataset.KindPlay}, set)
		assert.Equal(t, 3, set.calls)
		assert.NotEmpty(t, id)
	})

	t.Run("late attempts widen the suffix", func(t *testing.T) {
		var last string
		set := &takenSet{taken: func(call int, id string) bool {
			last = id
			return call < 4
		}}
		a := New(WithClock(fixedClock(0)), WithMaxAttempts(4))
		id := a.Allocate(Request{Kind: dataset.KindPlay}, set)
		assert.Equal(t, last, id)
		assert.Len(t, id, len("PAA000000")+widenedLen)
	})

	t.Run("keeps widening past max attempts", func(t *testing.T) {
		seen := map[string]bool{}
		set := &takenSet{taken: func(call int, id string) bool {
			seen[id] = call <= 5
			return seen[id]
		}}
		a := New(WithClock(fixedClock(0)), WithMaxAttempts(3))
		id := a.Allocate(Request{Kind: dataset.KindCommand}, set)
		assert.Equal(t, 6, set.calls)
		assert.False(t, seen[id], "returned id must be free")
		assert.Len(t, id, len("CAA000000")+widenedLen+3)
		assert.Regexp(t, `^C[A-Z]{2}[0-9]{6}[0-9a-z]{8}$`, id)
	})
}

func TestAllocateDoesNotMutateExisting(t *testing.T) {
	set := NewIDSet("S1", "S2")
	New().Allocate(Request{Kind: dataset.KindScene}, set)
	assert.Len(t, set, 2)
}
