package twominute

import (
	"math/rand"
	"sort"
)

const (
	// DefaultAnimationStart is the last year without example call-outs.
	DefaultAnimationStart = 1150

	// highFrequencyCount is how many of the commonest words are kept out of
	// the example pool.
	highFrequencyCount = 10

	// minExamples is the number of distinct examples aimed for per year.
	minExamples = 6
)

// Example identifies a called-out entry.
type Example struct {
	ID    string
	Lemma string
}

// ExampleSet is a set of examples.
type ExampleSet map[Example]struct{}

func (s ExampleSet) add(e *Entry) {
	s[Example{ID: e.ID, Lemma: e.Lemma}] = struct{}{}
}

// Contains reports whether e is in the set.
func (s ExampleSet) Contains(e *Entry) bool {
	_, ok := s[Example{ID: e.ID, Lemma: e.Lemma}]
	return ok
}

// Sorted returns the examples ordered by ID, then lemma.
func (s ExampleSet) Sorted() []Example {
	out := make([]Example, 0, len(s))
	for ex := range s {
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Lemma < out[j].Lemma
	})
	return out
}

// ExampleSelector picks a handful of entries to call out for a year: the
// geographic extremes plus some random ones.
type ExampleSelector struct {
	animationStart int
	rng            *rand.Rand
}

// NewExampleSelector returns a selector that stays silent up to and
// including animationStart.
func NewExampleSelector(animationStart int, rng *rand.Rand) *ExampleSelector {
	return &ExampleSelector{animationStart: animationStart, rng: rng}
}

// Select chooses examples from one year's (already winnowed) entries.
//
// The most frequent entries are set aside one at a time, up to ten of
// them, for as long as more than ten would remain, so that generic words
// are not spotlighted. From the rest it takes the
// northernmost, southernmost, easternmost and westernmost placed entries
// (first one wins on ties) and two random entries, drawn with replacement.
// If that yields fewer than six distinct examples, one more random entry
// is added. Small pools give small sets.
func (s *ExampleSelector) Select(entries []*Entry, year int) ExampleSet {
	set := ExampleSet{}
	if year <= s.animationStart || len(entries) == 0 {
		return set
	}

	pool := make([]*Entry, len(entries))
	copy(pool, entries)
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Frequency > pool[j].Frequency })
	skipped := 0
	for len(pool) > highFrequencyCount && skipped < highFrequencyCount {
		pool = pool[1:]
		skipped++
	}

	for _, e := range extremes(pool) {
		set.add(e)
	}
	set.add(s.random(pool))
	set.add(s.random(pool))
	if len(set) < minExamples {
		set.add(s.random(pool))
	}
	return set
}

func (s *ExampleSelector) random(pool []*Entry) *Entry {
	return pool[s.rng.Intn(len(pool))]
}

// extremes returns the max-latitude, min-latitude, max-longitude and
// min-longitude entries among the placed entries of pool, in that order.
func extremes(pool []*Entry) []*Entry {
	var north, south, east, west *Entry
	var maxLat, minLat, maxLon, minLon float64
	for _, e := range pool {
		p, ok := e.Coordinates()
		if !ok {
			continue
		}
		if north == nil {
			north, south, east, west = e, e, e, e
			maxLat, minLat, maxLon, minLon = p.Lat, p.Lat, p.Lon, p.Lon
			continue
		}
		if p.Lat > maxLat {
			north, maxLat = e, p.Lat
		}
		if p.Lat < minLat {
			south, minLat = e, p.Lat
		}
		if p.Lon > maxLon {
			east, maxLon = e, p.Lon
		}
		if p.Lon < minLon {
			west, minLon = e, p.Lon
		}
	}
	if north == nil {
		return nil
	}
	return []*Entry{north, south, east, west}
}
