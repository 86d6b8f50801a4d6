package twominute

import (
	"math/rand"
	"slices"
	"sort"
	"strings"
)

// DefaultWinnowCap is the most entries kept per year.
const DefaultWinnowCap = 50

// DefaultReferencePoint is Leicester, standing in for the centre of England.
var DefaultReferencePoint = Point{Lat: 52.6, Lon: -1.1}

// DefaultExcludedLanguages are native-origin languages; the animation is
// about borrowed vocabulary.
var DefaultExcludedLanguages = []string{LanguageEnglish, LanguageGermanic, LanguageWestGermanic}

// DefaultBlocklist holds substrings that keep a lemma off the map. Matching
// is a case-sensitive substring test, so longer words containing one of
// these are dropped as well.
var DefaultBlocklist = []string{"shit", "fuck", "bugger", "cunt", "piss"}

// Winnower thins one year's entries down to a fixed cap, preferring to keep
// entries far from the reference point.
type Winnower struct {
	excluded  map[string]bool
	blocklist []string
	reference Point
	cap       int
	rng       *rand.Rand
}

// WinnowOption configures a Winnower.
type WinnowOption func(*Winnower)

// WithCap sets the maximum number of entries returned.
func WithCap(n int) WinnowOption {
	return func(w *Winnower) {
		w.cap = n
	}
}

// WithExcludedLanguages replaces the excluded language set.
func WithExcludedLanguages(langs ...string) WinnowOption {
	return func(w *Winnower) {
		w.excluded = make(map[string]bool, len(langs))
		for _, l := range langs {
			w.excluded[l] = true
		}
	}
}

// WithReferencePoint sets the point distances are measured from.
func WithReferencePoint(p Point) WinnowOption {
	return func(w *Winnower) {
		w.reference = p
	}
}

// WithBlocklist replaces the lemma blocklist.
func WithBlocklist(words ...string) WinnowOption {
	return func(w *Winnower) {
		w.blocklist = words
	}
}

// NewWinnower returns a Winnower drawing from rng.
func NewWinnower(rng *rand.Rand, opts ...WinnowOption) *Winnower {
	w := &Winnower{
		blocklist: DefaultBlocklist,
		reference: DefaultReferencePoint,
		cap:       DefaultWinnowCap,
		rng:       rng,
	}
	WithExcludedLanguages(DefaultExcludedLanguages...)(w)
	for _, opt := range opts {
		opt(w)
	}
	if w.cap < 0 {
		w.cap = 0
	}
	return w
}

// Winnow returns at most cap entries from entries, sorted by descending
// frequency. The input slice is not modified.
//
// Entries in excluded languages and entries with blocklisted lemmas go
// first. The rest are ranked by distance from the reference point and,
// while too many remain, one is removed at a time with weight
// (remaining - rank + 3): near entries are the likeliest to go, but every
// entry can be picked.
func (w *Winnower) Winnow(entries []*Entry) []*Entry {
	kept := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if w.excluded[e.Language] || w.blocked(e.Lemma) {
			continue
		}
		kept = append(kept, e)
	}

	dist := make(map[*Entry]float64, len(kept))
	for _, e := range kept {
		dist[e] = e.Distance(w.reference)
	}
	sort.SliceStable(kept, func(i, j int) bool { return dist[kept[i]] < dist[kept[j]] })

	for len(kept) > w.cap {
		i := w.pickForRemoval(len(kept))
		kept = slices.Delete(kept, i, i+1)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Frequency > kept[j].Frequency })
	return kept
}

// pickForRemoval chooses a rank in [0, n) with weight n - rank + 3.
func (w *Winnower) pickForRemoval(n int) int {
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(n - i + 3)
	}
	r := w.rng.Float64() * sum
	for i := 0; i < n; i++ {
		r -= float64(n - i + 3)
		if r < 0 {
			return i
		}
	}
	return n - 1
}

func (w *Winnower) blocked(lemma string) bool {
	for _, s := range w.blocklist {
		if strings.Contains(lemma, s) {
			return true
		}
	}
	return false
}
