package twominute

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Language labels with special handling in the source data.
const (
	LanguageEnglish      = "English"
	LanguageUnspecified  = "unspecified"
	LanguageGermanic     = "Germanic"
	LanguageWestGermanic = "West Germanic"
)

// Resources bundles the read-only reference data and the shared random
// source that entries resolve their derived fields against.
type Resources struct {
	Regions *RegionIndex
	Dither  *DitherTable
	Rand    *rand.Rand
	Logger  *zap.SugaredLogger
}

func (r *Resources) logger() *zap.SugaredLogger {
	if r.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return r.Logger
}

// Entry is one dictionary entry. The exported fields are fixed at load
// time; dithered year, coordinates and language group are worked out on
// first use and then never change.
type Entry struct {
	Lemma     string
	ID        string
	Year      int // nominal first-use year
	Frequency float64
	Band      int // frequency band
	Language  string

	res      *Resources
	dithered memo[int]
	placed   memo[placement]
	group    memo[string]
}

type placement struct {
	point Point
	ok    bool
}

// NewEntry creates an entry bound to res.
func NewEntry(res *Resources, lemma, id string, year int, frequency float64, band int, language string) *Entry {
	return &Entry{
		Lemma:     lemma,
		ID:        id,
		Year:      year,
		Frequency: frequency,
		Band:      band,
		Language:  language,
		res:       res,
	}
}

// DitheredYear returns the entry's jittered year, drawn on first call.
func (e *Entry) DitheredYear() int {
	return e.dithered.get(func() int {
		return e.res.Dither.Jitter(e.Year, e.res.Rand)
	})
}

// Coordinates returns a random point in the entry's language regions,
// drawn on first call. ok is false for unlisted languages.
func (e *Entry) Coordinates() (Point, bool) {
	pl := e.placed.get(func() placement {
		p, ok := e.res.Regions.RandomPoint(e.Language, 0)
		return placement{point: p, ok: ok}
	})
	return pl.point, pl.ok
}

func (e *Entry) Latitude() (float64, bool) {
	p, ok := e.Coordinates()
	return p.Lat, ok
}

func (e *Entry) Longitude() (float64, bool) {
	p, ok := e.Coordinates()
	return p.Lon, ok
}

// Distance returns the central angle in radians between the entry and p.
// Unplaced entries are infinitely far away.
func (e *Entry) Distance(p Point) float64 {
	c, ok := e.Coordinates()
	if !ok {
		return math.Inf(1)
	}
	return c.Distance(p)
}

// LanguageGroup returns "english", "unspecified", the region index group,
// or "" when the language is unlisted.
func (e *Entry) LanguageGroup() string {
	return e.group.get(func() string {
		switch e.Language {
		case LanguageEnglish:
			return "english"
		case LanguageUnspecified:
			return "unspecified"
		}
		g, _ := e.res.Regions.Group(e.Language)
		return g
	})
}

// GroupInitial is the one-letter group code used in the language roster.
// Greek is "k" so that it does not collide with germanic.
func (e *Entry) GroupInitial() string {
	g := strings.ToLower(e.LanguageGroup())
	switch {
	case g == "":
		return ""
	case g == "greek":
		return "k"
	}
	return g[:1]
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s (%s, %d, %s)", e.Lemma, e.ID, e.Year, e.Language)
}

// parseEntryRow reads "lemma, [label,] id, year, frequency, band, language".
func parseEntryRow(res *Resources, row []string) (*Entry, error) {
	switch len(row) {
	case 6:
	case 7:
		row = append([]string{row[0]}, row[2:]...)
	default:
		return nil, fmt.Errorf("expected 6 or 7 fields, got %d", len(row))
	}
	year, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, fmt.Errorf("year: %w", err)
	}
	freq, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return nil, fmt.Errorf("frequency: %w", err)
	}
	if freq < 0 || math.IsNaN(freq) {
		return nil, fmt.Errorf("frequency %v is negative", freq)
	}
	band, err := strconv.Atoi(strings.TrimSpace(row[4]))
	if err != nil {
		return nil, fmt.Errorf("band: %w", err)
	}
	return NewEntry(res, row[0], strings.TrimSpace(row[1]), year, freq, band, strings.TrimSpace(row[5])), nil
}
