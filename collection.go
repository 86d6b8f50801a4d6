package twominute

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sort"
)

const (
	// MinEntryYear is the earliest nominal year kept at load time.
	MinEntryYear = 500

	// cumulativeLookback is how far back CumulativeFrequency searches for a
	// year that has a running-total snapshot.
	cumulativeLookback = 100
)

// Filters selects which language categories survive loading. Entries dated
// before MinEntryYear are always dropped.
type Filters struct {
	IncludeEnglish     bool
	IncludeGermanic    bool
	IncludeUnspecified bool
}

func (f Filters) keep(e *Entry) bool {
	switch {
	case e.Year < MinEntryYear:
		return false
	case !f.IncludeEnglish && e.Language == LanguageEnglish:
		return false
	case !f.IncludeUnspecified && e.Language == LanguageUnspecified:
		return false
	case !f.IncludeGermanic && (e.Language == LanguageGermanic || e.Language == LanguageWestGermanic):
		return false
	}
	return true
}

// YearGroup is the set of entries sharing one dithered year.
type YearGroup struct {
	Year    int
	Entries []*Entry
}

// Collection owns a set of entries.
type Collection struct {
	res     *Resources
	entries []*Entry

	// running totals keyed by dithered year; nil until first needed
	cumulations map[int]map[string]float64
}

// NewCollection wraps already-built entries. The collection keeps its own
// copy of the slice.
func NewCollection(res *Resources, entries ...*Entry) *Collection {
	return &Collection{res: res, entries: slices.Clone(entries)}
}

// LoadCollectionFile reads an entry CSV from path.
func LoadCollectionFile(path string, res *Resources, filters Filters, overrides Overrides) (*Collection, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening entry data: %w", err)
	}
	defer fi.Close()
	return LoadCollection(fi, path, res, filters, overrides)
}

// LoadCollection reads entry rows in file order. Overrides replace an
// entry's language before anything is looked up for it.
func LoadCollection(r io.Reader, source string, res *Resources, filters Filters, overrides Overrides) (*Collection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	c := &Collection{res: res}
	unlisted := make(map[string]bool)
	dropped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		e, err := parseEntryRow(res, row)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%s line %d: %w", source, line, err)
		}
		if lang, ok := overrides[e.ID]; ok {
			e.Language = lang
		}
		if !filters.keep(e) {
			dropped++
			continue
		}
		c.entries = append(c.entries, e)
		c.noteUnlisted(e, unlisted)
	}

	res.logger().Infow("loaded entries", "source", source, "kept", len(c.entries), "dropped", dropped, "unlisted_languages", len(unlisted))
	return c, nil
}

func (c *Collection) noteUnlisted(e *Entry, seen map[string]bool) {
	if e.Language == LanguageEnglish || e.Language == LanguageUnspecified || seen[e.Language] {
		return
	}
	if c.res.Regions.IsListed(e.Language) {
		return
	}
	seen[e.Language] = true
	if s, ok := c.res.Regions.Suggest(e.Language); ok {
		c.res.logger().Debugw("language has no regions", "language", e.Language, "closest", s)
		return
	}
	c.res.logger().Debugw("language has no regions", "language", e.Language)
}

// Len returns the number of entries.
func (c *Collection) Len() int { return len(c.entries) }

// Entries returns the entries in load order. The slice must not be modified.
func (c *Collection) Entries() []*Entry { return c.entries }

// Add appends entries.
func (c *Collection) Add(entries ...*Entry) {
	c.entries = append(c.entries, entries...)
	c.cumulations = nil
}

// Filter keeps only the entries for which keep returns true.
func (c *Collection) Filter(keep func(*Entry) bool) {
	var kept []*Entry
	for _, e := range c.entries {
		if keep(e) {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	c.cumulations = nil
}

// byDitheredYear returns a copy of the entries stably sorted by dithered year.
func (c *Collection) byDitheredYear() []*Entry {
	sorted := make([]*Entry, len(c.entries))
	copy(sorted, c.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DitheredYear() < sorted[j].DitheredYear()
	})
	return sorted
}

// GroupByDitheredYear partitions the entries by dithered year, ascending.
func (c *Collection) GroupByDitheredYear() []YearGroup {
	var groups []YearGroup
	for _, e := range c.byDitheredYear() {
		y := e.DitheredYear()
		if n := len(groups); n > 0 && groups[n-1].Year == y {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, YearGroup{Year: y, Entries: []*Entry{e}})
	}
	return groups
}

func (c *Collection) buildCumulations() {
	c.cumulations = make(map[int]map[string]float64)
	totals := make(map[string]float64)
	for _, e := range c.byDitheredYear() {
		totals[e.LanguageGroup()] += e.Frequency
		snapshot := make(map[string]float64, len(totals))
		for k, v := range totals {
			snapshot[k] = v
		}
		c.cumulations[e.DitheredYear()] = snapshot
	}
}

// Cumulative returns the running frequency totals per language group for
// all entries dated up to year. When year itself has no entries, the most
// recent year within the previous 100 is used; beyond that the result is
// empty. The returned map is a copy.
func (c *Collection) Cumulative(year int) map[string]float64 {
	totals := c.snapshot(year)
	if totals == nil {
		return map[string]float64{}
	}
	return maps.Clone(totals)
}

// snapshot returns the cached totals for year, or nil.
func (c *Collection) snapshot(year int) map[string]float64 {
	if c.cumulations == nil {
		c.buildCumulations()
	}
	for y := year; y > year-cumulativeLookback; y-- {
		if totals, ok := c.cumulations[y]; ok {
			return totals
		}
	}
	return nil
}

// CumulativeFrequency returns the running total for one language group.
func (c *Collection) CumulativeFrequency(year int, group string) float64 {
	return c.snapshot(year)[group]
}

// CumulativeTotal sums the running totals of every group.
func (c *Collection) CumulativeTotal(year int) float64 {
	var sum float64
	for _, v := range c.snapshot(year) {
		sum += v
	}
	return sum
}
