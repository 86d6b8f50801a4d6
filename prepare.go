package twominute

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/interp"
)

const (
	// Roster points per language: entry count / rosterEntriesPerPoint,
	// clamped to [rosterMinPoints, rosterMaxPoints].
	rosterEntriesPerPoint = 5
	rosterMinPoints       = 4
	rosterMaxPoints       = 30
	rosterDecimalPlaces   = 2

	// increaseRateSpan is the width in years of the increase-rate buckets.
	increaseRateSpan = 20

	minWordFrequency = 0.0001
)

// DefaultLanguageGroups are the groups reported in the running totals, in
// column order.
var DefaultLanguageGroups = []string{"germanic", "english", "romance", "latin", "greek", "other"}

// Timeline bounds the animated period.
type Timeline struct {
	StartYear      int // first year with words on the map
	EndYear        int
	AnimationStart int // examples start after this year
}

// DefaultTimeline is 800 to 2010 with call-outs after 1150.
var DefaultTimeline = Timeline{StartYear: 800, EndYear: 2010, AnimationStart: DefaultAnimationStart}

// LanguageRecord is one row of the language roster.
type LanguageRecord struct {
	Name   string      `json:"l" msgpack:"l"`
	Group  string      `json:"g" msgpack:"g"`
	Coords [][]float64 `json:"c" msgpack:"c"` // nil points for unplaced languages
}

// Artifacts holds everything the visualization reads.
type Artifacts struct {
	Languages     []LanguageRecord
	LanguageIndex map[string]int
	Words         map[int][][]any    // year -> [id, lemma, band, frequency, language index]
	Examples      map[int][][]string // year -> [id, lemma]
	RunningTotals map[int][]int      // year -> total per language group
	IncreaseRates map[int]int
}

// FileNames names the written artifacts.
type FileNames struct {
	Words         string
	Examples      string
	ExamplesLog   string
	Languages     string
	RunningTotals string
	IncreaseRates string
}

// DefaultFileNames are the names the front end expects.
var DefaultFileNames = FileNames{
	Words:         "words.json",
	Examples:      "examples.json",
	ExamplesLog:   "two_min_oed_examples.txt",
	Languages:     "languages.json",
	RunningTotals: "running_totals.json",
	IncreaseRates: "increase_rates.json",
}

// Preparer turns a loaded collection into the visualization artifacts.
type Preparer struct {
	res            *Resources
	coll           *Collection
	timeline       Timeline
	languageGroups []string
	winnower       *Winnower
	selector       *ExampleSelector
	format         Format
	files          FileNames
	log            *zap.SugaredLogger
}

// PrepareOption configures a Preparer.
type PrepareOption func(*Preparer)

// WithTimeline sets the animated period.
func WithTimeline(t Timeline) PrepareOption {
	return func(p *Preparer) {
		p.timeline = t
	}
}

// WithLanguageGroups sets the running-total columns.
func WithLanguageGroups(groups ...string) PrepareOption {
	return func(p *Preparer) {
		p.languageGroups = groups
	}
}

// WithWinnower replaces the default winnower.
func WithWinnower(w *Winnower) PrepareOption {
	return func(p *Preparer) {
		p.winnower = w
	}
}

// WithFormat sets the artifact encoding.
func WithFormat(f Format) PrepareOption {
	return func(p *Preparer) {
		p.format = f
	}
}

// WithFileNames overrides the artifact file names.
func WithFileNames(f FileNames) PrepareOption {
	return func(p *Preparer) {
		p.files = f
	}
}

// NewPreparer creates a Preparer over coll.
func NewPreparer(res *Resources, coll *Collection, opts ...PrepareOption) *Preparer {
	p := &Preparer{
		res:            res,
		coll:           coll,
		timeline:       DefaultTimeline,
		languageGroups: DefaultLanguageGroups,
		format:         FormatJSON,
		files:          DefaultFileNames,
		log:            res.logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.winnower == nil {
		p.winnower = NewWinnower(res.Rand)
	}
	p.selector = NewExampleSelector(p.timeline.AnimationStart, res.Rand)
	return p
}

func (p *Preparer) inRange(year int) bool {
	return year >= p.timeline.StartYear && year <= p.timeline.EndYear
}

// Build computes all artifacts in memory.
func (p *Preparer) Build() (*Artifacts, error) {
	if p.timeline.StartYear > p.timeline.EndYear {
		return nil, fmt.Errorf("timeline start %d is after end %d", p.timeline.StartYear, p.timeline.EndYear)
	}
	groups := p.coll.GroupByDitheredYear()
	byYear := make(map[int][]*Entry, len(groups))
	for _, g := range groups {
		byYear[g.Year] = g.Entries
	}

	a := &Artifacts{}
	a.Languages, a.LanguageIndex = p.roster(groups)
	a.RunningTotals = p.runningTotals(byYear)
	rates, err := p.increaseRates(byYear)
	if err != nil {
		return nil, err
	}
	a.IncreaseRates = rates
	a.Words, a.Examples = p.wordsAndExamples(groups, a.LanguageIndex)
	return a, nil
}

// roster lists every language seen in the animated period with a sample
// of points, in order of first appearance.
func (p *Preparer) roster(groups []YearGroup) ([]LanguageRecord, map[string]int) {
	var order []string
	counts := make(map[string]int)
	initials := make(map[string]string)
	for _, g := range groups {
		if !p.inRange(g.Year) {
			continue
		}
		for _, e := range g.Entries {
			if _, ok := counts[e.Language]; !ok {
				order = append(order, e.Language)
			}
			counts[e.Language]++
			initials[e.Language] = e.GroupInitial()
		}
	}

	records := make([]LanguageRecord, len(order))
	index := make(map[string]int, len(order))
	for i, lang := range order {
		n := min(max(counts[lang]/rosterEntriesPerPoint, rosterMinPoints), rosterMaxPoints)
		coords := make([][]float64, n)
		for j := range coords {
			if pt, ok := p.res.Regions.RandomPoint(lang, rosterDecimalPlaces); ok {
				coords[j] = []float64{pt.Lat, pt.Lon}
			}
		}
		records[i] = LanguageRecord{Name: lang, Group: initials[lang], Coords: coords}
		index[lang] = i
	}
	return records, index
}

// runningTotals accumulates frequency per language group from MinEntryYear
// and reports each year from the start of the timeline.
func (p *Preparer) runningTotals(byYear map[int][]*Entry) map[int][]int {
	col := make(map[string]int, len(p.languageGroups))
	for i, g := range p.languageGroups {
		col[g] = i
	}
	totals := make([]float64, len(p.languageGroups))
	out := make(map[int][]int)
	for year := MinEntryYear; year <= p.timeline.EndYear; year++ {
		for _, e := range byYear[year] {
			if i, ok := col[e.LanguageGroup()]; ok {
				totals[i] += e.Frequency
			}
		}
		if year >= p.timeline.StartYear {
			row := make([]int, len(totals))
			for i, v := range totals {
				row[i] = int(v)
			}
			out[year] = row
		}
	}
	return out
}

// increaseRates buckets frequency into 20-year spans, keyed at each span's
// midpoint as a per-year average, and interpolates every timeline year.
func (p *Preparer) increaseRates(byYear map[int][]*Entry) (map[int]int, error) {
	spans := make(map[int]float64)
	for year := MinEntryYear; year <= p.timeline.EndYear; year++ {
		span := (year/increaseRateSpan)*increaseRateSpan + increaseRateSpan/2
		for _, e := range byYear[year] {
			spans[span] += e.Frequency
		}
		if _, ok := spans[span]; !ok {
			spans[span] = 0
		}
	}

	xs := make([]float64, 0, len(spans))
	for s := range spans {
		xs = append(xs, float64(s))
	}
	sort.Float64s(xs)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = spans[int(x)] / increaseRateSpan
	}

	out := make(map[int]int)
	if len(xs) == 0 {
		return out, nil
	}
	predict := func(float64) float64 { return ys[0] }
	if len(xs) > 1 {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("interpolating increase rates: %w", err)
		}
		predict = pl.Predict
	}
	for year := p.timeline.StartYear; year <= p.timeline.EndYear; year++ {
		out[year] = int(predict(float64(year)))
	}
	return out, nil
}

func (p *Preparer) wordsAndExamples(groups []YearGroup, langIndex map[string]int) (map[int][][]any, map[int][][]string) {
	words := make(map[int][][]any)
	examples := make(map[int][][]string)
	for _, g := range groups {
		if !p.inRange(g.Year) {
			continue
		}
		kept := p.winnower.Winnow(g.Entries)
		rows := make([][]any, 0, len(kept))
		for _, e := range kept {
			rows = append(rows, []any{e.ID, e.Lemma, e.Band, displayFrequency(e.Frequency), langIndex[e.Language]})
		}
		words[g.Year] = rows

		chosen := p.selector.Select(kept, g.Year)
		pairs := make([][]string, 0, len(chosen))
		for _, ex := range chosen.Sorted() {
			pairs = append(pairs, []string{ex.ID, ex.Lemma})
		}
		examples[g.Year] = pairs
	}

	for year := p.timeline.AnimationStart; year <= p.timeline.EndYear; year++ {
		if _, ok := words[year]; !ok {
			words[year] = [][]any{}
		}
		if _, ok := examples[year]; !ok {
			examples[year] = [][]string{}
		}
	}
	return words, examples
}

// displayFrequency rounds to one significant figure; values of 1 and
// above become integers and nothing drops below minWordFrequency.
func displayFrequency(f float64) any {
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', 1, 64), 64)
	if err != nil {
		r = f
	}
	if r >= 1 {
		return int(r)
	}
	return max(r, minWordFrequency)
}

// Write builds the artifacts and writes them to dir.
func (p *Preparer) Write(dir string) (*Artifacts, error) {
	a, err := p.Build()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	outputs := []struct {
		name string
		v    any
	}{
		{p.files.Languages, a.Languages},
		{p.files.RunningTotals, a.RunningTotals},
		{p.files.IncreaseRates, a.IncreaseRates},
		{p.files.Words, a.Words},
		{p.files.Examples, a.Examples},
	}
	for _, o := range outputs {
		path, err := writeArtifact(dir, o.name, p.format, o.v)
		if err != nil {
			return nil, err
		}
		p.log.Infow("wrote artifact", "path", path)
	}

	logPath := filepath.Join(dir, p.files.ExamplesLog)
	if err := os.WriteFile(logPath, p.examplesLog(a.Examples), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", logPath, err)
	}
	p.log.Infow("wrote artifact", "path", logPath)
	return a, nil
}

// examplesLog lists every example as "id<TAB>lemma", year by year.
func (p *Preparer) examplesLog(examples map[int][][]string) []byte {
	var b bytes.Buffer
	for year := p.timeline.AnimationStart; year <= p.timeline.EndYear; year++ {
		for _, ex := range examples[year] {
			fmt.Fprintf(&b, "%s\t%s\n", ex[0], ex[1])
		}
	}
	return b.Bytes()
}
