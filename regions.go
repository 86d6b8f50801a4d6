package twominute

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"
)

// maxSuggestDistance caps the edit distance Suggest will accept.
const maxSuggestDistance = 3

// Region is an axis-aligned latitude/longitude rectangle in degrees.
type Region struct {
	bound orb.Bound
}

// NewRegion builds a region from two opposite corners given in any order.
func NewRegion(lat1, lon1, lat2, lon2 float64) Region {
	return Region{bound: orb.Bound{
		Min: orb.Point{math.Min(lon1, lon2), math.Min(lat1, lat2)},
		Max: orb.Point{math.Max(lon1, lon2), math.Max(lat1, lat2)},
	}}
}

func (r Region) LatMin() float64 { return r.bound.Bottom() }
func (r Region) LatMax() float64 { return r.bound.Top() }
func (r Region) LonMin() float64 { return r.bound.Left() }
func (r Region) LonMax() float64 { return r.bound.Right() }

// Bound returns the region as an orb.Bound (x = longitude, y = latitude).
func (r Region) Bound() orb.Bound { return r.bound }

// Contains reports whether p lies inside the region, edges included.
func (r Region) Contains(p Point) bool {
	return r.bound.Contains(orb.Point{p.Lon, p.Lat})
}

// Centre returns the midpoint of the region.
func (r Region) Centre() Point {
	c := r.bound.Center()
	return Point{Lat: c.Lat(), Lon: c.Lon()}
}

// Weight is the relative area used to pick between a language's regions.
//
// The latitudes are handed to math.Sin in degrees, so this is not a true
// spherical area.
func (r Region) Weight() float64 {
	return math.Abs(math.Sin(r.LatMax())-math.Sin(r.LatMin())) *
		math.Abs(r.LonMax()-r.LonMin())
}

func (r Region) randomPoint(rng *rand.Rand) Point {
	return Point{
		Lat: r.LatMin() + rng.Float64()*(r.LatMax()-r.LatMin()),
		Lon: r.LonMin() + rng.Float64()*(r.LonMax()-r.LonMin()),
	}
}

// weightedChooser picks an index with probability proportional to its
// weight, using a running-total table and a bisect-right search.
type weightedChooser struct {
	totals []float64
}

func newWeightedChooser(weights []float64) weightedChooser {
	totals := make([]float64, len(weights))
	if len(weights) > 0 {
		floats.CumSum(totals, weights)
	}
	return weightedChooser{totals: totals}
}

func (w weightedChooser) choose(rng *rand.Rand) int {
	n := len(w.totals)
	total := w.totals[n-1]
	if total <= 0 {
		// Every region is degenerate; fall back to a uniform pick.
		return rng.Intn(n)
	}
	draw := rng.Float64() * total
	i := sort.Search(n, func(i int) bool { return w.totals[i] > draw })
	if i == n {
		i = n - 1
	}
	return i
}

// LanguageProfile is the geographic description of one source language.
type LanguageProfile struct {
	Name    string    // name as written in the source file
	Group   string    // normalized group label, e.g. "romance"
	Regions []Region  // in source order
	Weights []float64 // parallel to Regions

	chooser weightedChooser
}

// NewLanguageProfile computes the region weights for a profile.
func NewLanguageProfile(name, group string, regions []Region) *LanguageProfile {
	weights := make([]float64, len(regions))
	for i, r := range regions {
		weights[i] = r.Weight()
	}
	return &LanguageProfile{
		Name:    name,
		Group:   NormalizeLanguage(group),
		Regions: regions,
		Weights: weights,
		chooser: newWeightedChooser(weights),
	}
}

func (lp *LanguageProfile) randomPoint(rng *rand.Rand) Point {
	if len(lp.Regions) == 1 {
		return lp.Regions[0].randomPoint(rng)
	}
	return lp.Regions[lp.chooser.choose(rng)].randomPoint(rng)
}

// RegionIndex maps normalized language names to their geo-profiles.
// It is built once and read-only afterwards; random draws come from the
// shared source it was built with.
type RegionIndex struct {
	profiles map[string]*LanguageProfile
	keys     []string // sorted normalized names, for Suggest
	rng      *rand.Rand
}

// NewRegionIndex builds an index from profiles. Profiles without regions
// are left out, so their languages are unlisted. A later profile replaces an
// earlier one with the same normalized name.
func NewRegionIndex(rng *rand.Rand, profiles ...*LanguageProfile) *RegionIndex {
	idx := &RegionIndex{
		profiles: make(map[string]*LanguageProfile, len(profiles)),
		rng:      rng,
	}
	for _, p := range profiles {
		if p == nil || len(p.Regions) == 0 {
			continue
		}
		idx.profiles[NormalizeLanguage(p.Name)] = p
	}
	idx.keys = make([]string, 0, len(idx.profiles))
	for k := range idx.profiles {
		idx.keys = append(idx.keys, k)
	}
	sort.Strings(idx.keys)
	return idx
}

// LoadRegionIndexFile reads a region CSV from path.
func LoadRegionIndexFile(path string, rng *rand.Rand) (*RegionIndex, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening language coordinates: %w", err)
	}
	defer fi.Close()
	return LoadRegionIndex(fi, path, rng)
}

// LoadRegionIndex parses rows of "language, group, lat, lon, lat, lon, ..."
// after a header row. Each run of four coordinates is one rectangle given by
// two opposite corners. Blank cells are ignored. Any malformed row fails the
// whole load with a *ConfigError.
func LoadRegionIndex(r io.Reader, source string, rng *rand.Rand) (*RegionIndex, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var profiles []*LanguageProfile
	header := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ConfigError{Source: source, Err: err}
		}
		line, _ := reader.FieldPos(0)
		if header {
			header = false
			continue
		}
		p, err := parseProfileRow(row)
		if err != nil {
			return nil, &ConfigError{Source: source, Line: line, Err: err}
		}
		profiles = append(profiles, p)
	}
	return NewRegionIndex(rng, profiles...), nil
}

func parseProfileRow(row []string) (*LanguageProfile, error) {
	if len(row) < 2 {
		return nil, fmt.Errorf("expected language and group, got %d fields", len(row))
	}
	name := strings.TrimSpace(row[0])
	if name == "" {
		return nil, errors.New("empty language name")
	}

	var coords []float64
	for _, cell := range row[2:] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("language %q: bad coordinate %q: %w", name, cell, err)
		}
		coords = append(coords, v)
	}
	if len(coords)%4 != 0 {
		return nil, fmt.Errorf("language %q: %d coordinates is not a multiple of 4", name, len(coords))
	}

	regions := make([]Region, 0, len(coords)/4)
	for i := 0; i < len(coords); i += 4 {
		regions = append(regions, NewRegion(coords[i], coords[i+1], coords[i+2], coords[i+3]))
	}
	return NewLanguageProfile(name, row[1], regions), nil
}

// NormalizeLanguage lower-cases a language name and strips spaces and
// hyphens, so "Old English", "old-english" and "oldenglish" are one key.
func NormalizeLanguage(name string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.ToLower(name))
}

func (idx *RegionIndex) lookup(name string) (*LanguageProfile, bool) {
	p, ok := idx.profiles[NormalizeLanguage(name)]
	return p, ok
}

// Len returns the number of listed languages.
func (idx *RegionIndex) Len() int { return len(idx.profiles) }

// IsListed reports whether the language has at least one region.
func (idx *RegionIndex) IsListed(name string) bool {
	_, ok := idx.lookup(name)
	return ok
}

// Group returns the language's group label.
func (idx *RegionIndex) Group(name string) (string, bool) {
	p, ok := idx.lookup(name)
	if !ok {
		return "", false
	}
	return p.Group, true
}

// Regions returns the language's regions in source order.
func (idx *RegionIndex) Regions(name string) ([]Region, bool) {
	p, ok := idx.lookup(name)
	if !ok {
		return nil, false
	}
	return p.Regions, true
}

// Centre returns the centre of the language's first region.
func (idx *RegionIndex) Centre(name string) (Point, bool) {
	p, ok := idx.lookup(name)
	if !ok {
		return Point{}, false
	}
	return p.Regions[0].Centre(), true
}

// RandomPoint draws a point inside the language's regions, picking a region
// in proportion to its weight. decimalPlaces > 0 rounds both coordinates.
func (idx *RegionIndex) RandomPoint(name string, decimalPlaces int) (Point, bool) {
	p, ok := idx.lookup(name)
	if !ok {
		return Point{}, false
	}
	return p.randomPoint(idx.rng).Round(decimalPlaces), true
}

// Suggest returns the listed language whose normalized name is closest to
// name, if any lies within a small edit distance. Ties go to the
// alphabetically first name.
func (idx *RegionIndex) Suggest(name string) (string, bool) {
	key := NormalizeLanguage(name)
	if key == "" {
		return "", false
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, k := range idx.keys {
		if d := levenshtein.ComputeDistance(key, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	if best == "" {
		return "", false
	}
	return idx.profiles[best].Name, true
}
