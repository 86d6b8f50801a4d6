package twominute

import (
	"math/rand"
	"strings"
	"testing"
)

// testCoordinatesCSV has one two-region language with equal weights (Latin)
// and a spread of single-region ones.
const testCoordinatesCSV = `language,group,lat1,lon1,lat2,lon2
Latin,latin,40,10,45,15,40,20,45,25
French,romance,43,-1,50,7,,,,
Old English,germanic,50,-5,55,1
Japanese,other,31,130,45,145
Greek,greek,35,20,41,26
`

func testRegionIndex(t testing.TB, seed int64) *RegionIndex {
	t.Helper()
	idx, err := LoadRegionIndex(strings.NewReader(testCoordinatesCSV), "test", rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("LoadRegionIndex: %v", err)
	}
	return idx
}

// flatDither keeps every year in [MinEntryYear, 2010] exactly as it is.
func flatDither(t testing.TB) *DitherTable {
	t.Helper()
	d, err := NewDitherTable([]DitherPoint{{500, 0}, {2010, 0}}, MinEntryYear, 2010)
	if err != nil {
		t.Fatalf("NewDitherTable: %v", err)
	}
	return d
}

// testResources shares one random source between the index and the entries.
func testResources(t testing.TB, seed int64) *Resources {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	idx, err := LoadRegionIndex(strings.NewReader(testCoordinatesCSV), "test", rng)
	if err != nil {
		t.Fatalf("LoadRegionIndex: %v", err)
	}
	return &Resources{Regions: idx, Dither: flatDither(t), Rand: rng}
}

// pointResources places each named language at one exact point.
func pointResources(t testing.TB, seed int64, points map[string]Point) *Resources {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var profiles []*LanguageProfile
	for name, p := range points {
		profiles = append(profiles, NewLanguageProfile(name, "other", []Region{NewRegion(p.Lat, p.Lon, p.Lat, p.Lon)}))
	}
	return &Resources{Regions: NewRegionIndex(rng, profiles...), Dither: flatDither(t), Rand: rng}
}
