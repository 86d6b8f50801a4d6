package twominute

import (
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testEntriesCSV = `aqua,aqua_n01,1050,3.5,5,Latin
vin,borrowed,vin_n01,1200,2,4,French
house,house_n01,900,100,8,English
old,old_n01,400,1,1,Latin
thing,thing_n01,1000,1,1,Germanic
mystery,mystery_n01,1300,0.5,2,unspecified
kimono,kimono_n01,1876,0.2,3,Japanese
`

func ids(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestLoadCollectionFilters(t *testing.T) {
	tests := []struct {
		name      string
		filters   Filters
		overrides Overrides
		want      []string
	}{
		{
			name: "defaults",
			want: []string{"aqua_n01", "vin_n01", "kimono_n01"},
		},
		{
			name:    "everything",
			filters: Filters{IncludeEnglish: true, IncludeGermanic: true, IncludeUnspecified: true},
			want:    []string{"aqua_n01", "vin_n01", "house_n01", "thing_n01", "mystery_n01", "kimono_n01"},
		},
		{
			name:    "english only",
			filters: Filters{IncludeEnglish: true},
			want:    []string{"aqua_n01", "vin_n01", "house_n01", "kimono_n01"},
		},
		{
			name:      "override rescues a germanic entry",
			overrides: Overrides{"thing_n01": "Old English"},
			want:      []string{"aqua_n01", "vin_n01", "thing_n01", "kimono_n01"},
		},
		{
			name:      "override into an excluded language",
			overrides: Overrides{"aqua_n01": "West Germanic"},
			want:      []string{"vin_n01", "kimono_n01"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadCollection(strings.NewReader(testEntriesCSV), "entries.csv", testResources(t, 1), tt.filters, tt.overrides)
			if err != nil {
				t.Fatalf("LoadCollection: %v", err)
			}
			got := ids(c.Entries())
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
			if c.Len() != len(tt.want) {
				t.Errorf("Len = %d, want %d", c.Len(), len(tt.want))
			}
		})
	}
}

func TestLoadCollectionSevenColumns(t *testing.T) {
	c, err := LoadCollection(strings.NewReader(testEntriesCSV), "entries.csv", testResources(t, 1), Filters{}, nil)
	if err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	vin := c.Entries()[1]
	if vin.Lemma != "vin" || vin.ID != "vin_n01" || vin.Year != 1200 || vin.Frequency != 2 || vin.Band != 4 || vin.Language != "French" {
		t.Errorf("seven-column row parsed as %+v", vin)
	}
}

func TestLoadCollectionMalformed(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"bad year", "aqua,aqua_n01,1050,1,1,Latin\naqua,aqua_n02,soon,1,1,Latin\n", "line 2"},
		{"too few fields", "aqua,aqua_n01,1050,1,1\n", "6 or 7 fields"},
		{"bad frequency", "aqua,aqua_n01,1050,lots,1,Latin\n", "frequency"},
		{"negative frequency", "aqua,aqua_n01,1050,-2,1,Latin\n", "negative"},
		{"bad band", "aqua,aqua_n01,1050,1,x,Latin\n", "band"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadCollection(strings.NewReader(tt.csv), "entries.csv", testResources(t, 1), Filters{}, nil)
			if err == nil {
				t.Fatalf("got %d entries, want error", c.Len())
			}
			if !strings.Contains(err.Error(), tt.want) || !strings.Contains(err.Error(), "entries.csv") {
				t.Errorf("err = %q, want mention of %q and the source", err, tt.want)
			}
		})
	}
}

func TestLoadCollectionLogsUnlistedLanguages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	res := testResources(t, 1)
	res.Logger = zap.New(core).Sugar()

	data := "a,a_n01,1100,1,1,Lattin\nb,b_n01,1100,1,1,Lattin\nc,c_n01,1100,1,1,Klingon\n"
	if _, err := LoadCollection(strings.NewReader(data), "entries.csv", res, Filters{}, nil); err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}

	unlisted := logs.FilterMessage("language has no regions").All()
	if len(unlisted) != 2 {
		t.Fatalf("got %d unlisted-language messages, want 2", len(unlisted))
	}
	if got := unlisted[0].ContextMap()["closest"]; got != "Latin" {
		t.Errorf("closest = %v, want Latin", got)
	}
	if _, ok := unlisted[1].ContextMap()["closest"]; ok {
		t.Errorf("Klingon should have no suggestion")
	}
	if n := logs.FilterMessage("loaded entries").Len(); n != 1 {
		t.Errorf("got %d summary messages, want 1", n)
	}
}

func TestGroupByDitheredYear(t *testing.T) {
	res := testResources(t, 1)
	c := NewCollection(res,
		NewEntry(res, "c", "c", 1300, 1, 1, "Latin"),
		NewEntry(res, "a", "a", 1100, 1, 1, "Latin"),
		NewEntry(res, "d", "d", 1300, 1, 1, "Greek"),
		NewEntry(res, "b", "b", 1100, 1, 1, "Greek"),
		NewEntry(res, "e", "e", 1200, 1, 1, "French"),
	)
	groups := c.GroupByDitheredYear()
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	want := []struct {
		year int
		ids  string
	}{
		{1100, "a,b"},
		{1200, "e"},
		{1300, "c,d"},
	}
	for i, w := range want {
		if groups[i].Year != w.year {
			t.Errorf("group %d year = %d, want %d", i, groups[i].Year, w.year)
		}
		if got := strings.Join(ids(groups[i].Entries), ","); got != w.ids {
			t.Errorf("group %d = %s, want %s", i, got, w.ids)
		}
	}
	// load order is untouched
	if got := strings.Join(ids(c.Entries()), ","); got != "c,a,d,b,e" {
		t.Errorf("Entries = %s", got)
	}
}

func TestCumulativeFrequency(t *testing.T) {
	res := testResources(t, 1)
	c := NewCollection(res,
		NewEntry(res, "a", "a", 1000, 2, 1, "Latin"),
		NewEntry(res, "b", "b", 1050, 1, 1, "Greek"),
		NewEntry(res, "c", "c", 1050, 3, 1, "Latin"),
	)

	tests := []struct {
		year  int
		latin float64
		greek float64
	}{
		{999, 0, 0},
		{1000, 2, 0},
		{1049, 2, 0},
		{1050, 5, 1},
		{1149, 5, 1},
		{1150, 0, 0},
	}
	for _, tt := range tests {
		if got := c.CumulativeFrequency(tt.year, "latin"); got != tt.latin {
			t.Errorf("latin at %d = %v, want %v", tt.year, got, tt.latin)
		}
		if got := c.CumulativeFrequency(tt.year, "greek"); got != tt.greek {
			t.Errorf("greek at %d = %v, want %v", tt.year, got, tt.greek)
		}
	}
	if got := c.CumulativeTotal(1050); got != 6 {
		t.Errorf("CumulativeTotal(1050) = %v, want 6", got)
	}

	c.Add(NewEntry(res, "d", "d", 1120, 4, 1, "Latin"))
	if got := c.CumulativeFrequency(1150, "latin"); got != 9 {
		t.Errorf("after Add, latin at 1150 = %v, want 9", got)
	}

	c.Filter(func(e *Entry) bool { return e.Language != "Greek" })
	if got := c.CumulativeFrequency(1120, "greek"); got != 0 {
		t.Errorf("after Filter, greek at 1120 = %v, want 0", got)
	}
	if c.Len() != 3 {
		t.Errorf("after Filter, Len = %d, want 3", c.Len())
	}
}

func TestEntryLanguageGroup(t *testing.T) {
	res := testResources(t, 1)
	tests := []struct {
		language string
		group    string
		initial  string
	}{
		{"English", "english", "e"},
		{"unspecified", "unspecified", "u"},
		{"Latin", "latin", "l"},
		{"old english", "germanic", "g"},
		{"Greek", "greek", "k"},
		{"Japanese", "other", "o"},
		{"Klingon", "", ""},
	}
	for _, tt := range tests {
		e := NewEntry(res, "x", "x", 1200, 1, 1, tt.language)
		if got := e.LanguageGroup(); got != tt.group {
			t.Errorf("LanguageGroup(%s) = %q, want %q", tt.language, got, tt.group)
		}
		if got := e.GroupInitial(); got != tt.initial {
			t.Errorf("GroupInitial(%s) = %q, want %q", tt.language, got, tt.initial)
		}
	}
}

func TestEntryCoordinatesAreStable(t *testing.T) {
	res := testResources(t, 9)
	e := NewEntry(res, "x", "x", 1200, 1, 1, "Latin")
	p, ok := e.Coordinates()
	if !ok {
		t.Fatal("Latin entry not placed")
	}
	for i := 0; i < 10; i++ {
		if q, _ := e.Coordinates(); q != p {
			t.Fatalf("coordinates moved from %v to %v", p, q)
		}
	}
	lat, _ := e.Latitude()
	lon, _ := e.Longitude()
	if lat != p.Lat || lon != p.Lon {
		t.Errorf("Latitude/Longitude = %v,%v, want %v", lat, lon, p)
	}

	u := NewEntry(res, "y", "y", 1200, 1, 1, "Klingon")
	if _, ok := u.Coordinates(); ok {
		t.Error("unlisted entry was placed")
	}
	if _, ok := u.Latitude(); ok {
		t.Error("unlisted entry has a latitude")
	}
}

func TestCollectionOwnsItsEntries(t *testing.T) {
	res := testResources(t, 1)
	mine := make([]*Entry, 0, 8)
	mine = append(mine,
		NewEntry(res, "a", "a", 1100, 1, 1, "Latin"),
		NewEntry(res, "b", "b", 1100, 1, 1, "Greek"),
		NewEntry(res, "c", "c", 1100, 1, 1, "Latin"),
	)
	before := slices.Clone(mine)

	c := NewCollection(res, mine...)
	c.Filter(func(e *Entry) bool { return e.Language != "Latin" })
	c.Add(NewEntry(res, "d", "d", 1200, 1, 1, "French"))

	if !slices.Equal(mine, before) {
		t.Errorf("caller's slice changed to %v", ids(mine))
	}
	if got := mine[:cap(mine)][3]; got != nil {
		t.Errorf("Add wrote %s into the caller's spare capacity", got.ID)
	}
	if got := strings.Join(ids(c.Entries()), ","); got != "b,d" {
		t.Errorf("Entries = %s, want b,d", got)
	}
}

func TestCumulativeReturnsCopy(t *testing.T) {
	res := testResources(t, 1)
	c := NewCollection(res, NewEntry(res, "a", "a", 1100, 2, 1, "Latin"))

	got := c.Cumulative(1100)
	got["latin"] = 1000
	got["greek"] = 5

	if v := c.CumulativeFrequency(1100, "latin"); v != 2 {
		t.Errorf("latin at 1100 = %v after writing to a result, want 2", v)
	}
	if v := c.CumulativeTotal(1100); v != 2 {
		t.Errorf("total at 1100 = %v, want 2", v)
	}
	if empty := c.Cumulative(1500); len(empty) != 0 {
		t.Errorf("Cumulative(1500) = %v, want empty", empty)
	}
}
