package twominute

import (
	"fmt"
	"math/rand"
	"testing"
)

func compassResources(t *testing.T, seed int64) *Resources {
	return pointResources(t, seed, map[string]Point{
		"North": {Lat: 70, Lon: 0},
		"South": {Lat: -40, Lon: 5},
		"East":  {Lat: 10, Lon: 120},
		"West":  {Lat: 15, Lon: -90},
		"Mid":   {Lat: 40, Lon: 10},
		"Top":   {Lat: 85, Lon: 0},
	})
}

func compassEntries(res *Resources) []*Entry {
	entries := []*Entry{
		NewEntry(res, "north", "north", 1200, 5, 1, "North"),
		NewEntry(res, "south", "south", 1200, 4, 1, "South"),
		NewEntry(res, "east", "east", 1200, 3, 1, "East"),
		NewEntry(res, "west", "west", 1200, 2, 1, "West"),
	}
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("mid%d", i)
		entries = append(entries, NewEntry(res, id, id, 1200, 1, 1, "Mid"))
	}
	return entries
}

func TestSelectBeforeAnimationStart(t *testing.T) {
	res := compassResources(t, 1)
	s := NewExampleSelector(1150, rand.New(rand.NewSource(1)))
	for _, year := range []int{800, 1149, 1150} {
		if got := s.Select(compassEntries(res), year); len(got) != 0 {
			t.Errorf("year %d: got %d examples, want none", year, len(got))
		}
	}
	if got := s.Select(compassEntries(res), 1151); len(got) == 0 {
		t.Error("year 1151: got no examples")
	}
}

func TestSelectEmpty(t *testing.T) {
	s := NewExampleSelector(1150, rand.New(rand.NewSource(1)))
	if got := s.Select(nil, 1500); len(got) != 0 {
		t.Errorf("got %d examples from nothing", len(got))
	}
}

func TestSelectIncludesExtremes(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		res := compassResources(t, seed)
		entries := compassEntries(res)
		got := NewExampleSelector(1150, rand.New(rand.NewSource(seed))).Select(entries, 1200)

		for _, e := range entries[:4] {
			if !got.Contains(e) {
				t.Fatalf("seed %d: %s missing from %v", seed, e.ID, got.Sorted())
			}
		}
		if len(got) > 7 {
			t.Fatalf("seed %d: got %d examples, want at most 7", seed, len(got))
		}
	}
}

func TestSelectSkipsHighFrequency(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		res := compassResources(t, seed)
		entries := compassEntries(res)
		var common []*Entry
		for i := 0; i < 10; i++ {
			id := fmt.Sprintf("common%d", i)
			common = append(common, NewEntry(res, id, id, 1200, float64(100+i), 1, "Top"))
		}
		for i := 0; i < 7; i++ {
			id := fmt.Sprintf("extra%d", i)
			entries = append(entries, NewEntry(res, id, id, 1200, 0.5, 1, "Mid"))
		}
		entries = append(entries, common...)

		got := NewExampleSelector(1150, rand.New(rand.NewSource(seed))).Select(entries, 1300)
		for _, e := range common {
			if got.Contains(e) {
				t.Fatalf("seed %d: high-frequency entry %s selected", seed, e.ID)
			}
		}
		north := entries[0]
		if !got.Contains(north) {
			t.Fatalf("seed %d: northernmost remaining entry missing", seed)
		}
	}
}

func TestSelectElevenEntryPool(t *testing.T) {
	// Only the single most frequent entry is set aside.
	res := compassResources(t, 3)
	entries := compassEntries(res)
	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("extra%d", i)
		entries = append(entries, NewEntry(res, id, id, 1200, 0.5, 1, "Mid"))
	}
	top := NewEntry(res, "top", "top", 1200, 1000, 1, "Top")
	entries = append(entries, top)
	if len(entries) != 11 {
		t.Fatalf("pool has %d entries", len(entries))
	}

	for seed := int64(0); seed < 20; seed++ {
		got := NewExampleSelector(1150, rand.New(rand.NewSource(seed))).Select(entries, 1300)
		if got.Contains(top) {
			t.Fatal("most frequent entry selected")
		}
		if !got.Contains(entries[0]) {
			t.Fatal("north entry missing")
		}
	}
}

func TestSelectSmallPools(t *testing.T) {
	res := compassResources(t, 4)
	one := []*Entry{NewEntry(res, "solo", "solo", 1200, 1, 1, "Mid")}
	got := NewExampleSelector(1150, rand.New(rand.NewSource(4))).Select(one, 1200)
	if len(got) != 1 || !got.Contains(one[0]) {
		t.Errorf("single entry pool gave %v", got.Sorted())
	}

	two := compassEntries(res)[:2]
	got = NewExampleSelector(1150, rand.New(rand.NewSource(4))).Select(two, 1200)
	if len(got) != 2 {
		t.Errorf("two entry pool gave %d examples", len(got))
	}
}

func TestSelectUnplacedPool(t *testing.T) {
	res := compassResources(t, 5)
	entries := []*Entry{
		NewEntry(res, "a", "a", 1200, 1, 1, "Klingon"),
		NewEntry(res, "b", "b", 1200, 1, 1, "Klingon"),
	}
	got := NewExampleSelector(1150, rand.New(rand.NewSource(5))).Select(entries, 1200)
	if len(got) < 1 || len(got) > 2 {
		t.Errorf("got %d examples, want 1 or 2", len(got))
	}
}

func TestExtremesTiesPickFirst(t *testing.T) {
	res := compassResources(t, 6)
	first := NewEntry(res, "first", "first", 1200, 1, 1, "Top")
	second := NewEntry(res, "second", "second", 1200, 1, 1, "Top")
	south := NewEntry(res, "south", "south", 1200, 1, 1, "South")

	got := extremes([]*Entry{first, second, south})
	if len(got) != 4 {
		t.Fatalf("got %d extremes, want 4", len(got))
	}
	if got[0] != first {
		t.Errorf("north = %s, want first", got[0].ID)
	}
	if got[1] != south {
		t.Errorf("south = %s, want south", got[1].ID)
	}
	if got[2] != south || got[3] != first {
		t.Errorf("east, west = %s, %s; want south, first", got[2].ID, got[3].ID)
	}

	if extremes([]*Entry{NewEntry(res, "x", "x", 1200, 1, 1, "Klingon")}) != nil {
		t.Error("unplaced pool has extremes")
	}
}

func TestExampleSetSorted(t *testing.T) {
	s := ExampleSet{}
	s[Example{ID: "b", Lemma: "x"}] = struct{}{}
	s[Example{ID: "a", Lemma: "z"}] = struct{}{}
	s[Example{ID: "a", Lemma: "y"}] = struct{}{}
	got := s.Sorted()
	want := []Example{{"a", "y"}, {"a", "z"}, {"b", "x"}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sorted()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
