package twominute

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
)

// Overrides maps an entry ID to the language that replaces the one given
// in the source data.
type Overrides map[string]string

// LoadOverridesFile reads an override CSV from path.
func LoadOverridesFile(path string) (Overrides, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening language overrides: %w", err)
	}
	defer fi.Close()
	return LoadOverrides(fi, path)
}

// LoadOverrides reads "id, language" rows.
func LoadOverrides(r io.Reader, source string) (Overrides, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	o := Overrides{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		id, lang := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if id == "" || lang == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%s line %d: empty id or language", source, line)
		}
		o[id] = lang
	}
	return o, nil
}

// EtymologyRecord is the slice of a dictionary entry needed to decide
// whether its language should be narrowed to a dialect.
type EtymologyRecord struct {
	ID         string
	Language   string // breadcrumb, e.g. "European languages/Romance/Spanish"
	Etymology  string
	Definition string
}

// LoadEtymologyRecordsFile reads an etymology CSV from path.
func LoadEtymologyRecordsFile(path string) ([]EtymologyRecord, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening etymologies: %w", err)
	}
	defer fi.Close()
	return LoadEtymologyRecords(fi, path)
}

// LoadEtymologyRecords reads "id, language, etymology, definition" rows.
// The definition column may be left off.
func LoadEtymologyRecords(r io.Reader, source string) ([]EtymologyRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []EtymologyRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		if len(row) < 3 || len(row) > 4 || strings.TrimSpace(row[0]) == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%s line %d: expected id, language, etymology[, definition]", source, line)
		}
		rec := EtymologyRecord{
			ID:        strings.TrimSpace(row[0]),
			Language:  strings.TrimSpace(row[1]),
			Etymology: row[2],
		}
		if len(row) == 4 {
			rec.Definition = row[3]
		}
		records = append(records, rec)
	}
	return records, nil
}

// Merge returns o with the entries of other added; other wins on a clash.
func (o Overrides) Merge(other Overrides) Overrides {
	out := make(Overrides, len(o)+len(other))
	maps.Copy(out, o)
	maps.Copy(out, other)
	return out
}

// BuildOverrides runs DeduceDialect over records and keeps the hits.
func BuildOverrides(records []EtymologyRecord) Overrides {
	o := Overrides{}
	for _, r := range records {
		if r.Language == "" {
			continue
		}
		parts := strings.Split(r.Language, "/")
		if d := DeduceDialect(parts[len(parts)-1], r.Etymology, r.Definition); d != "" {
			o[r.ID] = d
		}
	}
	return o
}

type dialectRule struct {
	base      string
	indicator string
	dialect   string // empty means the indicator itself
}

var dialectRules = []dialectRule{
	{"Spanish", "South American Spanish", ""},
	{"Spanish", "Central American Spanish", ""},
	{"Spanish", "American Spanish", ""},
	{"Spanish", "Spanish (originally American)", "American Spanish"},
	{"Spanish", "Spanish (American)", "American Spanish"},
	{"Spanish", "Mexican Spanish", ""},
	{"Spanish", "Spanish (originally Mexican)", "Mexican Spanish"},
	{"Portuguese", "Brazilian Portuguese", ""},
	{"Dutch", "South African Dutch", ""},
}

// contextMarkers narrow "American Spanish" using words from the etymology
// or definition. Checked in order.
var contextMarkers = []struct {
	dialect string
	markers []string
}{
	{"South American Spanish", []string{"Quechua", "South America", "S. America", "Galibi",
		"Peru", "Argentin", "Chile", "Bolivia", "Guyan", "Guarani", "Andes", "Andean"}},
	{"Mexican Spanish", []string{"Mexic", "Aztec", "Nahuatl", "Texas"}},
	{"Central American Spanish", []string{"Maya", "Taino", "Carib", "El Salvador"}},
	{"North American Spanish", []string{"California"}},
}

var oldEnglishMarkers = []string{"Old English", "Early Middle English",
	"Northumbrian", "Mercian", "Anglian", "Anglo-Saxon", "Kentish"}

var cognatePrefixes = []string{"Cognate with", "Compare ", "Originally cognate"}

// DeduceDialect returns a narrower language for an entry, or "" to keep
// the one it has. Spanish, Portuguese and Dutch may become a regional
// dialect; Germanic entries that look Old English become West Germanic.
func DeduceDialect(language, etymology, definition string) string {
	switch language {
	case "Spanish", "Portuguese", "Dutch":
		return findDialect(language, etymology, definition)
	case LanguageGermanic, LanguageWestGermanic:
		return checkOldEnglish(etymology)
	}
	return ""
}

func findDialect(language, etymology, definition string) string {
	found := ""
	head := prefix(etymology, 50)
	for _, r := range dialectRules {
		if language == r.base && strings.Contains(head, r.indicator) {
			found = r.dialect
			if found == "" {
				found = r.indicator
			}
			break
		}
	}
	if found == "American Spanish" {
		if d := dialectFromContext(prefix(etymology, 100)); d != "" {
			return d
		}
		if d := dialectFromContext(prefix(definition, 100)); d != "" {
			return d
		}
	}
	return found
}

func dialectFromContext(text string) string {
	for _, cm := range contextMarkers {
		for _, m := range cm.markers {
			if strings.Contains(text, m) {
				return cm.dialect
			}
		}
	}
	return ""
}

func checkOldEnglish(etymology string) string {
	head := prefix(etymology, 700)
	for _, m := range oldEnglishMarkers {
		if strings.Contains(head, m) {
			return LanguageWestGermanic
		}
	}
	for _, p := range cognatePrefixes {
		if strings.HasPrefix(head, p) {
			return LanguageWestGermanic
		}
	}
	return ""
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
