package tables

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/talent-query/internal/schemas"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

//go:embed defaults/*.json
var defaultFS embed.FS

// Table data file names, looked up under the configured tables directory.
const (
	DictionaryFile    = "tech_dictionary.json"
	NormalizationFile = "normalization_map.json"
	LocationsFile     = "locations.json"
	AvailabilityFile  = "availability.json"
	KeywordsFile      = "keywords.json"
)

var structValidator = validator.New()

// Load reads the lookup tables from dir. A file missing from dir falls back
// to the embedded default of the same name; dir may be empty to load the
// defaults only. Every file is checked against its JSON Schema before
// decoding, and the decoded tables are cross-checked for contradictions
// before the derived scan indexes are built. Any failure aborts the load;
// a *ConfigError names the offending file.
func Load(dir string) (*Tables, error) {
	t := &Tables{}
	if err := loadFile(dir, DictionaryFile, &t.Dictionary); err != nil {
		return nil, err
	}
	if err := loadFile(dir, NormalizationFile, &t.Normalization); err != nil {
		return nil, err
	}
	if err := loadFile(dir, LocationsFile, &t.Locations); err != nil {
		return nil, err
	}
	if err := loadFile(dir, AvailabilityFile, &t.Availability); err != nil {
		return nil, err
	}
	if err := loadFile(dir, KeywordsFile, &t.Keywords); err != nil {
		return nil, err
	}

	if err := structValidator.Struct(t.Dictionary); err != nil {
		return nil, &ConfigError{File: DictionaryFile, Message: "invalid dictionary structure", Cause: err}
	}
	if err := structValidator.Struct(t.Availability); err != nil {
		return nil, &ConfigError{File: AvailabilityFile, Message: "invalid availability keywords", Cause: err}
	}
	if err := structValidator.Struct(t.Keywords); err != nil {
		return nil, &ConfigError{File: KeywordsFile, Message: "invalid requirement keywords", Cause: err}
	}
	if err := t.crossCheck(); err != nil {
		return nil, err
	}

	t.finalize()
	return t, nil
}

// loadFile reads and schema-validates one table file into out. The schema is
// embedded next to the defaults and shares the file's base name.
func loadFile(dir, name string, out any) error {
	data, err := readTableFile(dir, name)
	if err != nil {
		return err
	}
	schemaName := strings.TrimSuffix(name, ".json") + ".schema.json"
	schema, err := schemaFS.ReadFile("schemas/" + schemaName)
	if err != nil {
		return &ConfigError{File: name, Message: "embedded schema missing", Cause: err}
	}
	if err := schemas.ValidateJSONString(schemaName, string(schema), string(data)); err != nil {
		return &ConfigError{File: name, Message: "schema validation failed", Cause: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ConfigError{File: name, Message: "malformed JSON", Cause: err}
	}
	return nil
}

func readTableFile(dir, name string) ([]byte, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, &ConfigError{File: name, Message: "unreadable table file", Cause: err}
		}
	}
	data, err := defaultFS.ReadFile("defaults/" + name)
	if err != nil {
		return nil, &ConfigError{File: name, Message: "no table file and no embedded default", Cause: err}
	}
	return data, nil
}

// crossCheck rejects table sets that are individually well-formed but
// mutually contradictory: duplicate canonical names, category members with no
// dictionary entry, technologies pointing at undefined categories, and
// normalization targets that resolve to nothing.
func (t *Tables) crossCheck() error {
	seenTech := make(map[string]string, len(t.Dictionary.Technologies))
	for name := range t.Dictionary.Technologies {
		lower := strings.ToLower(name)
		if prev, ok := seenTech[lower]; ok {
			return &ConfigError{
				File:    DictionaryFile,
				Message: fmt.Sprintf("technologies %q and %q differ only by case", prev, name),
			}
		}
		seenTech[lower] = name
	}

	catNames := make(map[string]bool, len(t.Dictionary.Categories))
	for _, cat := range t.Dictionary.Categories {
		lower := strings.ToLower(cat.Name)
		if catNames[lower] {
			return &ConfigError{
				File:    DictionaryFile,
				Message: fmt.Sprintf("duplicate category %q", cat.Name),
			}
		}
		catNames[lower] = true
		for _, member := range cat.Technologies {
			if _, ok := t.Dictionary.Technologies[member]; !ok {
				return &ConfigError{
					File:    DictionaryFile,
					Message: fmt.Sprintf("category %q lists undefined technology %q", cat.Name, member),
				}
			}
		}
	}

	for name, tech := range t.Dictionary.Technologies {
		if !catNames[strings.ToLower(tech.Category)] {
			return &ConfigError{
				File:    DictionaryFile,
				Message: fmt.Sprintf("technology %q references undefined category %q", name, tech.Category),
			}
		}
	}

	for alias, target := range t.Normalization {
		if strings.TrimSpace(alias) == "" {
			return &ConfigError{File: NormalizationFile, Message: "empty normalization alias"}
		}
		if _, ok := seenTech[strings.ToLower(target)]; !ok {
			return &ConfigError{
				File:    NormalizationFile,
				Message: fmt.Sprintf("alias %q maps to undefined technology %q", alias, target),
			}
		}
	}

	for i, loc := range t.Locations {
		if strings.TrimSpace(loc) == "" {
			return &ConfigError{File: LocationsFile, Message: fmt.Sprintf("empty location at index %d", i)}
		}
	}
	return nil
}
