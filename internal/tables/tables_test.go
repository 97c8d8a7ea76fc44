package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	stats := tbl.Stats()
	assert.Greater(t, stats.Categories, 0)
	assert.Greater(t, stats.Technologies, 0)
	assert.Greater(t, stats.NormalizationEntries, 0)
	assert.Greater(t, stats.Locations, 0)
}

func TestNormalizeSkill(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"canonical passes through", "Python", "Python"},
		{"case folds to canonical", "python", "Python"},
		{"typo variant", "Phyton", "Python"},
		{"normalization alias", "golang", "Go"},
		{"multi word variant", "amazon web services", "AWS"},
		{"strips requirement suffix", "python mandatory", "Python"},
		{"strips optional suffix", "sql optional", "SQL"},
		{"unknown passes through folded", "GraphQL", "graphql"},
		{"unknown with suffix", "GraphQL optional", "graphql"},
		{"trims whitespace", "  java  ", "Java"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tbl.NormalizeSkill(tt.raw))
		})
	}
}

func TestNormalizeSkillIdempotent(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	for _, raw := range []string{"Phyton", "js", "SQL Server", "cobol", "python required"} {
		once := tbl.NormalizeSkill(raw)
		assert.Equal(t, once, tbl.NormalizeSkill(once), "normalizing %q twice drifted", raw)
	}
}

func TestScanSkillsLongestFirst(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		text string
		want []string
	}{
		{"javascript and java", []string{"JavaScript", "Java"}},
		{"sql server plus sql", []string{"SQL Server", "SQL"}},
		{"Python developer with AWS", []string{"Python", "AWS"}},
		{"google cloud platform experience", []string{"GCP"}},
		{"no known terms here", nil},
	}
	for _, tt := range tests {
		matches := tbl.ScanSkills(tt.text)
		var got []string
		for _, m := range matches {
			got = append(got, m.Canonical)
		}
		assert.Equal(t, tt.want, got, "text %q", tt.text)
	}
}

func TestScanSkillsWordBoundaries(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	// "Java" must not match inside "JavaScript" or arbitrary words.
	assert.Empty(t, tbl.ScanSkills("javanese literature"))

	matches := tbl.ScanSkills("c++ and .net work")
	var got []string
	for _, m := range matches {
		got = append(got, m.Canonical)
	}
	assert.Equal(t, []string{"C++", "C#"}, got)
}

func TestScanCategories(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	matches := tbl.ScanCategories("cloud technology is added advantage")
	require.Len(t, matches, 1)
	assert.Equal(t, "Cloud Platform", matches[0].Name)
	assert.Equal(t, "cloud technology", matches[0].Raw)

	assert.Empty(t, tbl.ScanCategories("nothing relevant"))
}

func TestScanLocations(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	matches := tbl.ScanLocations("based in Bangalore or New York")
	require.Len(t, matches, 2)
	assert.Equal(t, "bangalore", matches[0].Raw)
	assert.Equal(t, "new york", matches[1].Raw)
}

func TestExpandCategory(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	skills := tbl.ExpandCategory("Cloud Platform")
	assert.Equal(t, []string{"AWS", "Azure", "GCP"}, skills)

	byAlias, ok := tbl.LookupCategory("cloud technologies")
	require.True(t, ok)
	assert.Equal(t, "Cloud Platform", byAlias.Name)

	assert.Nil(t, tbl.ExpandCategory("Quantum"))
}

func TestIsVerbToken(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	assert.True(t, tbl.IsVerbToken("find"))
	assert.True(t, tbl.IsVerbToken("Show"))
	assert.True(t, tbl.IsVerbToken(" looking "))
	assert.False(t, tbl.IsVerbToken("python"))
	assert.False(t, tbl.IsVerbToken("developer"))
}

func TestLoadDirOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LocationsFile, `["Gotham", "Metropolis"]`)

	tbl, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gotham", "Metropolis"}, tbl.Locations)
	// Files absent from the directory still come from the embedded defaults.
	assert.Greater(t, len(tbl.Dictionary.Categories), 0)
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LocationsFile, `[""]`)

	_, err := Load(dir)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, LocationsFile, cfgErr.File)
}

func TestLoadRejectsUndefinedCategoryMember(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DictionaryFile, `{
		"categories": [
			{"name": "Programming Language", "technologies": ["Python", "Fortran"]}
		],
		"technologies": {
			"Python": {"category": "Programming Language"}
		}
	}`)

	_, err := Load(dir)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, DictionaryFile, cfgErr.File)
	assert.Contains(t, cfgErr.Error(), "Fortran")
}

func TestLoadRejectsDanglingNormalizationTarget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, NormalizationFile, `{"ghost": "Phantom"}`)

	_, err := Load(dir)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, NormalizationFile, cfgErr.File)
}

func TestStoreReloadKeepsPreviousOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LocationsFile, `["Gotham"]`)

	store, err := NewStore(dir)
	require.NoError(t, err)
	before := store.Get()
	assert.Equal(t, []string{"Gotham"}, before.Locations)

	writeFile(t, dir, LocationsFile, `not json`)
	_, err = store.Reload()
	require.Error(t, err)
	assert.Same(t, before, store.Get())

	writeFile(t, dir, LocationsFile, `["Metropolis"]`)
	after, err := store.Reload()
	require.NoError(t, err)
	assert.Same(t, after, store.Get())
	assert.Equal(t, []string{"Metropolis"}, after.Locations)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
