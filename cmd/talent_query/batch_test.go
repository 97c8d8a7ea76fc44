package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := "Python developer in Bangalore\n\n# comment line\nNeed 3 years of Java\n   \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	queries, err := readQueries(path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Python developer in Bangalore",
		"Need 3 years of Java",
	}, queries)
}

func TestReadQueries_MissingFile(t *testing.T) {
	queries, err := readQueries("/nonexistent/queries.txt")
	assert.Error(t, err)
	assert.Nil(t, queries)
}
