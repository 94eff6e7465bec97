package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crepulse/internal/article"
	"crepulse/internal/export"
)

func sampleRecords() []article.Article {
	return []article.Article{
		{
			Title:      "Cap rates tighten",
			Link:       "https://www.credaily.com/briefs/cap-rates",
			Summary:    "Spreads narrowed, again.",
			Author:     "Jane Smith",
			Date:       "August 28, 2026",
			Categories: []string{"Finance", "Markets"},
			Content:    "Full body text.",
			Source:     article.SourceCREDaily,
		},
		{
			Title:  "Rents cool",
			Link:   "https://www.credaily.com/briefs/rents-cool",
			Source: article.SourceCREDaily,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "title", rows[0][0])
	assert.Equal(t, "Cap rates tighten", rows[1][0])
	assert.Equal(t, "Finance,Markets", rows[1][6])
	assert.Equal(t, "Rents cool", rows[2][0])
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteNDJSON(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first article.Article
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Cap rates tighten", first.Title)
	assert.Equal(t, []string{"Finance", "Markets"}, first.Categories)
}

func TestSaveAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")

	paths, err := export.SaveAll(dir, article.SourceCREDaily, sampleRecords())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
		assert.Contains(t, filepath.Base(p), "credaily_")
	}
}
