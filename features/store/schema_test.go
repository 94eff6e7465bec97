package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crepulse/features/store"
	"crepulse/internal/article"
)

func TestForSource(t *testing.T) {
	for _, src := range article.Sources() {
		d, err := store.ForSource(src)
		require.NoError(t, err)
		assert.Equal(t, string(src)+"_articles", d.Table)
		assert.Contains(t, d.Columns, "link")
		assert.Contains(t, d.Columns, "title")
	}

	_, err := store.ForSource(article.Source("nope"))
	assert.ErrorIs(t, err, store.ErrUnknownSource)
}

func TestDescriptorCreateSQL(t *testing.T) {
	d, err := store.ForSource(article.SourceCREDaily)
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS credaily_articles (id SERIAL PRIMARY KEY, title TEXT NOT NULL, link TEXT UNIQUE NOT NULL, summary TEXT, author TEXT, date TEXT, categories TEXT, content TEXT, created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)",
		d.CreateSQL())
}

func TestDescriptorUpsertSQL(t *testing.T) {
	d, err := store.ForSource(article.SourceCREDaily)
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO credaily_articles (title, link, summary, author, date, categories, content) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (link) DO UPDATE SET title = EXCLUDED.title, summary = EXCLUDED.summary, author = EXCLUDED.author, date = EXCLUDED.date, categories = EXCLUDED.categories, content = EXCLUDED.content RETURNING id",
		d.UpsertSQL())
}

func TestDescriptorValues(t *testing.T) {
	d, err := store.ForSource(article.SourceMultifamilyDive)
	require.NoError(t, err)

	a := &article.Article{
		Title:       "T",
		Link:        "https://example.com/a",
		Summary:     "S",
		Author:      "A",
		AuthorTitle: "Reporter",
		Date:        "June 1, 2025",
		Categories:  []string{"Finance", "Policy"},
		Content:     "Body",
		Source:      article.SourceMultifamilyDive,
	}

	vals := d.Values(a)
	require.Len(t, vals, len(d.Columns))
	assert.Equal(t, "T", vals[0])
	assert.Equal(t, "https://example.com/a", vals[1])
	assert.Equal(t, "Reporter", vals[4])
	assert.Equal(t, "Finance,Policy", vals[6])
	assert.Equal(t, "multifamilydive", vals[8])
}
