package store

import (
	"errors"
	"fmt"
	"strings"

	"crepulse/internal/article"
)

var ErrUnknownSource = errors.New("unknown source")

// Descriptor captures the per-source table shape. The three sites share a
// core column set but differ at the edges (author_title, image_url, source
// tag), so the repo is generic over a descriptor instead of duplicating one
// repo per site.
type Descriptor struct {
	Table   string
	Columns []string
}

var descriptors = map[article.Source]Descriptor{
	article.SourceCREDaily: {
		Table:   "credaily_articles",
		Columns: []string{"title", "link", "summary", "author", "date", "categories", "content"},
	},
	article.SourceMultifamilyDive: {
		Table:   "multifamilydive_articles",
		Columns: []string{"title", "link", "summary", "author", "author_title", "date", "categories", "content", "source"},
	},
	article.SourceMultihousing: {
		Table:   "multihousing_articles",
		Columns: []string{"title", "link", "summary", "author", "date", "categories", "image_url", "content"},
	},
}

// ForSource returns the table descriptor registered for a source.
func ForSource(src article.Source) (Descriptor, error) {
	d, ok := descriptors[src]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownSource, src)
	}
	return d, nil
}

// CreateSQL renders the idempotent table definition. Identity (id) and
// created_at are always present and never named in Columns.
func (d Descriptor) CreateSQL() string {
	defs := make([]string, 0, len(d.Columns)+2)
	defs = append(defs, "id SERIAL PRIMARY KEY")
	for _, col := range d.Columns {
		switch col {
		case "title":
			defs = append(defs, "title TEXT NOT NULL")
		case "link":
			defs = append(defs, "link TEXT UNIQUE NOT NULL")
		default:
			defs = append(defs, col+" TEXT")
		}
	}
	defs = append(defs, "created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP")
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.Table, strings.Join(defs, ", "))
}

// UpsertSQL renders insert-or-update keyed on link. Every mutable column is
// overwritten on conflict; id and created_at are preserved so the original
// ingestion timestamp survives re-scrapes. The row id comes back so callers
// can reference the record downstream.
func (d Descriptor) UpsertSQL() string {
	placeholders := make([]string, len(d.Columns))
	updates := make([]string, 0, len(d.Columns)-1)
	for i, col := range d.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if col != "link" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (link) DO UPDATE SET %s RETURNING id",
		d.Table,
		strings.Join(d.Columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "))
}

// Values extracts the column tuple for an article, in Columns order.
func (d Descriptor) Values(a *article.Article) []any {
	vals := make([]any, len(d.Columns))
	for i, col := range d.Columns {
		vals[i] = columnValue(a, col)
	}
	return vals
}

func columnValue(a *article.Article, col string) any {
	switch col {
	case "title":
		return a.Title
	case "link":
		return a.Link
	case "summary":
		return a.Summary
	case "author":
		return a.Author
	case "author_title":
		return a.AuthorTitle
	case "date":
		return a.Date
	case "categories":
		return article.JoinCategories(a.Categories)
	case "image_url":
		return a.ImageURL
	case "content":
		return a.Content
	case "source":
		return string(a.Source)
	}
	return nil
}
