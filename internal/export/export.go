// Package export writes scraped records to local files for runs where
// database persistence is switched off.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"crepulse/internal/article"
)

var csvHeader = []string{"title", "link", "summary", "author", "author_title", "date", "categories", "image_url", "content"}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []article.Article) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, a := range records {
		row := []string{
			a.Title,
			a.Link,
			a.Summary,
			a.Author,
			a.AuthorTitle,
			a.Date,
			article.JoinCategories(a.Categories),
			a.ImageURL,
			a.Content,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNDJSON writes one JSON object per line.
func WriteNDJSON(w io.Writer, records []article.Article) error {
	enc := json.NewEncoder(w)
	for _, a := range records {
		if err := enc.Encode(a); err != nil {
			return err
		}
	}
	return nil
}

// SaveAll writes both formats under dir, named by source and crawl date.
// Returns the paths written.
func SaveAll(dir string, src article.Source, records []article.Article) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	stamp := time.Now().Format("2006-01-02")
	var paths []string

	csvPath := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", src, stamp))
	if err := writeFile(csvPath, records, WriteCSV); err != nil {
		return paths, err
	}
	paths = append(paths, csvPath)

	ndjsonPath := filepath.Join(dir, fmt.Sprintf("%s_%s.ndjson", src, stamp))
	if err := writeFile(ndjsonPath, records, WriteNDJSON); err != nil {
		return paths, err
	}
	paths = append(paths, ndjsonPath)

	return paths, nil
}

func writeFile(path string, records []article.Article, write func(io.Writer, []article.Article) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
