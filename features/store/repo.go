// Package store persists normalized article records, one Postgres table per
// source, with idempotent upsert-by-link semantics.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"crepulse/internal/article"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// EnsureSchema creates the source's table if it is absent. Safe to call on
// every run.
func (r *PostgresRepo) EnsureSchema(ctx context.Context, src article.Source) error {
	d, err := ForSource(src)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, d.CreateSQL()); err != nil {
		return fmt.Errorf("ensure schema for %s: %w", src, err)
	}
	return nil
}

// Upsert inserts a record or, when a row with the same link exists,
// overwrites every mutable field, and sets a.ID from the stored row. Each
// record runs in its own transaction so one bad record never poisons its
// neighbors.
func (r *PostgresRepo) Upsert(ctx context.Context, a *article.Article) error {
	d, err := ForSource(a.Source)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	if err := tx.QueryRowContext(ctx, d.UpsertSQL(), d.Values(a)...).Scan(&a.ID); err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert %s: %w", a.Link, err)
	}
	return tx.Commit()
}

// UpsertBatch applies Upsert to each record independently, setting each
// successful record's ID in place. Partial success is the expected outcome;
// the caller inspects the tally.
func (r *PostgresRepo) UpsertBatch(ctx context.Context, records []article.Article) article.BatchResult {
	result := article.BatchResult{Attempted: len(records)}
	for i := range records {
		if err := r.Upsert(ctx, &records[i]); err != nil {
			slog.Warn("record upsert failed", "source", records[i].Source, "link", records[i].Link, "error", err)
			result.Failures = append(result.Failures, article.RecordFailure{Link: records[i].Link, Err: err})
			continue
		}
		result.Succeeded++
	}
	return result
}

// fetchColumns is the column set shared by every source table, used for
// paginated reads feeding the embedding batch.
const fetchColumns = "id, title, summary, content, link, author, date, categories, created_at"

// FetchPage returns records in insertion order (primary key) for downstream
// batch embedding.
func (r *PostgresRepo) FetchPage(ctx context.Context, src article.Source, limit, offset int) ([]article.Article, error) {
	d, err := ForSource(src)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id LIMIT $1 OFFSET $2", fetchColumns, d.Table)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch page from %s: %w", d.Table, err)
	}
	defer rows.Close()

	var records []article.Article
	for rows.Next() {
		var a article.Article
		var categories string
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.Content, &a.Link, &a.Author, &a.Date, &categories, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Categories = article.SplitCategories(categories)
		a.Source = src
		records = append(records, a)
	}
	return records, rows.Err()
}

// Count reports the number of stored records for a source.
func (r *PostgresRepo) Count(ctx context.Context, src article.Source) (int, error) {
	d, err := ForSource(src)
	if err != nil {
		return 0, err
	}
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.Table)
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
