package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"crepulse/internal/article"
	"crepulse/internal/config"
	"crepulse/internal/middleware"
	"crepulse/internal/worker"
)

type Repo interface {
	UpsertBatch(ctx context.Context, records []article.Article) article.BatchResult
}

type EventPublisher interface {
	Publish(topic string, body []byte) error
}

// Runner crawls one source: listing pages in order, detail pages through a
// bounded pool, persisted a page at a time.
type Runner struct {
	fetcher     Fetcher
	repo        Repo
	pub         EventPublisher
	concurrency int
}

// NewRunner wires a crawl. repo and pub may be nil: without a repo the
// runner only collects, without a publisher no embed events go out.
func NewRunner(fetcher Fetcher, repo Repo, pub EventPublisher, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{fetcher: fetcher, repo: repo, pub: pub, concurrency: concurrency}
}

// Run crawls every listing page up to pages and upserts each page's records
// before moving to the next. A page that fails to fetch or yields nothing is
// logged and skipped: a bot wall or a redesigned page mid-run must not cost
// the pages behind it.
func (r *Runner) Run(ctx context.Context, ext article.Extractor, pages int) (article.BatchResult, error) {
	var result article.BatchResult

	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		records := r.collectPage(ctx, ext, page)
		if len(records) == 0 {
			continue
		}

		if r.repo == nil {
			result.Attempted += len(records)
			result.Succeeded += len(records)
			continue
		}

		res := r.repo.UpsertBatch(ctx, records)
		result.Merge(res)
		r.publishEmbeds(ctx, ext.Source(), records, res)
	}

	slog.InfoContext(ctx, "crawl finished",
		"source", ext.Source(),
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", len(result.Failures))
	return result, nil
}

// Collect crawls like Run but returns the resolved records instead of
// persisting them, for file export runs.
func (r *Runner) Collect(ctx context.Context, ext article.Extractor, pages int) ([]article.Article, error) {
	var all []article.Article
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		all = append(all, r.collectPage(ctx, ext, page)...)
	}
	return all, nil
}

// collectPage fetches one listing page and resolves its articles.
func (r *Runner) collectPage(ctx context.Context, ext article.Extractor, page int) []article.Article {
	src := ext.Source()
	url := ext.ListingURL(page)

	markup, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.WarnContext(ctx, "listing fetch failed, skipping page", "source", src, "page", page, "error", err)
		return nil
	}

	items := ext.ExtractListing(markup, article.PageContext{BaseURL: url, Page: page})
	if len(items) == 0 {
		slog.WarnContext(ctx, "listing page yielded no articles, skipping", "source", src, "page", page)
		return nil
	}

	return r.resolveAll(ctx, ext, items)
}

// resolveAll fetches detail pages through a bounded pool. A failed detail
// fetch degrades to the listing metadata rather than dropping the record.
func (r *Runner) resolveAll(ctx context.Context, ext article.Extractor, items []article.Article) []article.Article {
	resolved := make([]article.Article, len(items))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				resolved[i] = r.resolveOne(ctx, ext, items[i])
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return resolved
}

func (r *Runner) resolveOne(ctx context.Context, ext article.Extractor, item article.Article) article.Article {
	if item.Link == "" {
		return item
	}

	markup, err := r.fetcher.Fetch(ctx, item.Link)
	if err != nil {
		slog.WarnContext(ctx, "detail fetch failed, keeping listing metadata", "source", ext.Source(), "link", item.Link, "error", err)
		return item
	}
	return ext.ResolveContent(markup, item)
}

// publishEmbeds emits one embed event per upserted record. Publish failures
// are logged and dropped: the embedding backfill covers the gap.
func (r *Runner) publishEmbeds(ctx context.Context, src article.Source, records []article.Article, res article.BatchResult) {
	if r.pub == nil {
		return
	}

	failed := make(map[string]bool, len(res.Failures))
	for _, f := range res.Failures {
		failed[f.Link] = true
	}

	correlationID := middleware.GetCorrelationID(ctx)

	for _, a := range records {
		if failed[a.Link] {
			continue
		}

		payload := worker.ArticleEmbedPayload{
			Source:        string(src),
			ArticleID:     a.ID,
			Link:          a.Link,
			Title:         a.Title,
			Summary:       a.Summary,
			Author:        a.Author,
			Date:          a.Date,
			Categories:    a.Categories,
			CorrelationID: correlationID,
		}

		body, err := json.Marshal(payload)
		if err != nil {
			slog.ErrorContext(ctx, "marshal embed payload failed", "link", a.Link, "error", err)
			continue
		}
		if err := r.pub.Publish(config.TopicArticleEmbed, body); err != nil {
			slog.WarnContext(ctx, "publish embed event failed", "link", a.Link, "error", err)
		}
	}
}
