// Package credaily scrapes brief listings and detail pages from CRE Daily.
package credaily

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"crepulse/internal/article"
	"crepulse/internal/content"
	"crepulse/internal/text"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Source() article.Source {
	return article.SourceCREDaily
}

func (e *Extractor) ListingURL(page int) string {
	return fmt.Sprintf("https://www.credaily.com/briefs/?pg=%d", page)
}

// ExtractListing pulls partial records from a briefs listing page. Briefs
// carry title, summary, author, date and categories at listing level; body
// content is filled later from the detail page.
func (e *Extractor) ExtractListing(markup string, page article.PageContext) []article.Article {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Warn("credaily: unparsable listing markup", "page", page.Page, "error", err)
		return nil
	}

	items := doc.Find("div.c-brief-list__item")
	if items.Length() == 0 {
		slog.Warn("credaily: no brief items found on listing page", "page", page.Page)
		return nil
	}

	var records []article.Article
	items.Each(func(_ int, item *goquery.Selection) {
		titleLink := item.Find("h5.c-brief-list__item-title a").First()
		href, ok := titleLink.Attr("href")
		if !ok || href == "" {
			return
		}

		rec := article.Article{
			Source:  article.SourceCREDaily,
			Link:    article.AbsoluteLink(page.BaseURL, href),
			Title:   text.Collapse(titleLink.Text()),
			Summary: text.Collapse(item.Find("p.c-brief-list__item-text").First().Text()),
			Date:    text.Collapse(item.Find("div.c-brief-list__item-date").First().Text()),
		}

		if author := item.Find("div.c-brief-list__item-author").First(); author.Length() > 0 {
			rec.Author = text.Collapse(strings.TrimPrefix(text.Collapse(author.Text()), "By "))
		}

		item.Find("div.c-brief-list__item-category a.c-articles__category").Each(func(_ int, cat *goquery.Selection) {
			if c := text.Collapse(cat.Text()); c != "" {
				rec.Categories = append(rec.Categories, c)
			}
		})

		records = append(records, rec)
	})
	return records
}

// ResolveContent fills the body of a partial record from its detail page.
// The cascade covers the current markup, the pre-redesign body class, the
// main-content landmark and two generic fallbacks.
func (e *Extractor) ResolveContent(markup string, partial article.Article) article.Article {
	resolved := partial
	resolved.Source = article.SourceCREDaily

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Warn("credaily: unparsable detail markup", "link", partial.Link, "error", err)
		return resolved
	}

	resolved.Content = content.Resolve(doc,
		content.Container("div.c-article__content", content.AdSelector),
		content.Container("div.c-article__body", content.AdSelector),
		content.Landmark("main#main-content"),
		content.Heuristic(content.MinHeuristicParagraphs),
		content.BodyText(content.MinBodyParagraphLen),
	)
	if resolved.Content == "" {
		slog.Warn("credaily: no content extracted", "link", partial.Link)
	}
	return resolved
}
