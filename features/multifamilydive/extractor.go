// Package multifamilydive scrapes the Multifamily Dive news feed.
package multifamilydive

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
	return article.SourceMultifamilyDive
}

func (e *Extractor) ListingURL(page int) string {
	return fmt.Sprintf("https://www.multifamilydive.com/?page=%d", page)
}

// ExtractListing pulls partial records from a feed page. Sponsored entries
// (feed-item-ad) are skipped silently. Author, author title and date live on
// the detail page only.
func (e *Extractor) ExtractListing(markup string, page article.PageContext) []article.Article {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Warn("multifamilydive: unparsable listing markup", "page", page.Page, "error", err)
		return nil
	}

	items := doc.Find("li.feed__item")
	if items.Length() == 0 {
		slog.Warn("multifamilydive: no feed items found on listing page", "page", page.Page)
		return nil
	}

	var records []article.Article
	items.Each(func(_ int, item *goquery.Selection) {
		if item.HasClass("feed-item-ad") {
			return
		}

		titleLink := item.Find("h3.feed__title a").First()
		href, ok := titleLink.Attr("href")
		if !ok || href == "" {
			return
		}

		rec := article.Article{
			Source:  article.SourceMultifamilyDive,
			Link:    article.AbsoluteLink(page.BaseURL, href),
			Title:   text.Collapse(titleLink.Text()),
			Summary: text.Collapse(item.Find("p.feed__description").First().Text()),
		}

		if label := text.Collapse(item.Find("span.label").First().Text()); label != "" {
			rec.Categories = []string{label}
		}

		records = append(records, rec)
	})
	return records
}

// ResolveContent fills body content plus the detail-only metadata (author,
// author title, date, full category list). Listing-page values win: a detail
// value only lands in a field that is still empty.
func (e *Extractor) ResolveContent(markup string, partial article.Article) article.Article {
	resolved := partial
	resolved.Source = article.SourceMultifamilyDive

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Warn("multifamilydive: unparsable detail markup", "link", partial.Link, "error", err)
		return resolved
	}

	container := doc.Find("article.brief").First()
	if container.Length() == 0 {
		container = doc.Find("article").First()
	}

	if container.Length() > 0 {
		if resolved.Author == "" {
			if byline := container.Find("div.author-name-with-headshot, div.author-name").First(); byline.Length() > 0 {
				resolved.Author = text.Collapse(byline.Find("a[rel=author]").First().Text())
				if resolved.AuthorTitle == "" {
					resolved.AuthorTitle = text.Collapse(byline.Find("span.author-title").First().Text())
				}
			} else {
				resolved.Author = text.Collapse(container.Find("div.article__byline").First().Text())
			}
		}
		if resolved.Date == "" {
			resolved.Date = text.Collapse(container.Find("div.date, span.published-info").First().Text())
		}
	}

	var topics []string
	doc.Find("div.post-article-topics a.topic").Each(func(_ int, topic *goquery.Selection) {
		if c := strings.TrimSuffix(text.Collapse(topic.Text()), ","); c != "" {
			topics = append(topics, c)
		}
	})
	if len(topics) > 0 && len(resolved.Categories) == 0 {
		resolved.Categories = topics
	}

	resolved.Content = content.Resolve(doc,
		content.Container("article div.article-body", content.AdSelector),
		content.Container("div.article-body", content.AdSelector),
		content.Landmark("main"),
		content.Heuristic(content.MinHeuristicParagraphs),
		content.BodyText(content.MinBodyParagraphLen),
	)
	if resolved.Content == "" {
		slog.Warn("multifamilydive: no content extracted", "link", partial.Link)
	}
	return resolved
}
