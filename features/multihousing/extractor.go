// Package multihousing scrapes Multi-Housing News category pages. This is
// the only source that exposes a listing image for each post.
package multihousing

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
	return article.SourceMultihousing
}

func (e *Extractor) ListingURL(page int) string {
	return fmt.Sprintf("https://www.multihousingnews.com/news/page/%d/", page)
}

func (e *Extractor) ExtractListing(markup string, page article.PageContext) []article.Article {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Warn("multihousing: unparsable listing markup", "page", page.Page, "error", err)
		return nil
	}

	items := doc.Find("div.cpe-posts-category-page")
	if items.Length() == 0 {
		slog.Warn("multihousing: no post items found on listing page", "page", page.Page)
		return nil
	}

	var records []article.Article
	items.Each(func(_ int, item *goquery.Selection) {
		titleLink := item.Find("h2.fl-post-title a").First()
		href, ok := titleLink.Attr("href")
		if !ok || href == "" {
			return
		}

		rec := article.Article{
			Source:  article.SourceMultihousing,
			Link:    article.AbsoluteLink(page.BaseURL, href),
			Title:   text.Collapse(titleLink.Text()),
			Summary: text.Collapse(item.Find("div.fl-post-excerpt p").First().Text()),
		}

		if meta := item.Find("div.fl-post-meta").First(); meta.Length() > 0 {
			rec.Author = text.Collapse(meta.Find("a").First().Text())
			// The date is the trailing text node after the meta separator.
			if meta.Find("span.fl-post-meta-sep").Length() > 0 {
				last := meta.Contents().Last()
				if goquery.NodeName(last) == "#text" {
					rec.Date = text.Collapse(last.Text())
				}
			}
		}

		item.Find("div.cpe-categories a").Each(func(_ int, cat *goquery.Selection) {
			if c := text.Collapse(cat.Text()); c != "" {
				rec.Categories = append(rec.Categories, c)
			}
		})

		if img := item.Find("div.fl-post-image img").First(); img.Length() > 0 {
			rec.ImageURL, _ = img.Attr("src")
		}

		records = append(records, rec)
	})
	return records
}

// ResolveContent reads the page-builder layout: metadata hangs off the
// #cmw_main_content wrapper and the body is spread across the single-post
// block plus any rich-text sections. Detail values fill only empty fields.
func (e *Extractor) ResolveContent(markup string, partial article.Article) article.Article {
	resolved := partial
	resolved.Source = article.SourceMultihousing

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Warn("multihousing: unparsable detail markup", "link", partial.Link, "error", err)
		return resolved
	}

	if main := doc.Find("div#cmw_main_content").First(); main.Length() > 0 {
		if resolved.Title == "" {
			resolved.Title = text.Collapse(main.Find("h1.fl-heading").First().Text())
		}
		if resolved.Author == "" {
			resolved.Author = text.Collapse(main.Find("a.tdb-author-name").First().Text())
		}
		if resolved.Date == "" {
			resolved.Date = text.Collapse(main.Find("span.fl-post-info-date").First().Text())
		}
		if len(resolved.Categories) == 0 {
			main.Find("div.post_categories a.post_cat").Each(func(_ int, cat *goquery.Selection) {
				if c := text.Collapse(cat.Text()); c != "" {
					resolved.Categories = append(resolved.Categories, c)
				}
			})
		}
	}

	resolved.Content = content.Resolve(doc,
		content.MultiContainer(
			"#cmw_main_content div.cmw_single_post_content",
			"#cmw_main_content div.fl-rich-text",
		),
		content.Heuristic(content.MinHeuristicParagraphs),
		content.BodyText(content.MinBodyParagraphLen),
	)
	if resolved.Content == "" {
		slog.Warn("multihousing: no content extracted", "link", partial.Link)
	}
	return resolved
}
