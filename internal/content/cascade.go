// Package content extracts free-text article bodies from detail-page markup.
//
// Sites redesign; selectors rot. Instead of a single lookup, each source
// declares an ordered cascade of strategies and the first one that yields
// text wins. A cascade that exhausts every strategy produces an empty body,
// which is a valid (if degraded) result rather than an error.
package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"crepulse/internal/text"
)

// AdSelector matches nested ad and widget blocks that must never leak into
// extracted body text. Class substring matching mirrors how these sites tag
// their injected units, scoped to the block elements that carry them so a
// paragraph whose class merely contains the substring (e.g. "lead") is kept.
const AdSelector = "div[class*=ad], aside[class*=ad], div[class*=widget], aside[class*=widget], div[class*=hybrid-ad]"

// chromeSelector strips structural page furniture before paragraph scans.
const chromeSelector = "header, footer, nav, aside"

// MinBodyParagraphLen filters navigation and caption noise in the
// whole-body fallback.
const MinBodyParagraphLen = 40

// MinHeuristicParagraphs is the acceptance bar for loosely-matched
// containers; a single paragraph is usually a teaser block, not an article.
const MinHeuristicParagraphs = 2

// Strategy attempts one extraction approach against a parsed document.
// It returns the joined paragraph text, or "" when the structure it expects
// is absent. Strategies must not mutate the document they are given.
type Strategy func(doc *goquery.Document) string

// Resolve runs strategies in order and returns the first non-empty result.
func Resolve(doc *goquery.Document, strategies ...Strategy) string {
	for _, s := range strategies {
		if body := s(doc); body != "" {
			return body
		}
	}
	return ""
}

// Container extracts paragraph text from the first element matching sel,
// removing any stripSel substructure first. The selection is cloned so the
// removal never touches the caller's document.
func Container(sel, stripSel string) Strategy {
	return func(doc *goquery.Document) string {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			return ""
		}
		node = node.Clone()
		if stripSel != "" {
			node.Find(stripSel).Remove()
		}
		return joinParagraphs(node, 0)
	}
}

// Landmark extracts paragraphs from a main-content landmark after stripping
// header, nav and sidebar substructures.
func Landmark(sel string) Strategy {
	return func(doc *goquery.Document) string {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			return ""
		}
		node = node.Clone()
		node.Find("header, nav, aside").Remove()
		return joinParagraphs(node, 0)
	}
}

// Heuristic scans containers whose class loosely names an article or content
// block and accepts the first with at least minParagraphs non-empty
// paragraphs. The bar keeps short teaser blocks from masquerading as bodies.
func Heuristic(minParagraphs int) Strategy {
	return func(doc *goquery.Document) string {
		result := ""
		doc.Find("div[class*=article], div[class*=content]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			paras := collectParagraphs(s, 0)
			if len(paras) >= minParagraphs {
				result = strings.Join(paras, " ")
				return false
			}
			return true
		})
		return result
	}
}

// BodyText is the last resort: the whole page body with structural chrome
// stripped, keeping only paragraphs longer than minLen characters.
func BodyText(minLen int) Strategy {
	return func(doc *goquery.Document) string {
		body := doc.Find("body").First()
		if body.Length() == 0 {
			return ""
		}
		body = body.Clone()
		body.Find(chromeSelector).Remove()
		return joinParagraphs(body, minLen)
	}
}

// MultiContainer extracts paragraphs from every element matching sel, in
// document order. Used for sites that spread a body across repeated rich-text
// sections.
func MultiContainer(sels ...string) Strategy {
	return func(doc *goquery.Document) string {
		var paras []string
		for _, sel := range sels {
			doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
				paras = append(paras, collectParagraphs(s, 0)...)
			})
		}
		return strings.Join(paras, " ")
	}
}

func joinParagraphs(s *goquery.Selection, minLen int) string {
	return strings.Join(collectParagraphs(s, minLen), " ")
}

func collectParagraphs(s *goquery.Selection, minLen int) []string {
	var paras []string
	s.Find("p").Each(func(_ int, p *goquery.Selection) {
		t := text.Collapse(p.Text())
		if len(t) > minLen {
			paras = append(paras, t)
		}
	})
	return paras
}
