// Package htmlutil holds the goquery helpers shared by the HTML adapters.
package htmlutil

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	mdConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	policy = bluemonday.UGCPolicy()
	tagRe  = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
)

// NFKD returns the compatibility decomposition of s.
func NFKD(s string) string {
	return norm.NFKD.String(s)
}

// Clean collapses every run of whitespace into one space and trims.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text is the trimmed text content of the selection.
func Text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// StrippedText concatenates the trimmed text nodes of the selection without
// separator.
func StrippedText(sel *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range sel.Nodes {
		walk(n, func(n *html.Node) {
			if n.Type == html.TextNode {
				sb.WriteString(strings.TrimSpace(n.Data))
			}
		})
	}
	return sb.String()
}

// LabelSpan returns the first span of doc whose trimmed text equals label.
func LabelSpan(doc *goquery.Selection, label string) *goquery.Selection {
	return doc.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return Text(s) == label
	}).First()
}

// FindNext returns the first element after from in document order matching
// selector, descendants of from included. The selection is empty when
// nothing matches.
func FindNext(from *goquery.Selection, selector string) *goquery.Selection {
	if from.Length() == 0 {
		return from
	}
	start := from.Nodes[0]
	root := start
	for root.Parent != nil {
		root = root.Parent
	}

	order := map[*html.Node]int{}
	walk(root, func(n *html.Node) {
		order[n] = len(order)
	})

	pos := order[start]
	candidates := goquery.NewDocumentFromNode(root).Find(selector)
	return candidates.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return order[s.Nodes[0]] > pos
	}).First()
}

// Markdown sanitises the inner HTML of sel and converts it to Markdown.
// Links are resolved against domain. It falls back to the plain text when the
// conversion fails.
func Markdown(sel *goquery.Selection, domain string) string {
	raw, err := sel.Html()
	if err != nil {
		return Text(sel)
	}
	md, err := mdConverter.ConvertString(policy.Sanitize(raw), converter.WithDomain(domain))
	if err != nil {
		return Text(sel)
	}
	return strings.TrimSpace(md)
}

// MarkdownString is Markdown for a raw HTML fragment, as served by JSON APIs.
func MarkdownString(raw string, domain string) string {
	md, err := mdConverter.ConvertString(policy.Sanitize(raw), converter.WithDomain(domain))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(md)
}

// Description converts an API description to Markdown when it carries HTML
// tags. Markdown sources are only trimmed.
func Description(raw string, domain string) string {
	if !tagRe.MatchString(raw) {
		return strings.TrimSpace(raw)
	}
	return MarkdownString(raw, domain)
}

func walk(n *html.Node, f func(*html.Node)) {
	f(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, f)
	}
}
