package ecsc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/downloader"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/htmlutil"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/templater"
)

const (
	Name       = "ECSC"
	DefaultURL = "https://challenges.ecsc.eu"
)

var difficultyStars = map[string]int{
	"Easy":   1,
	"Medium": 2,
	"Hard":   3,
}

// Scraper reads the public challenge archive. Pages are a list of labelled
// spans, each value being the next matching element after its label.
type Scraper struct {
	session *scraper.Session
}

func New(url string) *Scraper {
	return &Scraper{session: scraper.NewSession(url)}
}

func (cs *Scraper) Name() string {
	return Name
}

// Login is a no-op, the archive is public.
func (cs *Scraper) Login(_ *creds.Creds) error {
	return nil
}

func (cs *Scraper) GetChallenges() ([]*scraper.Challenge, error) {
	return nil, scraper.Unsupported(Name, "get challenges")
}

// after returns the first element matching selector that follows the span
// labelled label. The selection is empty when either is missing.
func after(doc *goquery.Selection, label string, selector string) *goquery.Selection {
	return htmlutil.FindNext(htmlutil.LabelSpan(doc, label), selector)
}

func textOr(sel *goquery.Selection, def string) string {
	if sel.Length() == 0 {
		return def
	}
	return htmlutil.Text(sel)
}

func (cs *Scraper) GetChallenge(url string) (*scraper.Challenge, error) {
	doc, err := cs.session.GetDocument(url)
	if err != nil {
		return nil, err
	}
	root := doc.Selection

	title := htmlutil.Text(root.Find("h1.documentFirstHeading").First())
	if title == "" {
		return nil, &scraper.ParseError{URL: url, Field: "title"}
	}

	c := &scraper.Challenge{
		ID:          strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		URL:         url,
		Platform:    Name,
		Name:        title,
		Author:      textOr(after(root, "Provider", "span"), "Unknown"),
		Category:    textOr(after(root, "Tags", "span.challenge-tags").Find("span").First(), "Uncategorized"),
		Description: textOr(after(root, "Description", "span"), ""),
		Difficulty:  textOr(after(root, "Difficulty", "div.difficulty").Find("span").First(), "Unknown"),
		Files:       []scraper.File{},
		AdditionalInfo: map[string]any{
			"event": textOr(after(root, "Event", "span"), ""),
			"extra": textOr(after(root, "Additional Info", "span"), ""),
		},
	}

	after(root, "Other artefacts", "ul.other-artefacts").Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		c.Files = append(c.Files, scraper.File{
			Name: htmlutil.Text(a),
			URL:  cs.session.Resolve(href),
		})
	})
	return c, nil
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.session, c, dst, "")
}

// Stars maps Easy, Medium and Hard onto 1 to 3 stars.
func Stars(difficulty string) int {
	if n, ok := difficultyStars[difficulty]; ok {
		return n
	}
	return 1
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	difficulty, _ := c.Difficulty.(string)
	stars := templater.Stars(Stars(difficulty))
	category := strings.ToLower(c.Category)

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		return &templater.Page{
			Title: c.Name,
			Tags:  templater.Tags(c.Category, c.Platform),
			Summary: lang.Pick(
				fmt.Sprintf(`Writeup for %s from %s. A %s challenge with a "%s" difficulty.`, c.Name, c.Platform, category, strings.ToLower(difficulty)),
				fmt.Sprintf("Writeup pour %s de %s. Un challenge %s de difficulté %s.", c.Name, c.Platform, category, strings.ToLower(difficulty)),
			),
			Fields: append(l.Common(c),
				templater.Field{Label: l.Difficulty, Value: fmt.Sprintf("%s (%s)", stars, difficulty)},
				l.FilesField(c),
			),
		}
	})
}
