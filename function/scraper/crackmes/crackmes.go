package crackmes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/downloader"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/htmlutil"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/templater"
	"github.com/ctfwriteup/ctfwriteup/function/utils"
	"golang.org/x/net/html"
)

const (
	Name       = "Crackmes"
	DefaultURL = "https://crackmes.one"

	// every crackmes.one archive is encrypted with this password
	archivePassword = "crackmes.one"
)

type Scraper struct {
	session *scraper.Session
}

func New(url string) *Scraper {
	return &Scraper{session: scraper.NewSession(url)}
}

func (cs *Scraper) Name() string {
	return Name
}

// Login is a no-op, crackmes.one serves everything anonymously.
func (cs *Scraper) Login(_ *creds.Creds) error {
	return nil
}

func (cs *Scraper) GetChallenges() ([]*scraper.Challenge, error) {
	return nil, scraper.Unsupported(Name, "get challenges")
}

func (cs *Scraper) GetChallenge(url string) (*scraper.Challenge, error) {
	doc, err := cs.session.GetDocument(url)
	if err != nil {
		return nil, err
	}

	container := doc.Find("div.container.grid-lg.wrapper").First()
	if container.Length() == 0 {
		return nil, &scraper.ParseError{URL: url, Field: "challenge container"}
	}

	author := htmlutil.Text(container.Find(`a[href*="/user/"]`).First())
	title := container.Find("h3").First()
	if title.Length() == 0 {
		return nil, &scraper.ParseError{URL: url, Field: "title"}
	}
	name := strings.ReplaceAll(htmlutil.Text(title), author+"'s ", "")

	c := &scraper.Challenge{
		ID:          fmt.Sprintf("%s-%s", name, author),
		URL:         url,
		Platform:    Name,
		Name:        name,
		Author:      author,
		Category:    "Reverse",
		Description: htmlutil.Text(container.Find(`span[style="white-space: pre-line"]`).First()),
		AdditionalInfo: map[string]any{
			"platform":     nil,
			"language":     nil,
			"architecture": nil,
			"quality":      nil,
		},
	}

	if href, ok := doc.Find("a.btn-download").First().Attr("href"); ok {
		c.Files = []scraper.File{{
			Name: utils.LastPathSegment(href),
			URL:  cs.session.Resolve(href),
		}}
	}

	container.Find("div.column").Each(func(_ int, column *goquery.Selection) {
		p := column.Find("p").First()
		if p.Length() == 0 {
			return
		}
		value := textAfterBr(p)
		switch text := htmlutil.Text(p); {
		case strings.HasPrefix(text, "Language:"):
			c.SetInfo("language", nullable(value))
		case strings.HasPrefix(text, "Platform"):
			c.SetInfo("platform", nullable(value))
		case strings.HasPrefix(text, "Arch:"):
			c.SetInfo("architecture", nullable(value))
		case strings.HasPrefix(text, "Quality:"):
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				c.SetInfo("quality", f)
			}
		case strings.HasPrefix(text, "Difficulty:"):
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				c.Difficulty = f
			}
		}
	})
	return c, nil
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.session, c, dst, archivePassword)
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	difficulty, known := c.Difficulty.(float64)
	label := difficultyLabel(difficulty, known)
	value := "unknown"
	if known {
		value = strconv.FormatFloat(difficulty, 'f', -1, 64) + "/5"
	}

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		return &templater.Page{
			Title: c.Name,
			Tags:  tags(c),
			Summary: lang.Pick(
				fmt.Sprintf(`Writeup for %s from %s. A "%s" challenge.`, c.Name, c.Platform, label),
				fmt.Sprintf("Writeup pour %s de %s. Un challenge %s.", c.Name, c.Platform, label),
			),
			Fields: append(l.Common(c),
				templater.Field{Label: l.Difficulty, Value: value},
				l.FilesField(c),
			),
		}
	})
}

func tags(c *scraper.Challenge) []string {
	return templater.Tags(
		c.Category,
		Name,
		c.InfoString("platform"),
		c.InfoString("language"),
		c.InfoString("architecture"),
	)
}

func difficultyLabel(d float64, known bool) string {
	switch {
	case !known:
		return "unknown"
	case d < 2:
		return "easy"
	case d < 3:
		return "medium"
	case d < 4:
		return "hard"
	default:
		return "very hard"
	}
}

// textAfterBr returns the text node following the first <br> of p.
func textAfterBr(p *goquery.Selection) string {
	br := p.Find("br").First()
	if br.Length() == 0 {
		return ""
	}
	next := br.Nodes[0].NextSibling
	if next == nil {
		return ""
	}
	if next.Type == html.TextNode {
		return strings.TrimSpace(next.Data)
	}
	return htmlutil.Text(goquery.NewDocumentFromNode(next).Selection)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
