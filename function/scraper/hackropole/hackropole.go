package hackropole

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/downloader"
	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/htmlutil"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/templater"
	"github.com/ctfwriteup/ctfwriteup/function/utils"
)

const (
	Name       = "Hackropole"
	DefaultURL = "https://hackropole.fr"
)

var (
	categories = map[string]bool{
		"crypto":    true,
		"forensics": true,
		"hardware":  true,
		"misc":      true,
		"pwn":       true,
		"reverse":   true,
		"web":       true,
	}
	solvedBadge = htmlutil.NFKD("résolu le")
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

// Login exchanges the OAuth token of c with the hackropole API.
func (cs *Scraper) Login(c *creds.Creds) error {
	if err := c.ValidateToken(); err != nil {
		return scraper.AuthError("%v", err)
	}
	err := cs.session.PostJson("/api/hackropole/user/self", map[string]string{
		"token":    c.Token,
		"provider": c.Provider,
	}, nil)
	if err != nil {
		return scraper.AuthError("token refused: %v", err)
	}
	log.InfoH2("Logged in to %s with %s", Name, c.Provider)
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

	title := htmlutil.NFKD(htmlutil.StrippedText(doc.Find(".jumbotron h1").First()))
	if title == "" {
		return nil, &scraper.ParseError{URL: url, Field: "title"}
	}

	badges := []string{}
	doc.Find(".jumbotron .badge").Each(func(_ int, s *goquery.Selection) {
		badge := htmlutil.NFKD(htmlutil.StrippedText(s))
		if !strings.Contains(badge, solvedBadge) {
			badges = append(badges, badge)
		}
	})

	category := "Uncategorized"
	for _, badge := range badges {
		if categories[strings.ToLower(badge)] {
			category = badge
			break
		}
	}

	stars := doc.Find("svg.text-warning").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return htmlutil.Text(s.Find("title").First()) == "star"
	}).Length()

	author := doc.Find(".col.text-center")
	avatar, _ := author.Find("img").First().Attr("src")

	c := &scraper.Challenge{
		ID:          strings.ToLower(strings.Join(strings.Fields(title), "-")),
		URL:         url,
		Platform:    Name,
		Name:        title,
		Author:      htmlutil.NFKD(htmlutil.StrippedText(author.Find(".font-monospace").First())),
		Category:    category,
		Description: htmlutil.NFKD(htmlutil.StrippedText(doc.Find(".markdown p").First())),
		Difficulty:  stars,
		Files:       cs.files(doc),
		AdditionalInfo: map[string]any{
			"badges":        badges,
			"author_avatar": avatar,
		},
	}
	return c, nil
}

// files reads the download list. Each entry may carry its SHA-256 after an
// en dash in the clipboard button.
func (cs *Scraper) files(doc *goquery.Document) []scraper.File {
	files := []scraper.File{}
	doc.Find(".list-file li").Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		name, _ := a.Attr("download")
		if name == "" {
			name = utils.LastPathSegment(href)
		}
		f := scraper.File{Name: name, URL: cs.session.Resolve(href)}
		if clip := li.Find(".clip-sha256").First(); clip.Length() > 0 {
			parts := strings.Split(htmlutil.StrippedText(clip), "–")
			f.Hash = strings.TrimSpace(parts[len(parts)-1])
		}
		files = append(files, f)
	})
	return files
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.session, c, dst, "")
}

// Badges returns the badges stored by GetChallenge, cached listings included.
func Badges(c *scraper.Challenge) []string {
	switch v := c.Info("badges").(type) {
	case []string:
		return v
	case []any:
		badges := make([]string, 0, len(v))
		for _, b := range v {
			if s, ok := b.(string); ok {
				badges = append(badges, s)
			}
		}
		return badges
	}
	return nil
}

// Stars is the star count of the page, at least one.
func Stars(c *scraper.Challenge) int {
	n, _ := c.Difficulty.(int)
	return max(1, n)
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	n := Stars(c)
	tags := templater.Tags(append([]string{c.Category}, Badges(c)...)...)

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		return &templater.Page{
			Title: c.Name,
			Tags:  tags,
			Summary: lang.Pick(
				fmt.Sprintf("Writeup for %s from %s. A %s challenge with a difficulty of %d/5.", c.Name, c.Platform, c.Category, n),
				fmt.Sprintf("Writeup pour %s de %s. Un challenge de %s avec une difficulté de %d/5.", c.Name, c.Platform, c.Category, n),
			),
			Fields: []templater.Field{
				l.AuthorField(c),
				l.CategoryField(c),
				{Label: l.Difficulty, Value: fmt.Sprintf("%s (%d/5)", templater.Stars(n), n)},
				l.URLField(c),
				l.DescriptionField(c),
				l.FilesField(c),
			},
		}
	})
}
