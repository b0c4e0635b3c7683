// Package manual scaffolds writeups for challenges described by hand, when
// the hosting platform has no adapter.
package manual

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/downloader"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/templater"
	"github.com/ctfwriteup/ctfwriteup/function/utils"
)

const Name = "Manual"

// Scraper serves the challenges registered with Add.
type Scraper struct {
	platform string
	session  *scraper.Session
	listing  []*scraper.Challenge
	byURL    map[string]*scraper.Challenge
}

// New returns an adapter labelling its challenges with platform. Files with
// relative urls are resolved against url.
func New(platform string, url string) *Scraper {
	if platform == "" {
		platform = Name
	}
	return &Scraper{
		platform: platform,
		session:  scraper.NewSession(url),
		byURL:    map[string]*scraper.Challenge{},
	}
}

func (cs *Scraper) Name() string {
	return cs.platform
}

func (cs *Scraper) Login(_ *creds.Creds) error {
	return nil
}

// Add registers c, filling the identity fields left empty, and returns it.
func (cs *Scraper) Add(c *scraper.Challenge) *scraper.Challenge {
	c.Platform = cs.platform
	if c.ID == "" {
		c.ID = strings.ReplaceAll(strings.ToLower(c.Name), " ", "-")
	}
	if c.URL == "" {
		c.URL = "#" + c.ID
	}
	if c.Author == "" {
		c.Author = "Unknown"
	}
	if c.Category == "" {
		c.Category = "Uncategorized"
	}
	if c.Files == nil {
		c.Files = []scraper.File{}
	}
	for i, f := range c.Files {
		c.Files[i].URL = cs.session.Resolve(f.URL)
		if f.Name == "" {
			c.Files[i].Name = utils.LastPathSegment(f.URL)
		}
	}
	cs.listing = append(cs.listing, c)
	cs.byURL[c.URL] = c
	return c
}

func (cs *Scraper) GetChallenges() ([]*scraper.Challenge, error) {
	return cs.listing, nil
}

func (cs *Scraper) GetChallenge(url string) (*scraper.Challenge, error) {
	c, ok := cs.byURL[url]
	if !ok {
		return nil, &scraper.ParseError{URL: url, Field: "challenge"}
	}
	cp := *c
	return &cp, nil
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.session, c, dst, c.InfoString("password"))
}

// ParseDifficulty returns a 1 to 5 rating as an int so Stars can use it,
// any other label is kept as given.
func ParseDifficulty(s string) any {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

// Stars uses the difficulty when it is a 1 to 5 rating, the points otherwise.
func Stars(c *scraper.Challenge) int {
	if n, ok := c.Difficulty.(int); ok && n >= 1 && n <= 5 {
		return n
	}
	if c.Points != nil {
		return templater.StarsFromPoints(*c.Points, 100)
	}
	return 1
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	stars := templater.Stars(Stars(c))
	tags, _ := c.Info("tags").([]string)
	connection := c.InfoString("connection_info")

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		difficulty := stars
		switch {
		case c.Points != nil:
			difficulty = fmt.Sprintf("%s (%d points)", stars, *c.Points)
		case c.Difficulty != nil:
			difficulty = fmt.Sprintf("%s (%v)", stars, c.Difficulty)
		}
		fields := append(l.Common(c), templater.Field{Label: l.Difficulty, Value: difficulty})
		if connection != "" {
			fields = append(fields, templater.Field{Label: l.Connection, Value: "`" + connection + "`"})
		}
		return &templater.Page{
			Title: c.Name,
			Tags:  templater.Tags(append([]string{c.Category, c.Platform}, tags...)...),
			Summary: lang.Pick(
				fmt.Sprintf("Writeup for %s from %s.", c.Name, c.Platform),
				fmt.Sprintf("Writeup pour %s de %s.", c.Name, c.Platform),
			),
			Fields: append(fields, l.FilesField(c)),
		}
	})
}
