package imaginaryctf

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ctfwriteup/ctfwriteup/function/cache"
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/downloader"
	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/htmlutil"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/templater"
	"github.com/ctfwriteup/ctfwriteup/function/utils"
)

const (
	Name            = "ImaginaryCTF"
	DefaultURL      = "https://imaginaryctf.org"
	CybersharingURL = "https://cybersharing.net"
)

var headerRe = regexp.MustCompile(`^(.*?)\s*\(\s*(\d+)\s*pts?\s*\)`)

// container is the cybersharing answer for a shared folder.
type container struct {
	ID        string `json:"id"`
	Signature string `json:"signature"`
	Uploads   []struct {
		ID       string `json:"id"`
		FileName string `json:"fileName"`
	} `json:"uploads"`
}

// Scraper reads the archive page, which holds every challenge in modals.
// Attachments are cybersharing folders resolved on GetChallenge.
type Scraper struct {
	session *scraper.Session
	sharing *scraper.Session
	cache   *cache.Cache

	byID map[string]*scraper.Challenge
}

func New(url string) *Scraper {
	return &Scraper{
		session: scraper.NewSession(url),
		sharing: scraper.NewSession(CybersharingURL),
	}
}

// WithCache stores the listing under c between runs.
func (cs *Scraper) WithCache(c *cache.Cache) *Scraper {
	cs.cache = c
	return cs
}

// WithSharing points attachment resolution at another cybersharing host.
func (cs *Scraper) WithSharing(url string) *Scraper {
	cs.sharing = scraper.NewSession(url)
	return cs
}

func (cs *Scraper) Name() string {
	return Name
}

// Login is a no-op, the archive is public.
func (cs *Scraper) Login(_ *creds.Creds) error {
	return nil
}

func (cs *Scraper) cacheKey() string {
	u, err := url.Parse(cs.session.Url)
	if err != nil {
		return "imaginaryctf"
	}
	return "imaginaryctf-" + u.Host
}

// GetChallenges lists the archive. Each card takes the category of the
// closest header above it. Files stay empty until GetChallenge, the raw
// folder links are kept under the "attachments" info key.
func (cs *Scraper) GetChallenges() ([]*scraper.Challenge, error) {
	var listing []*scraper.Challenge
	if err := cs.cache.Get(cs.cacheKey(), &listing); err == nil {
		log.InfoH2("Loaded %d %s challenges from cache", len(listing), Name)
		cs.setListing(listing)
		return listing, nil
	}

	doc, err := cs.session.GetDocument("/Challenges")
	if err != nil {
		return nil, err
	}

	var (
		category string
		parseErr error
	)
	doc.Find("h3.text-start, div.card.challenge").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "h3" {
			category = htmlutil.Text(s)
			return true
		}
		if category == "" {
			return true
		}
		c, err := cs.parseCard(doc, category, s)
		if err != nil {
			parseErr = err
			return false
		}
		if c != nil {
			listing = append(listing, c)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if err := cs.cache.Set(cs.cacheKey(), listing); err != nil {
		log.Warn("cannot cache %s listing: %v", Name, err)
	}
	cs.setListing(listing)
	return listing, nil
}

// parseCard returns nil for cards whose modal is missing.
func (cs *Scraper) parseCard(doc *goquery.Document, category string, card *goquery.Selection) (*scraper.Challenge, error) {
	listURL := cs.session.Resolve("/Challenges")

	header := htmlutil.Clean(card.Find("div.challenge-header").First().Text())
	m := headerRe.FindStringSubmatch(header)
	if m == nil {
		return nil, &scraper.ParseError{URL: listURL, Field: "challenge header " + strconv.Quote(header)}
	}
	name := m[1]
	points, _ := strconv.Atoi(m[2])

	target := strings.TrimPrefix(card.Find("a").First().AttrOr("data-bs-target", ""), "#")
	modal := doc.Find("div[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == target
	}).First()
	if target == "" || modal.Length() == 0 {
		log.Debug("no modal for %s", name)
		return nil, nil
	}

	title := modal.Find("h5.modal-title").First()
	author := strings.TrimSpace(strings.Replace(htmlutil.Text(title.Find("small.text-muted").First()), "by", "", 1))
	solves := htmlutil.Text(title.Find("span").First())
	solves = strings.Trim(strings.Split(solves, "solves")[0], "- ")
	solved, _ := strconv.Atoi(strings.TrimSpace(solves))

	attachments := []string{}
	label := modal.Find("b").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return htmlutil.Text(s) == "Attachments"
	}).First()
	if label.Length() > 0 {
		htmlutil.FindNext(label, "p").Find("a").Each(func(_ int, a *goquery.Selection) {
			if href := a.AttrOr("href", ""); href != "" {
				attachments = append(attachments, href)
			}
		})
	}

	id := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return &scraper.Challenge{
		ID:             id,
		URL:            listURL + "#" + id,
		Platform:       Name,
		Name:           name,
		Author:         author,
		Category:       category,
		Description:    htmlutil.Text(modal.Find("p").First()),
		Points:         scraper.IntPtr(points),
		SolvedNumber:   solved,
		Files:          []scraper.File{},
		AdditionalInfo: map[string]any{"attachments": attachments},
	}, nil
}

func (cs *Scraper) setListing(listing []*scraper.Challenge) {
	cs.byID = make(map[string]*scraper.Challenge, len(listing))
	for _, c := range listing {
		cs.byID[c.ID] = c
	}
}

// Attachments returns the folder links kept by GetChallenges.
func Attachments(c *scraper.Challenge) []string {
	switch v := c.Info("attachments").(type) {
	case []string:
		return v
	case []any:
		links := make([]string, 0, len(v))
		for _, l := range v {
			if s, ok := l.(string); ok {
				links = append(links, s)
			}
		}
		return links
	}
	return nil
}

// challengeID accepts an id, a "#id" fragment or a full url ending with one.
func challengeID(ref string) string {
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// GetChallenge returns a copy of the listed challenge ref with its
// attachments resolved into direct download links.
func (cs *Scraper) GetChallenge(ref string) (*scraper.Challenge, error) {
	if cs.byID == nil {
		if _, err := cs.GetChallenges(); err != nil {
			return nil, err
		}
	}
	listed, ok := cs.byID[challengeID(ref)]
	if !ok {
		return nil, &scraper.ParseError{URL: ref, Field: "challenge in /Challenges listing"}
	}

	c := *listed
	c.Files = []scraper.File{}
	for _, link := range Attachments(listed) {
		files, err := cs.resolveFiles(link)
		if err != nil {
			return nil, err
		}
		c.Files = append(c.Files, files...)
	}
	return &c, nil
}

func (cs *Scraper) resolveFiles(link string) ([]scraper.File, error) {
	log.InfoH3("Resolving file URL: %s", link)
	var folder container
	path := utils.UrlJoinPath("/api/containers", utils.LastPathSegment(link))
	if err := cs.sharing.PostJson(path, map[string]any{"password": nil}, &folder); err != nil {
		return nil, err
	}

	files := make([]scraper.File, 0, len(folder.Uploads))
	for _, upload := range folder.Uploads {
		files = append(files, scraper.File{
			Name: upload.FileName,
			URL:  utils.UrlJoinPath(cs.sharing.Url, "api/download/file", folder.ID, upload.ID, folder.Signature, upload.FileName),
		})
	}
	return files, nil
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.sharing, c, dst, "")
}

// Stars gives one star per 40 points.
func Stars(points int) int {
	return templater.StarsFromPoints(points, 40)
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	points := c.PointsValue()
	stars := templater.Stars(Stars(points))
	category := strings.ToLower(c.Category)

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		return &templater.Page{
			Title: c.Name,
			Tags:  templater.Tags(c.Category, Name),
			Summary: lang.Pick(
				fmt.Sprintf("Writeup for %s from %s. A %d points %s challenge with %d solves.", c.Name, c.Platform, points, category, c.SolvedNumber),
				fmt.Sprintf("Writeup du challenge %s de %s. Un challenge de %s de %d points avec %d résolutions.", c.Name, c.Platform, category, points, c.SolvedNumber),
			),
			Fields: append(l.Common(c),
				templater.Field{Label: l.Difficulty, Value: fmt.Sprintf("%s (%d points, %d %s)", stars, points, c.SolvedNumber, l.Solves)},
				l.FilesField(c),
			),
		}
	})
}
