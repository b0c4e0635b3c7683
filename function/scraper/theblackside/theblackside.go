package theblackside

import (
	"fmt"
	"net/http"
	"strconv"
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
	Name       = "TheBlackSide"
	DefaultURL = "https://theblackside.fr"
)

var categories = map[string]string{
	"Web":            "Web",
	"Stéganographie": "Steganography",
	"Cryptographie":  "Cryptography",
	"Reverse":        "Reverse",
	"Réseau":         "Network",
	"Forensic":       "Forensic",
	"Développement":  "Development",
	"Pwn":            "Pwn",
	"Box":            "Box",
	"Divers":         "Miscellaneous",
}

// Scraper rides on browser cookies, the login form is behind a captcha.
type Scraper struct {
	session *scraper.Session
	cookies []*http.Cookie
}

func New(url string, cookies creds.Cookies) *Scraper {
	return &Scraper{
		session: scraper.NewSession(url),
		cookies: cookies.HTTPCookies(),
	}
}

func (cs *Scraper) Name() string {
	return Name
}

// Login installs the cookies and checks that the home page shows a profile
// link, which only happens for an authenticated session.
func (cs *Scraper) Login(_ *creds.Creds) error {
	if len(cs.cookies) == 0 {
		return scraper.AuthError("no cookies provided")
	}
	cs.session.SetCookies(cs.cookies...)

	res, err := cs.session.Get("/")
	if err != nil {
		return scraper.AuthError("%v", err)
	}
	if !strings.Contains(res.String(), "/profil/") {
		return scraper.AuthError("cookies are not logged in")
	}
	log.InfoH2("Logged in to %s", Name)
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

	main := doc.Find("main").First()
	title := htmlutil.Text(main.Find("h1").First())
	if title == "" {
		return nil, &scraper.ParseError{URL: url, Field: "title"}
	}

	var author string
	if link := main.Find(`a[href*="/profil/"]`).First(); link.Length() > 0 {
		if author = htmlutil.Text(link.Find("span a").First()); author == "" {
			author = htmlutil.Text(link)
		}
	}

	metadata := main.Find("div.metadata").First()
	points, err := strconv.Atoi(htmlutil.Text(metadata.Find("div.button").First().Find("span").First()))
	if err != nil {
		return nil, &scraper.ParseError{URL: url, Field: "points"}
	}
	solved := metadata.Find("div.button").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("svg.feather-check-circle").Length() > 0
	}).First()
	solvedNumber, err := strconv.Atoi(htmlutil.Text(solved.Find("span").First()))
	if err != nil {
		return nil, &scraper.ParseError{URL: url, Field: "solves"}
	}

	category := htmlutil.Text(metadata.Find(`a[href*="/challenges/"]`).First().Find("span").First())
	if mapped, ok := categories[category]; ok {
		category = mapped
	}
	if category == "" {
		category = "Uncategorized"
	}

	c := &scraper.Challenge{
		ID:           strings.ToLower(strings.Join(strings.Fields(title), "-")),
		URL:          url,
		Platform:     Name,
		Name:         title,
		Author:       author,
		Category:     category,
		Description:  htmlutil.Text(main.Find("p").First()),
		Points:       scraper.IntPtr(points),
		SolvedNumber: solvedNumber,
	}
	if href, ok := main.Find("a.startChall").First().Attr("href"); ok {
		c.Files = []scraper.File{{
			Name: utils.LastPathSegment(href),
			URL:  cs.session.Resolve(href),
		}}
	}
	return c, nil
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.session, c, dst, "")
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	points := c.PointsValue()
	stars := templater.Stars(templater.StarsFromPoints(points, 12))
	category := strings.ToLower(c.Category)

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		return &templater.Page{
			Title: c.Name,
			Tags:  templater.Tags(c.Category, Name),
			Summary: lang.Pick(
				fmt.Sprintf("Writeup for %s from %s. A %d points %s challenge with %d solves.", c.Name, c.Platform, points, category, c.SolvedNumber),
				fmt.Sprintf("Writeup pour %s de %s. Un challenge de %s à %d points avec %d résolutions.", c.Name, c.Platform, category, points, c.SolvedNumber),
			),
			Fields: append(l.Common(c),
				templater.Field{Label: l.Points, Value: fmt.Sprintf("%d %s", points, stars)},
				templater.Field{Label: l.SolvedBy, Value: fmt.Sprintf("%d %s", c.SolvedNumber, l.Users)},
				l.FilesField(c),
			),
		}
	})
}
