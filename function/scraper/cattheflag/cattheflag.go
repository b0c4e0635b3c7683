package cattheflag

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
	Name       = "CatTheFlag"
	DefaultURL = "https://cattheflag.org"
)

var (
	slugRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

	difficultyStars = map[string]int{
		"facile":    1,
		"simple":    2,
		"medium":    3,
		"difficile": 4,
	}
)

// Scraper needs the listing of /defis.php to answer GetChallenge: a
// challenge page alone lacks category, difficulty and score.
type Scraper struct {
	session *scraper.Session
	cache   *cache.Cache

	listing []*scraper.Challenge
	byURL   map[string]*scraper.Challenge
}

func New(url string) *Scraper {
	return &Scraper{session: scraper.NewSession(url)}
}

// WithCache stores the listing under c between runs.
func (cs *Scraper) WithCache(c *cache.Cache) *Scraper {
	cs.cache = c
	return cs
}

func (cs *Scraper) Name() string {
	return Name
}

func (cs *Scraper) Login(c *creds.Creds) error {
	if err := c.ValidateFormLogin(); err != nil {
		return scraper.AuthError("%v", err)
	}

	doc, err := cs.session.GetDocument("/connexion.php")
	if err != nil {
		return scraper.AuthError("login page: %v", err)
	}
	csrf, ok := doc.Find(`input[name="csrf_token"]`).Attr("value")
	if !ok {
		return scraper.AuthError("csrf token not found")
	}

	res, err := cs.session.PostForm("/connexion.php", map[string]string{
		"csrf_token":   csrf,
		"email":        c.Email,
		"mot_de_passe": c.Password,
	})
	if err != nil {
		return scraper.AuthError("%v", err)
	}
	if res.StatusCode != 200 {
		return scraper.AuthError("login end with %d status", res.StatusCode)
	}
	// the form is served again when the credentials are refused
	if strings.Contains(res.String(), `name="mot_de_passe"`) {
		return scraper.AuthError("invalid credential for %s", c.Email)
	}
	log.InfoH2("Logged in to %s as %s", Name, c.Email)
	return nil
}

func (cs *Scraper) cacheKey() string {
	u, err := url.Parse(cs.session.Url)
	if err != nil {
		return "cattheflag"
	}
	return "cattheflag-" + u.Host
}

func (cs *Scraper) GetChallenges() ([]*scraper.Challenge, error) {
	var listing []*scraper.Challenge
	if err := cs.cache.Get(cs.cacheKey(), &listing); err == nil {
		log.InfoH2("Loaded %d %s challenges from cache", len(listing), Name)
		cs.setListing(listing)
		return listing, nil
	}

	doc, err := cs.session.GetDocument("/defis.php")
	if err != nil {
		return nil, err
	}

	var parseErr error
	doc.Find("div.challeng__wrap").EachWithBreak(func(_ int, section *goquery.Selection) bool {
		category := htmlutil.Text(section.Find("h3").First())
		if category == "Histoire" {
			return true
		}
		rows := section.Find("table tr")
		if rows.Length() < 2 {
			return true
		}
		// first row is the header
		rows.Slice(1, goquery.ToEnd).EachWithBreak(func(_ int, row *goquery.Selection) bool {
			c, err := cs.parseRow(category, row)
			if err != nil {
				parseErr = err
				return false
			}
			listing = append(listing, c)
			return true
		})
		return parseErr == nil
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

func (cs *Scraper) parseRow(category string, row *goquery.Selection) (*scraper.Challenge, error) {
	listURL := cs.session.Resolve("/defis.php")
	cols := row.Find("th, td")
	if cols.Length() < 5 {
		return nil, &scraper.ParseError{URL: listURL, Field: "challenge row"}
	}

	name := htmlutil.Text(cols.Eq(0))
	href, _ := cols.Eq(3).Find("a").Attr("href")
	id := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	if href != "" {
		id = strings.TrimSuffix(utils.LastPathSegment(href), ".php")
	}

	points, err := strconv.Atoi(htmlutil.Text(cols.Eq(2)))
	if err != nil {
		return nil, &scraper.ParseError{URL: listURL, Field: "points of " + name}
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(htmlutil.Text(cols.Eq(4)), "%", "")), 64)
	if err != nil {
		return nil, &scraper.ParseError{URL: listURL, Field: "validation rate of " + name}
	}

	return &scraper.Challenge{
		ID:             id,
		URL:            cs.session.Resolve(href),
		Platform:       Name,
		Name:           name,
		Category:       category,
		Difficulty:     htmlutil.Text(cols.Eq(1)),
		Points:         scraper.IntPtr(points),
		AdditionalInfo: map[string]any{"validation_rate": rate},
	}, nil
}

func (cs *Scraper) setListing(listing []*scraper.Challenge) {
	cs.listing = listing
	cs.byURL = make(map[string]*scraper.Challenge, len(listing))
	for _, c := range listing {
		cs.byURL[c.URL] = c
	}
}

// GetChallenge completes the listed record of url with the description,
// author and file of its page. The listing is fetched on first use.
func (cs *Scraper) GetChallenge(url string) (*scraper.Challenge, error) {
	if cs.byURL == nil {
		if _, err := cs.GetChallenges(); err != nil {
			return nil, err
		}
	}
	listed, ok := cs.byURL[url]
	if !ok {
		return nil, &scraper.ParseError{URL: url, Field: "challenge in /defis.php listing"}
	}

	doc, err := cs.session.GetDocument(url)
	if err != nil {
		return nil, err
	}
	if doc.Find("h1").Length() == 0 {
		return nil, &scraper.ParseError{URL: url, Field: "title"}
	}

	c := *listed
	c.Description = htmlutil.Text(doc.Find(`p[style="color:white"]`).First())
	c.Author = htmlutil.Text(doc.Find(`a[href*="page_membre.php"]`).First())
	c.Files = []scraper.File{}
	if href, ok := doc.Find(`a[href*="cdn.cattheflag.org"]`).First().Attr("href"); ok {
		c.Files = append(c.Files, scraper.File{
			Name: utils.LastPathSegment(href),
			URL:  href,
		})
	}
	return &c, nil
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.session, c, dst, "")
}

// Stars maps the french difficulty labels, unknown labels get one star.
func Stars(difficulty string) int {
	if n, ok := difficultyStars[strings.ToLower(difficulty)]; ok {
		return n
	}
	return 1
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	difficulty, _ := c.Difficulty.(string)
	rate := "unknown"
	if r, ok := c.InfoFloat("validation_rate"); ok {
		rate = strconv.FormatFloat(r, 'f', -1, 64)
	}
	category := strings.ToLower(c.Category)
	stars := templater.Stars(Stars(difficulty))

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		return &templater.Page{
			Title: c.Name,
			Tags:  templater.Tags(c.Category, Name),
			Summary: lang.Pick(
				fmt.Sprintf(`Writeup for %s from %s. A %s challenge with a "%s" difficulty (success rate: %s%%).`, c.Name, c.Platform, category, strings.ToLower(difficulty), rate),
				fmt.Sprintf("Writeup pour %s de %s. Un challenge de %s avec une difficulté %s (taux de réussite : %s%%).", c.Name, c.Platform, category, strings.ToLower(difficulty), rate),
			),
			Fields: append(l.Common(c),
				templater.Field{Label: l.Difficulty, Value: fmt.Sprintf("%s (%s, %s: %s%%)", stars, difficulty, l.SuccessRate, rate)},
				l.FilesField(c),
			),
		}
	})
}
