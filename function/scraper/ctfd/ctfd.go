package ctfd

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/cache"
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/downloader"
	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/templater"
	"github.com/ctfwriteup/ctfwriteup/function/utils"
)

const Name = "CTFd"

type Scraper struct {
	session *scraper.Session
	cache   *cache.Cache

	challengesPath string
	loginPath      string
}

// Create a New CTFd scraper
func New(url string) *Scraper {
	return &Scraper{
		session:        scraper.NewSession(url),
		challengesPath: "/api/v1/challenges",
		loginPath:      "/login",
	}
}

// WithCache stores the listing under c between runs.
func (cs *Scraper) WithCache(c *cache.Cache) *Scraper {
	cs.cache = c
	return cs
}

func (cs *Scraper) Name() string {
	return Name
}

// login as user with username and password provided in c
func (cs *Scraper) Login(c *creds.Creds) error {
	if err := c.ValidateUsernameLogin(); err != nil {
		return scraper.AuthError("%v", err)
	}
	nonce, err := cs.getNonce()
	if err != nil {
		return scraper.AuthError("%v", err)
	}
	res, err := cs.session.PostForm(cs.loginPath, map[string]string{
		"name":     c.Username,
		"password": c.Password,
		"_submit":  "Submit",
		"nonce":    nonce,
	})
	if err != nil {
		return scraper.AuthError("%v", err)
	}
	if res.StatusCode != http.StatusOK {
		return scraper.AuthError("login end with %d status", res.StatusCode)
	}
	if strings.Contains(res.String(), "incorrect") {
		return scraper.AuthError("invalid credential for %s", c.Username)
	}
	log.InfoH2("Logged in to %s as %s", cs.HostName(), c.Username)
	return nil
}

// Get nonce from login page
func (cs *Scraper) getNonce() (string, error) {
	doc, err := cs.session.GetDocument(cs.loginPath)
	if err != nil {
		return "", err
	}
	nonce, exist := doc.Find("#nonce").Attr("value")
	if !exist {
		return "", fmt.Errorf("nonce doesn't exist")
	}
	return nonce, nil
}

// get hostname from the session url
func (cs *Scraper) HostName() string {
	res, err := url.Parse(cs.session.Url)
	if err != nil {
		return cs.session.Url
	}
	return res.Hostname()
}

func (cs *Scraper) getData(path string, data any) error {
	res, err := cs.session.Get(path)
	if err != nil {
		return err
	}
	return getData(res.Bytes(), data)
}

// get all challenges from /api/v1/challenges in ctfd platform
func (cs *Scraper) GetChallenges() ([]*scraper.Challenge, error) {
	var listing []*scraper.Challenge
	key := "ctfd-" + cs.HostName()
	if err := cs.cache.Get(key, &listing); err == nil {
		log.InfoH2("Loaded %d %s challenges from cache", len(listing), cs.HostName())
		return listing, nil
	}

	var data ChallengesInfo
	if err := cs.getData(cs.challengesPath, &data); err != nil {
		return nil, err
	}
	for _, info := range data.Visible() {
		listing = append(listing, info.toChallenge(cs.session))
	}

	if err := cs.cache.Set(key, listing); err != nil {
		log.Warn("cannot cache %s listing: %v", cs.HostName(), err)
	}
	return listing, nil
}

// GetChallenge fetches the full record of a board link such as
// /challenges#name-12, an API link or a bare id.
func (cs *Scraper) GetChallenge(ref string) (*scraper.Challenge, error) {
	id, err := challengeID(ref)
	if err != nil {
		return nil, &scraper.ParseError{URL: ref, Field: "challenge id"}
	}
	var data ChallengeFullInfo
	path := utils.UrlJoinPath(cs.challengesPath, strconv.Itoa(id))
	if err := cs.getData(path, &data); err != nil {
		return nil, err
	}
	if data.Id == 0 {
		return nil, &scraper.ParseError{URL: cs.session.Resolve(path), Field: "challenge"}
	}
	return data.toChallenge(cs.session), nil
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.session, c, dst, "")
}

// Stars gives one star per 100 points.
func Stars(points int) int {
	return templater.StarsFromPoints(points, 100)
}

// Tags returns the challenge tags stored in the record, cached ones included.
func Tags(c *scraper.Challenge) []string {
	switch v := c.Info("tags").(type) {
	case []string:
		return v
	case []any:
		return tagValues(v)
	}
	return nil
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	return Template(c, hugoHeader, translated)
}

// Template renders the writeup shared by the API driven engines.
func Template(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	points := c.PointsValue()
	stars := templater.Stars(Stars(points))
	category := strings.ToLower(c.Category)
	tags := templater.Tags(append([]string{c.Category, c.Platform}, Tags(c)...)...)

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		fields := append(l.Common(c),
			templater.Field{Label: l.Difficulty, Value: fmt.Sprintf("%s (%d points, %d %s)", stars, points, c.SolvedNumber, l.Solves)},
		)
		if conn := c.InfoString("connection_info"); conn != "" {
			fields = append(fields, templater.Field{Label: l.Connection, Value: "`" + conn + "`"})
		}
		return &templater.Page{
			Title: c.Name,
			Tags:  tags,
			Summary: lang.Pick(
				fmt.Sprintf("Writeup for %s from %s. A %d points %s challenge with %d solves.", c.Name, c.Platform, points, category, c.SolvedNumber),
				fmt.Sprintf("Writeup pour %s de %s. Un challenge de %s à %d points avec %d résolutions.", c.Name, c.Platform, category, points, c.SolvedNumber),
			),
			Fields: append(fields, l.FilesField(c)),
		}
	})
}
