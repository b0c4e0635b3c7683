package rctf

import (
	"fmt"
	"net/url"

	"github.com/ctfwriteup/ctfwriteup/function/cache"
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/downloader"
	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/ctfd"
)

const Name = "rCTF"

type RCTFScraper struct {
	session *scraper.Session
	cache   *cache.Cache

	byID map[string]*scraper.Challenge
}

func New(url string) *RCTFScraper {
	return &RCTFScraper{session: scraper.NewSession(url)}
}

// WithCache stores the listing under c between runs.
func (r *RCTFScraper) WithCache(c *cache.Cache) *RCTFScraper {
	r.cache = c
	return r
}

func (r *RCTFScraper) Name() string {
	return Name
}

// Login trades the team token for a bearer token used by every later call.
func (r *RCTFScraper) Login(c *creds.Creds) error {
	if err := c.ValidateTeamToken(); err != nil {
		return scraper.AuthError("%v", err)
	}
	var data struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
		Data    struct {
			AuthToken string `json:"authToken"`
		} `json:"data"`
	}
	if err := r.session.PostJson("/api/v1/auth/login", map[string]string{
		"teamToken": c.TeamToken,
	}, &data); err != nil {
		return scraper.AuthError("team token refused: %v", err)
	}
	if data.Data.AuthToken == "" {
		return scraper.AuthError("%s: %s", data.Kind, data.Message)
	}
	r.session.Client.SetCommonBearerAuthToken(data.Data.AuthToken)
	log.InfoH2("Logged in to %s", r.HostName())
	return nil
}

// TokenFromURL splits an rCTF login link such as
// https://ctf.example.org/login?token=... into the base url and team token.
func TokenFromURL(raw string) (string, string, error) {
	rctfUrl, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	token := rctfUrl.Query().Get("token")
	if token == "" {
		return "", "", fmt.Errorf("token not found in the url")
	}
	return rctfUrl.Scheme + "://" + rctfUrl.Host, token, nil
}

func (r *RCTFScraper) HostName() string {
	res, err := url.Parse(r.session.Url)
	if err != nil {
		return r.session.Url
	}
	return res.Hostname()
}

func (r *RCTFScraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(r.session, c, dst, "")
}

// GenerateTemplate renders the same page as the CTFd engine, both expose
// points, solves and tags.
func (r *RCTFScraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	return ctfd.Template(c, hugoHeader, translated)
}
