package crackmy

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/downloader"
	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/templater"
)

const (
	Name       = "Crackmy"
	DefaultURL = "https://crackmy.app"
)

// Difficulty is the label and the 0..10 rating published by crackmy.
type Difficulty struct {
	Label  string  `json:"difficulty" yaml:"difficulty"`
	Rating float64 `json:"difficultyRating" yaml:"difficultyRating"`
}

type Scraper struct {
	session *scraper.Session
}

type crackme struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      struct {
		Name string `json:"name"`
	} `json:"author"`
	OS               string  `json:"os"`
	Architecture     string  `json:"architecture"`
	QualityRating    float64 `json:"qualityRating"`
	Category         string  `json:"category"`
	Rating           float64 `json:"rating"`
	Difficulty       string  `json:"difficulty"`
	DifficultyRating float64 `json:"difficultyRating"`
	File             *struct {
		ID         string `json:"id"`
		FileName   string `json:"fileName"`
		FileSha256 string `json:"fileSha256"`
	} `json:"file"`
}

func New(url string) *Scraper {
	return &Scraper{session: scraper.NewSession(url)}
}

func (cs *Scraper) Name() string {
	return Name
}

// Login goes through the credentials callback of the site auth endpoint.
func (cs *Scraper) Login(c *creds.Creds) error {
	if err := c.ValidateFormLogin(); err != nil {
		return scraper.AuthError("%v", err)
	}

	var csrf struct {
		CsrfToken string `json:"csrfToken"`
	}
	if err := cs.session.GetJson("/api/auth/csrf", &csrf); err != nil {
		return scraper.AuthError("csrf token: %v", err)
	}
	if csrf.CsrfToken == "" {
		return scraper.AuthError("csrf token not found")
	}

	res, err := cs.session.PostForm("/api/auth/callback/credentials", map[string]string{
		"email":       c.Email,
		"password":    c.Password,
		"remember":    "false",
		"redirect":    "false",
		"csrfToken":   csrf.CsrfToken,
		"callbackUrl": cs.session.Url + "/",
		"json":        "true",
	})
	if err != nil {
		return scraper.AuthError("%v", err)
	}
	if res.StatusCode != 200 {
		return scraper.AuthError("login end with %d status", res.StatusCode)
	}
	var callback struct {
		Url string `json:"url"`
	}
	if err := res.UnmarshalJson(&callback); err != nil {
		return scraper.AuthError("unexpected callback answer: %v", err)
	}
	if strings.Contains(callback.Url, "error=CredentialsSignin") {
		return scraper.AuthError("invalid credential for %s", c.Email)
	}
	log.InfoH2("Logged in to %s as %s", Name, c.Email)
	return nil
}

func (cs *Scraper) GetChallenges() ([]*scraper.Challenge, error) {
	return nil, scraper.Unsupported(Name, "get challenges")
}

// apiPath maps /crackmes/<id> onto /api/crackmes/<id>.
func apiPath(challengeURL string) (string, error) {
	u, err := url.Parse(challengeURL)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(u.Path, "/crackmes/") {
		return "", fmt.Errorf("%s is not a crackme url", challengeURL)
	}
	return "/api" + u.Path, nil
}

func (cs *Scraper) GetChallenge(challengeURL string) (*scraper.Challenge, error) {
	path, err := apiPath(challengeURL)
	if err != nil {
		return nil, err
	}
	var data crackme
	if err := cs.session.GetJson(path, &data); err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, &scraper.ParseError{URL: challengeURL, Field: "title"}
	}
	if data.File == nil {
		return nil, &scraper.ParseError{URL: challengeURL, Field: "file"}
	}

	var link struct {
		Url string `json:"url"`
	}
	if err := cs.session.PostJson("/api/download/create", map[string]string{"fileId": data.File.ID}, &link); err != nil {
		return nil, err
	}
	if link.Url == "" {
		return nil, &scraper.ParseError{URL: challengeURL, Field: "download url"}
	}

	return &scraper.Challenge{
		ID:          strings.ToLower(strings.ReplaceAll(data.Title, " ", "-")),
		URL:         challengeURL,
		Platform:    Name,
		Name:        data.Title,
		Author:      data.Author.Name,
		Category:    "Reverse",
		Description: data.Description,
		Difficulty: Difficulty{
			Label:  data.Difficulty,
			Rating: data.DifficultyRating,
		},
		Files: []scraper.File{{
			Name: data.File.FileName,
			URL:  cs.session.Resolve(link.Url),
			Hash: data.File.FileSha256,
		}},
		AdditionalInfo: map[string]any{
			"platform":     data.OS,
			"architecture": data.Architecture,
			"quality":      data.QualityRating,
			"category":     data.Category,
			"rating":       data.Rating,
		},
	}, nil
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.session, c, dst, "")
}

// Stars is half the difficulty rating, at least one.
func Stars(d Difficulty) int {
	return max(1, int(d.Rating)/2)
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	d, _ := c.Difficulty.(Difficulty)
	summaryRating := formatRating(max(0, d.Rating))
	bodyRating := summaryRating
	if d.Rating <= 0 {
		bodyRating = "1"
	}
	category := strings.ToLower(c.Category)
	label := strings.ToLower(d.Label)

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		return &templater.Page{
			Title: c.Name,
			Tags:  templater.Tags(c.Category, Name, c.InfoString("platform"), c.InfoString("architecture")),
			Summary: lang.Pick(
				fmt.Sprintf("Writeup for %s from %s. A %s challenge with a %s difficulty (%s/10).", c.Name, c.Platform, category, label, summaryRating),
				fmt.Sprintf("Writeup pour %s de %s. Un challenge de %s avec une difficulté %s (%s/10).", c.Name, c.Platform, category, label, summaryRating),
			),
			Fields: append(l.Common(c),
				templater.Field{Label: l.Difficulty, Value: fmt.Sprintf("%s (%s/10)", templater.Stars(Stars(d)), bodyRating)},
				l.FilesField(c),
			),
		}
	})
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
