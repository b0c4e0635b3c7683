package rootme

import (
	"fmt"
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
	Name       = "Root-Me"
	DefaultURL = "https://www.root-me.org"

	loginPath = "/?page=login&lang=fr&ajah=1"
	loggedIn  = "Vous êtes enregistré"
)

var difficultyStars = map[string]int{
	"Très facile":    1,
	"Facile":         2,
	"Moyen":          3,
	"Difficile":      4,
	"Très difficile": 5,
}

type Scraper struct {
	session *scraper.Session
}

func New(url string) *Scraper {
	return &Scraper{session: scraper.NewSession(url)}
}

func (cs *Scraper) Name() string {
	return Name
}

// Login runs the SPIP ajax form: a first call returns the signed form
// arguments, the second one submits them with the credentials.
func (cs *Scraper) Login(c *creds.Creds) error {
	if err := c.ValidateFormLogin(); err != nil {
		return scraper.AuthError("%v", err)
	}

	res, err := cs.session.PostForm(loginPath, map[string]string{"triggerAjaxLoad": ""})
	if err != nil {
		return scraper.AuthError("%v", err)
	}
	doc, err := scraper.Document(res)
	if err != nil {
		return scraper.AuthError("login form: %v", err)
	}
	args, ok := doc.Find(`span.form-hidden input[name="formulaire_action_args"]`).First().Attr("value")
	if !ok {
		return scraper.AuthError("formulaire_action_args not found")
	}

	res, err = cs.session.PostForm(loginPath, map[string]string{
		"var_ajax":               "form",
		"page":                   "login",
		"lang":                   "fr",
		"ajah":                   "1",
		"formulaire_action":      "login",
		"formulaire_action_args": args,
		"formulaire_action_sign": "",
		"var_login":              c.Email,
		"password":               c.Password,
	})
	if err != nil {
		return scraper.AuthError("%v", err)
	}
	if res.StatusCode != 200 || !strings.Contains(res.String(), loggedIn) {
		return scraper.AuthError("invalid credential for %s", c.Email)
	}
	log.InfoH2("Logged in to %s as %s", Name, c.Email)
	return nil
}

func (cs *Scraper) GetChallenges() ([]*scraper.Challenge, error) {
	return nil, scraper.Unsupported(Name, "get challenges")
}

// firstInt parses the first word of s, thousands separators removed.
func firstInt(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(fields[0], ",", ""))
	return n, err == nil
}

func (cs *Scraper) GetChallenge(url string) (*scraper.Challenge, error) {
	doc, err := cs.session.GetDocument(url)
	if err != nil {
		return nil, err
	}

	title := htmlutil.Text(doc.Find("h1.challenge-titre-41").First())
	if title == "" {
		return nil, &scraper.ParseError{URL: url, Field: "title"}
	}
	points, ok := firstInt(htmlutil.Text(doc.Find("h2.challenge-score-41").First()))
	if !ok {
		return nil, &scraper.ParseError{URL: url, Field: "score"}
	}

	// the category is the parent folder of the challenge page
	var category string
	if parts := strings.Split(url, "/"); len(parts) >= 2 {
		category = parts[len(parts)-2]
	}

	difficulty := "Unknown"
	doc.Find(`a[class*="difficulte"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		classes := strings.Fields(a.AttrOr("class", ""))
		if len(classes) == 0 || !strings.Contains(classes[len(classes)-1], "a") {
			return true
		}
		difficulty = strings.TrimSpace(strings.Split(a.AttrOr("title", ""), ":")[0])
		return false
	})

	files := []scraper.File{}
	doc.Find("a.button.small.radius").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		files = append(files, scraper.File{
			Name: utils.LastPathSegment(href),
			URL:  cs.session.Resolve(href),
		})
	})

	solved, _ := firstInt(htmlutil.Text(doc.Find(`a[title="Qui a validé ?"]`).First()))
	votes, _ := firstInt(htmlutil.Text(doc.Find("span.notation_valeur").First()))
	completion := "Unknown"
	if rate := doc.Find("span.left.gras").First(); rate.Length() > 0 {
		completion = strings.ReplaceAll(htmlutil.Text(rate), "%", "")
	}

	return &scraper.Challenge{
		ID:           strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		URL:          url,
		Platform:     Name,
		Name:         title,
		Author:       htmlutil.Text(doc.Find("a.txt_0minirezo").First()),
		Category:     category,
		Description:  htmlutil.Markdown(doc.Find("div.challenge-descriptif-41").First(), cs.session.Url),
		Difficulty:   difficulty,
		Points:       scraper.IntPtr(points),
		SolvedNumber: solved,
		Files:        files,
		AdditionalInfo: map[string]any{
			"votes":           votes,
			"completion_rate": completion,
		},
	}, nil
}

func (cs *Scraper) DownloadChallengeFiles(c *scraper.Challenge, dst string) error {
	return downloader.DownloadFiles(cs.session, c, dst, "")
}

// Stars maps "Très facile".."Très difficile" onto 1..5 stars.
func Stars(difficulty string) int {
	if n, ok := difficultyStars[difficulty]; ok {
		return n
	}
	return 1
}

func (cs *Scraper) GenerateTemplate(c *scraper.Challenge, hugoHeader bool, translated bool) error {
	difficulty, _ := c.Difficulty.(string)
	rate := c.InfoString("completion_rate")
	if rate == "" {
		rate = "Unknown"
	}
	stars := templater.Stars(Stars(difficulty))
	category := strings.ToLower(c.Category)

	return templater.Apply(c, hugoHeader, translated, func(lang templater.Lang) *templater.Page {
		l := lang.Labels()
		return &templater.Page{
			Title: c.Name,
			Tags:  templater.Tags(c.Category, c.Platform),
			Summary: lang.Pick(
				fmt.Sprintf(`Writeup for %s from %s. A %s challenge with a "%s" difficulty (success rate: %s%%).`, c.Name, c.Platform, category, strings.ToLower(difficulty), rate),
				fmt.Sprintf(`Writeup pour %s de %s. Un challenge %s de difficulté "%s" (taux de réussite : %s%%).`, c.Name, c.Platform, category, strings.ToLower(difficulty), rate),
			),
			Fields: append(l.Common(c),
				templater.Field{Label: l.Difficulty, Value: fmt.Sprintf("%s (%s, %s: %s%%)", stars, difficulty, l.SuccessRate, rate)},
				l.FilesField(c),
			),
		}
	})
}
