package templater

import (
	"bytes"
	"embed"
	"math"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/ctfwriteup/ctfwriteup/function/scraper"
)

var (
	//go:embed template/*
	TemplateFile embed.FS

	// FrontMatterAuthor is written in the author key of the front-matter.
	FrontMatterAuthor = "Noham"

	// Now is the clock used for the front-matter date.
	Now = time.Now

	funcs = template.FuncMap{
		"quote": strconv.Quote,
	}
)

const dateLayout = "2006-01-02T15:04:05.000000"

type Lang int

const (
	EN Lang = iota
	FR
)

type Field struct {
	Label string
	Value string
}

// Page is one rendered writeup: front-matter keys and the metadata lines of
// the body.
type Page struct {
	Title   string
	Date    string
	Tags    []string
	Author  string
	Summary string
	Fields  []Field
}

// Builder returns the page of a challenge in the given language.
type Builder func(lang Lang) *Page

func templater(src string, obj interface{}) ([]byte, error) {
	var buf bytes.Buffer
	file, err := template.New(src).Funcs(funcs).ParseFS(TemplateFile, "template/"+src)
	if err != nil {
		return nil, err
	}
	if err := file.ExecuteTemplate(&buf, src, obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render returns the Markdown of p, prefixed by the hugo front-matter when
// hugoHeader is set.
func Render(p *Page, hugoHeader bool) (string, error) {
	var out []byte
	if hugoHeader {
		if p.Date == "" {
			p.Date = Now().Format(dateLayout)
		}
		if p.Author == "" {
			p.Author = FrontMatterAuthor
		}
		header, err := templater("header.md", p)
		if err != nil {
			return "", err
		}
		out = append(out, header...)
	}
	body, err := templater("body.md", p)
	if err != nil {
		return "", err
	}
	return string(append(out, body...)), nil
}

// Apply renders the english page into c.Template and, when translated is set,
// the french one into c.TemplateTranslated.
func Apply(c *scraper.Challenge, hugoHeader bool, translated bool, build Builder) error {
	tmpl, err := Render(build(EN), hugoHeader)
	if err != nil {
		return err
	}
	c.Template = tmpl
	if !translated {
		return nil
	}
	tmpl, err = Render(build(FR), hugoHeader)
	if err != nil {
		return err
	}
	c.TemplateTranslated = tmpl
	return nil
}

// Stars repeats the star glyph n times.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat("⭐", n)
}

// StarsFromPoints maps a score onto 1..5 stars, one star per scale points.
func StarsFromPoints(points int, scale float64) int {
	n := int(math.RoundToEven(float64(points) / scale))
	return min(5, max(1, n))
}

// FilesLine renders the files as Markdown links separated by ", ".
func FilesLine(files []scraper.File) string {
	links := make([]string, 0, len(files))
	for _, f := range files {
		link := "[" + f.Name + "](" + f.URL + ")"
		if f.Hash != "" {
			link += " *(SHA256: " + f.Hash + ")*"
		}
		links = append(links, link)
	}
	return strings.Join(links, ", ")
}

// Tags drops empty values and duplicates, keeping the first-seen order.
func Tags(tags ...string) []string {
	seen := map[string]bool{}
	res := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		res = append(res, tag)
	}
	return res
}
