package rctf

import (
	"fmt"
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/htmlutil"
)

type Challenges struct {
	Kind    string          `json:"kind"`
	Message string          `json:"message"`
	Data    []ChallengeData `json:"data"`
}

type ChallengeData struct {
	Files       []fileUrl `json:"files"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Points      int       `json:"points"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Solves      int       `json:"solves"`
}

func (r *RCTFScraper) GetChalls() (*Challenges, error) {
	var challs Challenges
	if err := r.session.GetJson("/api/v1/challs", &challs); err != nil {
		return nil, err
	}
	if challs.Kind != "goodChallenges" {
		return nil, fmt.Errorf("request end with %s status: %s", challs.Kind, challs.Message)
	}
	return &challs, nil
}

func (c *ChallengeData) toChallenge(s *scraper.Session) *scraper.Challenge {
	files := make([]scraper.File, 0, len(c.Files))
	for _, f := range c.Files {
		files = append(files, f.File(s))
	}
	return &scraper.Challenge{
		ID:           strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c.Name)), " ", "-"),
		URL:          s.Resolve("/challs") + "#" + c.ID,
		Platform:     Name,
		Name:         c.Name,
		Author:       c.Author,
		Category:     c.Category,
		Description:  htmlutil.Description(c.Description, s.Url),
		Points:       scraper.IntPtr(c.Points),
		SolvedNumber: c.Solves,
		Files:        files,
		AdditionalInfo: map[string]any{
			"rctf_id": c.ID,
		},
	}
}

// GetChallenges lists /api/v1/challs. rCTF has no per-challenge endpoint,
// the listing already carries every field.
func (r *RCTFScraper) GetChallenges() ([]*scraper.Challenge, error) {
	var listing []*scraper.Challenge
	key := "rctf-" + r.HostName()
	if err := r.cache.Get(key, &listing); err == nil {
		log.InfoH2("Loaded %d %s challenges from cache", len(listing), r.HostName())
		r.setListing(listing)
		return listing, nil
	}

	challs, err := r.GetChalls()
	if err != nil {
		return nil, err
	}
	for i := range challs.Data {
		listing = append(listing, challs.Data[i].toChallenge(r.session))
	}

	if err := r.cache.Set(key, listing); err != nil {
		log.Warn("cannot cache %s listing: %v", r.HostName(), err)
	}
	r.setListing(listing)
	return listing, nil
}

func (r *RCTFScraper) setListing(listing []*scraper.Challenge) {
	r.byID = make(map[string]*scraper.Challenge, len(listing))
	for _, c := range listing {
		r.byID[c.InfoString("rctf_id")] = c
	}
}

// GetChallenge looks ref up in the listing. ref is a board link ending with
// "#<id>" or the bare rCTF id.
func (r *RCTFScraper) GetChallenge(ref string) (*scraper.Challenge, error) {
	if r.byID == nil {
		if _, err := r.GetChallenges(); err != nil {
			return nil, err
		}
	}
	id := ref
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		id = ref[i+1:]
	}
	c, ok := r.byID[id]
	if !ok {
		return nil, &scraper.ParseError{URL: ref, Field: "challenge in /api/v1/challs listing"}
	}
	cp := *c
	return &cp, nil
}
