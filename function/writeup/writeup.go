package writeup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
)

var unsafeRe = regexp.MustCompile(`[^a-zA-Z0-9\-_ ]+`)

// Generator lays out the writeup folders of the challenges fetched from one
// platform.
type Generator struct {
	Platform   scraper.Platform
	OutputDir  string
	Challenges []*scraper.Challenge
	// Incomplete counts the listed challenges FetchChallenges could not
	// complete and kept as listed.
	Incomplete int
}

func New(platform scraper.Platform, outputDir string) *Generator {
	return &Generator{
		Platform:  platform,
		OutputDir: outputDir,
	}
}

// FetchChallenges replaces the accumulated challenges with the platform
// listing. Listed records are completed with GetChallenge since most
// listings lack descriptions or files, a record that fails to complete is
// kept as listed.
func (g *Generator) FetchChallenges() error {
	listing, err := g.Platform.GetChallenges()
	if err != nil {
		return err
	}
	g.Challenges = make([]*scraper.Challenge, 0, len(listing))
	g.Incomplete = 0
	for _, listed := range listing {
		c, err := g.Platform.GetChallenge(listed.URL)
		if err != nil {
			log.ErrorH2("cannot complete %s: %v", listed.Name, err)
			g.Incomplete++
			c = listed
		}
		g.Challenges = append(g.Challenges, c)
	}
	log.Info("Fetched %d challenges from %s", len(g.Challenges), g.Platform.Name())
	if g.Incomplete > 0 {
		log.Warn("%d of %d challenges kept their listing data only", g.Incomplete, len(g.Challenges))
	}
	return nil
}

// FetchChallenge appends the challenge behind url.
func (g *Generator) FetchChallenge(url string) (*scraper.Challenge, error) {
	c, err := g.Platform.GetChallenge(url)
	if err != nil {
		return nil, err
	}
	g.Challenges = append(g.Challenges, c)
	return c, nil
}

// Filter keeps the accumulated challenges f returns true for.
func (g *Generator) Filter(f func(c *scraper.Challenge) bool) {
	res := g.Challenges[:0]
	for _, c := range g.Challenges {
		if f(c) {
			res = append(res, c)
		}
	}
	g.Challenges = res
}

// ChallengeDir is <output>/<platform>/<sanitized id>.
func (g *Generator) ChallengeDir(c *scraper.Challenge) string {
	return filepath.Join(g.OutputDir, strings.ToLower(c.Platform), SanitizeFilename(c.ID))
}

// GenerateWriteupStructure creates the folder of every accumulated
// challenge, downloads its files and writes index.md, plus index.fr.md when
// translated is set. Existing index files are never overwritten.
func (g *Generator) GenerateWriteupStructure(hugoHeader bool, translated bool) error {
	for _, c := range g.Challenges {
		dir := g.ChallengeDir(c)
		filesDir := filepath.Join(dir, "files")
		if err := os.MkdirAll(filesDir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", filesDir, err)
		}

		if err := g.Platform.DownloadChallengeFiles(c, filesDir); err != nil {
			log.ErrorH2("some files of %s were not downloaded: %v", c.Name, err)
		}

		if err := g.Platform.GenerateTemplate(c, hugoHeader, translated); err != nil {
			return fmt.Errorf("template of %s: %w", c.Name, err)
		}

		written := writeIndex(filepath.Join(dir, "index.md"), c.Template)
		if translated {
			written = writeIndex(filepath.Join(dir, "index.fr.md"), c.TemplateTranslated) || written
		}
		if written {
			log.SuccessWriteup(c.Name, c.Platform)
		}
	}
	return nil
}

func writeIndex(destination string, content string) bool {
	if err := WriteContent(destination, strings.NewReader(content)); err != nil {
		if os.IsExist(err) {
			log.InfoH2("Writeup %s already exists. Skipping...", destination)
			return false
		}
		log.ErrorH2("failed to write to %q: %v", destination, err)
		return false
	}
	log.InfoH3("File processed successfully: %s", destination)
	return true
}

// WriteContent creates destination and copies content into it. It fails
// with an error satisfying os.IsExist when the file is already there.
func WriteContent(destination string, content io.Reader) error {
	destFile, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, content); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// SanitizeFilename keeps ASCII letters, digits, space, hyphen and
// underscore, then trims.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(unsafeRe.ReplaceAllString(name, ""))
}
