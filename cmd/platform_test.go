package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/stretchr/testify/require"
)

type recordingPlatform struct {
	logins []*creds.Creds
	byURL  map[string]*scraper.Challenge
}

func (p *recordingPlatform) Name() string { return "Recorder" }

func (p *recordingPlatform) Login(c *creds.Creds) error {
	p.logins = append(p.logins, c)
	if c == nil {
		return scraper.AuthError("no credentials")
	}
	return nil
}

func (p *recordingPlatform) GetChallenges() ([]*scraper.Challenge, error) {
	return nil, scraper.Unsupported(p.Name(), "get challenges")
}

func (p *recordingPlatform) GetChallenge(url string) (*scraper.Challenge, error) {
	c, ok := p.byURL[url]
	if !ok {
		return nil, &scraper.ParseError{URL: url, Field: "title"}
	}
	cp := *c
	return &cp, nil
}

func (p *recordingPlatform) DownloadChallengeFiles(_ *scraper.Challenge, _ string) error {
	return nil
}

func (p *recordingPlatform) GenerateTemplate(c *scraper.Challenge, _ bool, _ bool) error {
	c.Template = c.Name
	return nil
}

func newRecorder() *recordingPlatform {
	return &recordingPlatform{byURL: map[string]*scraper.Challenge{
		"https://rec.example.org/1": {ID: "one", Platform: "Recorder", Name: "One", Category: "Web"},
		"https://rec.example.org/2": {ID: "two", Platform: "Recorder", Name: "Two", Category: "Pwn"},
	}}
}

func defFor(p *recordingPlatform, mode authMode) platformDef {
	return platformDef{
		Name: "Recorder",
		Use:  "recorder",
		Auth: mode,
		Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
			return p, c, nil
		},
	}
}

func TestRunLoginPolicy(t *testing.T) {
	f := &runFlag{Output: t.TempDir(), Urls: []string{"https://rec.example.org/1"}}

	p := newRecorder()
	require.NoError(t, run(defFor(p, authNone), f))
	require.Empty(t, p.logins)

	p = newRecorder()
	require.NoError(t, run(defFor(p, authOptional), f))
	require.Empty(t, p.logins)

	p = newRecorder()
	err := run(defFor(p, authRequired), f)
	require.ErrorIs(t, err, scraper.ErrAuth)
	require.Len(t, p.logins, 1)
}

func TestRunWritesFilteredChallenges(t *testing.T) {
	out := t.TempDir()
	f := &runFlag{
		Output:   out,
		Urls:     []string{"https://rec.example.org/1", "https://rec.example.org/2", "https://rec.example.org/404"},
		Category: "pwn",
	}
	require.NoError(t, run(defFor(newRecorder(), authNone), f))

	content, err := os.ReadFile(filepath.Join(out, "recorder", "two", "index.md"))
	require.NoError(t, err)
	require.Equal(t, "Two", string(content))
	require.NoDirExists(t, filepath.Join(out, "recorder", "one"))
}

func TestRunErrors(t *testing.T) {
	require.Error(t, run(defFor(newRecorder(), authNone), &runFlag{Output: t.TempDir()}))

	err := run(defFor(newRecorder(), authNone), &runFlag{Output: t.TempDir(), All: true})
	require.ErrorContains(t, err, "Recorder cannot list its challenges")
}

func TestPlatformCmdFlags(t *testing.T) {
	cmd, f := platformCmd(platformDef{Name: "Recorder", Use: "recorder", DefaultURL: "https://rec.example.org"})
	require.NoError(t, cmd.ParseFlags([]string{"--url", "https://rec.example.org/1", "-t", "--hugo"}))
	require.Equal(t, "https://rec.example.org", f.BaseURL)
	require.Equal(t, []string{"https://rec.example.org/1"}, f.Urls)
	require.True(t, f.Translated)
	require.True(t, f.Hugo)
	require.Equal(t, "writeups", f.Output)
}
