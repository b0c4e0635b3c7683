package ecsc_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/ecsc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const challengePage = `<html><body>
<h1 class="documentFirstHeading">Baby Heap</h1>
<div class="field"><span>Description</span><div><span>Get a shell on the service.</span></div></div>
<div class="field"><span>Difficulty</span><div class="difficulty"><i></i><span>Medium</span></div></div>
<div class="field"><span>Provider</span><span>ANSSI</span></div>
<div class="field"><span>Tags</span><span class="challenge-tags"><span>Pwn</span><span>heap</span></span></div>
<div class="field"><span>Other artefacts</span>
  <ul class="other-artefacts">
    <li><a href="/files/baby_heap.tar.gz">baby_heap.tar.gz</a></li>
    <li><a href="https://cdn.example.org/libc.so.6">libc.so.6</a></li>
  </ul>
</div>
<div class="field"><span>Additional Info</span><span>Docker provided</span></div>
<div class="field"><span>Event</span><span>ECSC 2023</span></div>
</body></html>`

const sparsePage = `<html><body>
<h1 class="documentFirstHeading">Lonely Flag</h1>
</body></html>`

func newServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/challenges/baby-heap":
			fmt.Fprint(w, challengePage)
		case "/challenges/lonely-flag":
			fmt.Fprint(w, sparsePage)
		case "/challenges/broken":
			fmt.Fprint(w, `<html><body><h2>nothing</h2></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetChallenge(t *testing.T) {
	srv := newServer(t)
	cs := ecsc.New(srv.URL)
	require.NoError(t, cs.Login(nil))

	url := srv.URL + "/challenges/baby-heap"
	c, err := cs.GetChallenge(url)
	require.NoError(t, err)

	want := &scraper.Challenge{
		ID:          "baby-heap",
		URL:         url,
		Platform:    "ECSC",
		Name:        "Baby Heap",
		Author:      "ANSSI",
		Category:    "Pwn",
		Description: "Get a shell on the service.",
		Difficulty:  "Medium",
		Files: []scraper.File{
			{Name: "baby_heap.tar.gz", URL: srv.URL + "/files/baby_heap.tar.gz"},
			{Name: "libc.so.6", URL: "https://cdn.example.org/libc.so.6"},
		},
		AdditionalInfo: map[string]any{
			"event": "ECSC 2023",
			"extra": "Docker provided",
		},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("GetChallenge() mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, cs.GenerateTemplate(c, true, true))
	require.Contains(t, c.Template, "- Difficulty: ⭐⭐ (Medium)\n")
	require.Contains(t, c.Template, `tags: ["Pwn", "ECSC"]`)
	require.Contains(t, c.Template, `A pwn challenge with a \"medium\" difficulty.`)
	require.Contains(t, c.TemplateTranslated, "- Difficulté: ⭐⭐ (Medium)\n")
}

func TestGetChallengeDefaults(t *testing.T) {
	srv := newServer(t)

	c, err := ecsc.New(srv.URL).GetChallenge(srv.URL + "/challenges/lonely-flag")
	require.NoError(t, err)
	require.Equal(t, "Unknown", c.Author)
	require.Equal(t, "Uncategorized", c.Category)
	require.Equal(t, "Unknown", c.Difficulty)
	require.Equal(t, "", c.Description)
	require.Empty(t, c.Files)

	_, err = ecsc.New(srv.URL).GetChallenge(srv.URL + "/challenges/broken")
	var parseErr *scraper.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "title", parseErr.Field)
}

func TestStars(t *testing.T) {
	require.Equal(t, 1, ecsc.Stars("Easy"))
	require.Equal(t, 3, ecsc.Stars("Hard"))
	require.Equal(t, 1, ecsc.Stars("Unknown"))
}
