package crackmy_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/crackmy"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const crackmeJSON = `{
	"title": "Baby Crackme",
	"description": "Patch or keygen.",
	"author": {"name": "xusheng"},
	"os": "Linux",
	"architecture": "x86-64",
	"qualityRating": 4,
	"category": "Keygen",
	"rating": 4.5,
	"difficulty": "Medium",
	"difficultyRating": 7,
	"file": {"id": "f-42", "fileName": "baby.zip", "fileSha256": "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"}
}`

func newServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/csrf":
			fmt.Fprint(w, `{"csrfToken": "tok"}`)
		case "/api/auth/callback/credentials":
			require.NoError(t, r.ParseForm())
			if r.PostForm.Get("csrfToken") != "tok" || r.PostForm.Get("password") != "hunter2" {
				fmt.Fprint(w, `{"url": "https://crackmy.app/api/auth/error?error=CredentialsSignin&provider=credentials"}`)
				return
			}
			fmt.Fprint(w, `{"url": "https://crackmy.app/"}`)
		case "/api/crackmes/abc":
			fmt.Fprint(w, crackmeJSON)
		case "/api/download/create":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "f-42", body["fileId"])
			fmt.Fprint(w, `{"url": "/api/download/f-42?sig=1"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	srv := newServer(t)

	cs := crackmy.New(srv.URL)
	require.NoError(t, cs.Login(&creds.Creds{Email: "player@example.com", Password: "hunter2"}))

	err := crackmy.New(srv.URL).Login(&creds.Creds{Email: "player@example.com", Password: "wrong"})
	require.ErrorIs(t, err, scraper.ErrAuth)

	err = crackmy.New(srv.URL).Login(&creds.Creds{Email: "player@example.com"})
	require.ErrorIs(t, err, scraper.ErrAuth)
}

func TestGetChallenge(t *testing.T) {
	srv := newServer(t)
	cs := crackmy.New(srv.URL)

	c, err := cs.GetChallenge(srv.URL + "/crackmes/abc")
	require.NoError(t, err)

	want := &scraper.Challenge{
		ID:          "baby-crackme",
		URL:         srv.URL + "/crackmes/abc",
		Platform:    "Crackmy",
		Name:        "Baby Crackme",
		Author:      "xusheng",
		Category:    "Reverse",
		Description: "Patch or keygen.",
		Difficulty:  crackmy.Difficulty{Label: "Medium", Rating: 7},
		Files: []scraper.File{{
			Name: "baby.zip",
			URL:  srv.URL + "/api/download/f-42?sig=1",
			Hash: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		}},
		AdditionalInfo: map[string]any{
			"platform":     "Linux",
			"architecture": "x86-64",
			"quality":      4.0,
			"category":     "Keygen",
			"rating":       4.5,
		},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("GetChallenge() mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, cs.GenerateTemplate(c, true, false))
	require.Contains(t, c.Template, "- Difficulty: ⭐⭐⭐ (7/10)\n")
	require.Contains(t, c.Template, "*(SHA256: 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08)*")
	require.Contains(t, c.Template, "A reverse challenge with a medium difficulty (7/10).")
	require.Contains(t, c.Template, `tags: ["Reverse", "Crackmy", "Linux", "x86-64"]`)
}

func TestGetChallengeRejectsForeignURL(t *testing.T) {
	_, err := crackmy.New(crackmy.DefaultURL).GetChallenge("https://crackmy.app/users/abc")
	require.Error(t, err)
}

func TestStars(t *testing.T) {
	require.Equal(t, 1, crackmy.Stars(crackmy.Difficulty{Rating: 0}))
	require.Equal(t, 1, crackmy.Stars(crackmy.Difficulty{Rating: 1}))
	require.Equal(t, 5, crackmy.Stars(crackmy.Difficulty{Rating: 10}))
}

func TestGetChallengesUnsupported(t *testing.T) {
	_, err := crackmy.New(crackmy.DefaultURL).GetChallenges()
	require.ErrorIs(t, err, scraper.ErrUnsupportedOperation)
}
