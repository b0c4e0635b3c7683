package rctf_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/rctf"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const challs = `{"kind": "goodChallenges", "message": "The challenges were retrieved.", "data": [
  {"id": "b5c3c5a1", "name": "Baby RSA", "category": "crypto", "author": "aplet123", "points": 120, "solves": 88,
   "description": "Small *e*, big problems.",
   "files": [{"name": "chall.py", "url": "https://storage.example.org/uploads/chall.py"}, {"name": "out.txt", "url": "/uploads/out.txt"}]},
  {"id": "0d9a", "name": "Sanity", "category": "misc", "author": "admin", "points": 1, "solves": 900, "description": "", "files": []}
]}`

func newServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["teamToken"] != "team-token" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"kind": "badTokenVerification", "message": "The token provided is invalid."}`)
				return
			}
			fmt.Fprint(w, `{"kind": "goodLogin", "message": "The login was successful.", "data": {"authToken": "bearer-token"}}`)
		case "/api/v1/challs":
			if r.Header.Get("Authorization") != "Bearer bearer-token" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"kind": "badToken", "message": "The token provided is invalid."}`)
				return
			}
			fmt.Fprint(w, challs)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	srv := newServer(t)

	require.NoError(t, rctf.New(srv.URL).Login(&creds.Creds{TeamToken: "team-token"}))

	err := rctf.New(srv.URL).Login(&creds.Creds{TeamToken: "forged"})
	require.ErrorIs(t, err, scraper.ErrAuth)

	err = rctf.New(srv.URL).Login(&creds.Creds{})
	require.ErrorIs(t, err, scraper.ErrAuth)
}

func TestGetChallenges(t *testing.T) {
	srv := newServer(t)
	r := rctf.New(srv.URL)

	_, err := r.GetChallenges()
	var fetchErr *scraper.FetchError
	require.ErrorAs(t, err, &fetchErr)

	require.NoError(t, r.Login(&creds.Creds{TeamToken: "team-token"}))
	challenges, err := r.GetChallenges()
	require.NoError(t, err)
	require.Len(t, challenges, 2)

	want := &scraper.Challenge{
		ID:           "baby-rsa",
		URL:          srv.URL + "/challs#b5c3c5a1",
		Platform:     "rCTF",
		Name:         "Baby RSA",
		Author:       "aplet123",
		Category:     "crypto",
		Description:  "Small *e*, big problems.",
		Points:       scraper.IntPtr(120),
		SolvedNumber: 88,
		Files: []scraper.File{
			{Name: "chall.py", URL: "https://storage.example.org/uploads/chall.py"},
			{Name: "out.txt", URL: srv.URL + "/uploads/out.txt"},
		},
		AdditionalInfo: map[string]any{"rctf_id": "b5c3c5a1"},
	}
	if diff := cmp.Diff(want, challenges[0]); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}

	c, err := r.GetChallenge(challenges[1].URL)
	require.NoError(t, err)
	require.Equal(t, "Sanity", c.Name)

	_, err = r.GetChallenge("missing")
	var parseErr *scraper.ParseError
	require.ErrorAs(t, err, &parseErr)

	require.NoError(t, r.GenerateTemplate(challenges[0], false, false))
	require.Contains(t, challenges[0].Template, "- Difficulty: ⭐ (120 points, 88 solves)\n")
}

func TestTokenFromURL(t *testing.T) {
	base, token, err := rctf.TokenFromURL("https://ctf.example.org:8443/login?token=abc%2Bdef")
	require.NoError(t, err)
	require.Equal(t, "https://ctf.example.org:8443", base)
	require.Equal(t, "abc+def", token)

	_, _, err = rctf.TokenFromURL("https://ctf.example.org/login")
	require.Error(t, err)
}
