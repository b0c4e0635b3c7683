package ctfd_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/ctfd"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const listing = `{"success": true, "data": [
  {"id": 1, "name": "Sanity Check", "category": "Misc", "value": 50, "type": "standard", "solves": 300, "tags": []},
  {"id": 2, "name": "Secret Stage", "category": "Misc", "value": 500, "type": "hidden", "solves": 0, "tags": []},
  {"id": 12, "name": "Baby Heap", "category": "Pwn", "value": 250, "type": "standard", "solves": 14, "tags": [{"value": "heap"}]}
]}`

const detail = `{"success": true, "data": {
  "id": 12, "name": "Baby Heap", "category": "Pwn", "value": 250, "type": "standard", "solves": 14,
  "description": "<p>Overflow <strong>me</strong>.</p>",
  "connection_info": "nc pwn.example.org 1337",
  "tags": ["heap", "glibc"],
  "files": ["/files/8f2c/baby_heap.tar.gz?token=abc", "https://cdn.example.org/libc.so.6"]
}}`

func newServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			if r.Method == http.MethodGet {
				fmt.Fprint(w, `<form><input id="nonce" name="nonce" value="n0nce"></form>`)
				return
			}
			require.NoError(t, r.ParseForm())
			if r.PostForm.Get("nonce") != "n0nce" {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			if r.PostForm.Get("name") == "player" && r.PostForm.Get("password") == "s3cret" {
				fmt.Fprint(w, `<h1>Challenges</h1>`)
				return
			}
			fmt.Fprint(w, `<div class="alert">Your username or password is incorrect</div>`)
		case "/api/v1/challenges":
			fmt.Fprint(w, listing)
		case "/api/v1/challenges/12":
			fmt.Fprint(w, detail)
		case "/api/v1/challenges/2":
			fmt.Fprint(w, `{"success": false, "message": "You don't have the permission to view this challenge"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	srv := newServer(t)

	require.NoError(t, ctfd.New(srv.URL).Login(&creds.Creds{Username: "player", Password: "s3cret"}))

	err := ctfd.New(srv.URL).Login(&creds.Creds{Username: "player", Password: "guess"})
	require.ErrorIs(t, err, scraper.ErrAuth)

	err = ctfd.New(srv.URL).Login(&creds.Creds{Email: "player@example.org", Password: "s3cret"})
	require.ErrorIs(t, err, scraper.ErrAuth)
}

func TestLoginRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<form><input id="nonce" name="nonce" value="abc"></form>`)
			return
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	err := ctfd.New(srv.URL).Login(&creds.Creds{Username: "player", Password: "s3cret"})
	require.ErrorIs(t, err, scraper.ErrAuth)
	require.ErrorContains(t, err, "403")
}

func TestGetChallenges(t *testing.T) {
	srv := newServer(t)

	challenges, err := ctfd.New(srv.URL).GetChallenges()
	require.NoError(t, err)
	require.Len(t, challenges, 2)
	require.Equal(t, "sanity-check", challenges[0].ID)
	require.Equal(t, srv.URL+"/challenges#Baby%20Heap-12", challenges[1].URL)
	require.Equal(t, []string{"heap"}, ctfd.Tags(challenges[1]))
}

func TestGetChallenge(t *testing.T) {
	srv := newServer(t)
	cs := ctfd.New(srv.URL)

	for _, ref := range []string{srv.URL + "/challenges#Baby%20Heap-12", "12", srv.URL + "/api/v1/challenges/12"} {
		c, err := cs.GetChallenge(ref)
		require.NoError(t, err, ref)
		require.Equal(t, "baby-heap", c.ID)
	}

	c, err := cs.GetChallenge("12")
	require.NoError(t, err)
	want := []scraper.File{
		{Name: "baby_heap.tar.gz", URL: srv.URL + "/files/8f2c/baby_heap.tar.gz?token=abc"},
		{Name: "libc.so.6", URL: "https://cdn.example.org/libc.so.6"},
	}
	if diff := cmp.Diff(want, c.Files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "Overflow **me**.", c.Description)
	require.Equal(t, "nc pwn.example.org 1337", c.InfoString("connection_info"))

	require.NoError(t, cs.GenerateTemplate(c, true, false))
	require.Contains(t, c.Template, `tags: ["Pwn", "CTFd", "heap", "glibc"]`)
	require.Contains(t, c.Template, "- Difficulty: ⭐⭐ (250 points, 14 solves)\n")
	require.Contains(t, c.Template, "- Connection info: `nc pwn.example.org 1337`\n")
}

func TestGetChallengeErrors(t *testing.T) {
	srv := newServer(t)
	cs := ctfd.New(srv.URL)
	var parseErr *scraper.ParseError

	_, err := cs.GetChallenge(srv.URL + "/challenges")
	require.ErrorAs(t, err, &parseErr)

	// locked challenges answer with a permission message
	_, err = cs.GetChallenge("2")
	require.ErrorAs(t, err, &parseErr)

	_, err = cs.GetChallenge("99")
	var fetchErr *scraper.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}
