package theblackside_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/theblackside"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const challengePage = `<html><body><main>
<h1>  Le Chat   Noir </h1>
<p>Trouvez ce que cache l'image.</p>
<a href="/profil/neo"><span>neo</span></a>
<div class="metadata">
  <div class="button"><svg class="feather feather-award"></svg><span>35</span></div>
  <div class="button"><svg class="feather feather-check-circle"></svg><span>128</span></div>
  <a href="/challenges/steganographie"><span>Stéganographie</span></a>
</div>
<a class="startChall" href="/uploads/chat-noir.png">Démarrer</a>
</main></body></html>`

func newServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := r.Cookie("PHPSESSID")
		loggedIn := err == nil && session.Value == "valid"
		switch r.URL.Path {
		case "/":
			if loggedIn {
				fmt.Fprint(w, `<a href="/profil/neo">Mon profil</a>`)
				return
			}
			fmt.Fprint(w, `<a href="/connexion">Connexion</a>`)
		case "/challenges/steganographie/le-chat-noir":
			fmt.Fprint(w, challengePage)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	srv := newServer(t)

	require.NoError(t, theblackside.New(srv.URL, creds.Cookies{"PHPSESSID": "valid"}).Login(nil))

	err := theblackside.New(srv.URL, creds.Cookies{"PHPSESSID": "expired"}).Login(nil)
	require.ErrorIs(t, err, scraper.ErrAuth)

	err = theblackside.New(srv.URL, nil).Login(nil)
	require.ErrorIs(t, err, scraper.ErrAuth)
}

func TestGetChallenge(t *testing.T) {
	srv := newServer(t)
	cs := theblackside.New(srv.URL, creds.Cookies{"PHPSESSID": "valid"})
	require.NoError(t, cs.Login(nil))

	url := srv.URL + "/challenges/steganographie/le-chat-noir"
	c, err := cs.GetChallenge(url)
	require.NoError(t, err)

	want := &scraper.Challenge{
		ID:           "le-chat-noir",
		URL:          url,
		Platform:     "TheBlackSide",
		Name:         "Le Chat   Noir",
		Author:       "neo",
		Category:     "Steganography",
		Description:  "Trouvez ce que cache l'image.",
		Points:       scraper.IntPtr(35),
		SolvedNumber: 128,
		Files: []scraper.File{{
			Name: "chat-noir.png",
			URL:  srv.URL + "/uploads/chat-noir.png",
		}},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("GetChallenge() mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, cs.GenerateTemplate(c, false, true))
	// 35/12 rounds to 3 stars
	require.Contains(t, c.Template, "- Points: 35 ⭐⭐⭐\n")
	require.Contains(t, c.Template, "- Solved by: 128 users\n")
	require.Contains(t, c.TemplateTranslated, "- Résolu par: 128 utilisateurs\n")
}

func TestGetChallengesUnsupported(t *testing.T) {
	_, err := theblackside.New(theblackside.DefaultURL, nil).GetChallenges()
	require.ErrorIs(t, err, scraper.ErrUnsupportedOperation)
}
