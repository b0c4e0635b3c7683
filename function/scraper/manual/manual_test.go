package manual_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/manual"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	cs := manual.New("", "https://ctf.example.org")
	c := cs.Add(&scraper.Challenge{
		Name:  "Baby Heap",
		Files: []scraper.File{{URL: "/files/baby_heap.tar.gz"}},
	})

	require.Equal(t, "Manual", c.Platform)
	require.Equal(t, "baby-heap", c.ID)
	require.Equal(t, "#baby-heap", c.URL)
	require.Equal(t, "Unknown", c.Author)
	require.Equal(t, "Uncategorized", c.Category)
	require.Equal(t, []scraper.File{
		{Name: "baby_heap.tar.gz", URL: "https://ctf.example.org/files/baby_heap.tar.gz"},
	}, c.Files)

	listing, err := cs.GetChallenges()
	require.NoError(t, err)
	require.Len(t, listing, 1)

	got, err := cs.GetChallenge("#baby-heap")
	require.NoError(t, err)
	require.Equal(t, "Baby Heap", got.Name)
	require.NotSame(t, c, got)

	_, err = cs.GetChallenge("#nope")
	var parseErr *scraper.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestGenerateTemplate(t *testing.T) {
	cs := manual.New("Local CTF", "")
	c := cs.Add(&scraper.Challenge{
		Name:     "Format",
		Author:   "alice",
		Category: "Pwn",
		Points:   scraper.IntPtr(300),
		AdditionalInfo: map[string]any{
			"tags":            []string{"printf", "Pwn"},
			"connection_info": "nc chall.local 1337",
		},
	})

	require.NoError(t, cs.GenerateTemplate(c, true, true))
	require.Contains(t, c.Template, `tags: ["Pwn", "Local CTF", "printf"]`)
	require.Contains(t, c.Template, "- Difficulty: ⭐⭐⭐ (300 points)\n")
	require.Contains(t, c.Template, "- Connection info: `nc chall.local 1337`\n")
	require.Contains(t, c.Template, "## Writeup")
	require.Contains(t, c.TemplateTranslated, "- Difficulté: ⭐⭐⭐ (300 points)\n")
	require.Contains(t, c.TemplateTranslated, "Writeup pour Format de Local CTF.")
}

func TestStars(t *testing.T) {
	require.Equal(t, 4, manual.Stars(&scraper.Challenge{Difficulty: 4}))
	require.Equal(t, 2, manual.Stars(&scraper.Challenge{Difficulty: 9, Points: scraper.IntPtr(150)}))
	require.Equal(t, 1, manual.Stars(&scraper.Challenge{Difficulty: "insane"}))
}

func TestParseDifficulty(t *testing.T) {
	require.Equal(t, 4, manual.ParseDifficulty(" 4"))
	require.Equal(t, "insane", manual.ParseDifficulty("insane"))

	cs := manual.New("", "")
	c := cs.Add(&scraper.Challenge{Name: "Keygen", Difficulty: manual.ParseDifficulty("4")})
	require.Equal(t, 4, manual.Stars(c))
	require.NoError(t, cs.GenerateTemplate(c, false, false))
	require.Contains(t, c.Template, "- Difficulty: ⭐⭐⭐⭐ (4)\n")
}

func TestDownloadChallengeFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ELF")
	}))
	t.Cleanup(srv.Close)

	cs := manual.New("", srv.URL)
	c := cs.Add(&scraper.Challenge{Name: "Rev", Files: []scraper.File{{URL: "/dl/chall"}}})
	dst := t.TempDir()
	require.NoError(t, cs.DownloadChallengeFiles(c, dst))

	data, err := os.ReadFile(filepath.Join(dst, "chall"))
	require.NoError(t, err)
	require.Equal(t, "ELF", string(data))
}
