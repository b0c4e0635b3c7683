package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctfwriteup/ctfwriteup/function/cache"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestListingCache(t *testing.T) {
	dir := t.TempDir()
	c := cache.New(dir)

	var missing []*scraper.Challenge
	require.ErrorIs(t, c.Get("cattheflag.org/defis", &missing), cache.ErrNotFound)

	listing := []*scraper.Challenge{{
		ID:             "stegano-1",
		URL:            "https://cattheflag.org/defis/stegano-1.php",
		Platform:       "CatTheFlag",
		Name:           "Stegano 1",
		Category:       "Stéganographie",
		Difficulty:     "Facile",
		Points:         scraper.IntPtr(10),
		AdditionalInfo: map[string]any{"validation_rate": 42.5},
	}}
	require.NoError(t, c.Set("cattheflag.org/defis", listing))

	_, err := os.Stat(filepath.Join(dir, "cattheflag.org_defis.yaml"))
	require.NoError(t, err)

	var got []*scraper.Challenge
	require.NoError(t, c.Get("cattheflag.org/defis", &got))
	if diff := cmp.Diff(listing, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("cached listing mismatch (-want +got):\n%s", diff)
	}
}

func TestDisabledCache(t *testing.T) {
	c := cache.New("")
	require.False(t, c.Enabled())
	require.NoError(t, c.Set("key", []string{"a"}))

	var got []string
	require.ErrorIs(t, c.Get("key", &got), cache.ErrNotFound)
}
