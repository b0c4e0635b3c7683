package cmd

import (
	"fmt"
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/rctf"
)

var rctfToken string

// rctfCmd represents the rctf command
var rctfCmd, _ = platformCmd(platformDef{
	Name:  rctf.Name,
	Use:   "rctf",
	Short: "Scaffold writeups for any rCTF instance, needs --base-url and a team token",
	Auth:  authRequired,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		base := f.BaseURL
		if base == "" {
			return nil, nil, fmt.Errorf("--base-url is required for rCTF")
		}
		token := rctfToken
		// a login link carries the team token
		if strings.Contains(base, "token=") {
			var err error
			if base, token, err = rctf.TokenFromURL(base); err != nil {
				return nil, nil, err
			}
		}
		if token != "" {
			if c == nil {
				c = &creds.Creds{}
			}
			c.TeamToken = token
		}
		return rctf.New(base).WithCache(f.cache()), c, nil
	},
})

func init() {
	rootCmd.AddCommand(rctfCmd)
	rctfCmd.Flags().StringVarP(&rctfToken, "token", "k", "", "your team token")
}
