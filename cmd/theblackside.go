package cmd

import (
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/theblackside"
)

// theblacksideCmd represents the theblackside command
var theblacksideCmd, _ = platformCmd(platformDef{
	Name:       theblackside.Name,
	Use:        "theblackside",
	Short:      "Scaffold writeups for TheBlackSide challenges, needs a --cookies file",
	DefaultURL: theblackside.DefaultURL,
	Auth:       authRequired,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		var cookies creds.Cookies
		if f.Cookies != "" {
			var err error
			if cookies, err = creds.LoadCookies(f.Cookies); err != nil {
				return nil, nil, scraper.AuthError("%v", err)
			}
		}
		return theblackside.New(f.BaseURL, cookies), c, nil
	},
})

func init() {
	rootCmd.AddCommand(theblacksideCmd)
}
