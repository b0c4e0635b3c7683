package cmd

import (
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/crackmy"
)

// crackmyCmd represents the crackmy command
var crackmyCmd, _ = platformCmd(platformDef{
	Name:       crackmy.Name,
	Use:        "crackmy",
	Short:      "Scaffold writeups for crackmy.app crackmes, needs email and password",
	DefaultURL: crackmy.DefaultURL,
	Auth:       authRequired,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		return crackmy.New(f.BaseURL), c, nil
	},
})

func init() {
	rootCmd.AddCommand(crackmyCmd)
}
