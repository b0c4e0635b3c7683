package cmd

import (
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/crackmes"
)

// crackmesCmd represents the crackmes command
var crackmesCmd, _ = platformCmd(platformDef{
	Name:       crackmes.Name,
	Use:        "crackmes",
	Short:      "Scaffold writeups for crackmes.one crackmes",
	DefaultURL: crackmes.DefaultURL,
	Auth:       authNone,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		return crackmes.New(f.BaseURL), c, nil
	},
})

func init() {
	rootCmd.AddCommand(crackmesCmd)
}
