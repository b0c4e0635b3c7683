package cmd

import (
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/hackropole"
)

// hackropoleCmd represents the hackropole command
var hackropoleCmd, _ = platformCmd(platformDef{
	Name:       hackropole.Name,
	Use:        "hackropole",
	Short:      "Scaffold writeups for Hackropole challenges, logs in when a token config is given",
	DefaultURL: hackropole.DefaultURL,
	Auth:       authOptional,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		return hackropole.New(f.BaseURL), c, nil
	},
})

func init() {
	rootCmd.AddCommand(hackropoleCmd)
}
