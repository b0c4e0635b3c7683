package cmd

import (
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/ecsc"
)

// ecscCmd represents the ecsc command
var ecscCmd, _ = platformCmd(platformDef{
	Name:       ecsc.Name,
	Use:        "ecsc",
	Short:      "Scaffold writeups for ECSC archive challenges",
	DefaultURL: ecsc.DefaultURL,
	Auth:       authNone,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		return ecsc.New(f.BaseURL), c, nil
	},
})

func init() {
	rootCmd.AddCommand(ecscCmd)
}
