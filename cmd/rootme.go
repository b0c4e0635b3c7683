package cmd

import (
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/rootme"
)

// rootmeCmd represents the rootme command
var rootmeCmd, _ = platformCmd(platformDef{
	Name:       rootme.Name,
	Use:        "rootme",
	Short:      "Scaffold writeups for Root-Me challenges, logs in when a config is given",
	DefaultURL: rootme.DefaultURL,
	Auth:       authOptional,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		return rootme.New(f.BaseURL), c, nil
	},
})

func init() {
	rootCmd.AddCommand(rootmeCmd)
}
