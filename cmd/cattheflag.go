package cmd

import (
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/cattheflag"
)

// cattheflagCmd represents the cattheflag command
var cattheflagCmd, _ = platformCmd(platformDef{
	Name:       cattheflag.Name,
	Use:        "cattheflag",
	Short:      "Scaffold writeups for CatTheFlag challenges, needs email and password",
	DefaultURL: cattheflag.DefaultURL,
	Auth:       authRequired,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		return cattheflag.New(f.BaseURL).WithCache(f.cache()), c, nil
	},
})

func init() {
	rootCmd.AddCommand(cattheflagCmd)
}
