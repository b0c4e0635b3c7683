package cmd

import (
	"fmt"

	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/ctfd"
)

var ctfdFlag struct {
	Username string
	Password string
}

// ctfdCmd represents the ctfd command
var ctfdCmd, _ = platformCmd(platformDef{
	Name:  ctfd.Name,
	Use:   "ctfd",
	Short: "Scaffold writeups for any CTFd instance, needs --base-url and an account",
	Auth:  authRequired,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		if f.BaseURL == "" {
			return nil, nil, fmt.Errorf("--base-url is required for CTFd")
		}
		if ctfdFlag.Username != "" {
			if c == nil {
				c = &creds.Creds{}
			}
			c.Username = ctfdFlag.Username
			c.Password = ctfdFlag.Password
		}
		return ctfd.New(f.BaseURL).WithCache(f.cache()), c, nil
	},
})

func init() {
	rootCmd.AddCommand(ctfdCmd)
	ctfdCmd.Flags().StringVarP(&ctfdFlag.Username, "username", "s", "", "Username")
	ctfdCmd.Flags().StringVarP(&ctfdFlag.Password, "password", "p", "", "Password")
}
