package cmd

import (
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/imaginaryctf"
)

var imaginaryctfSharing string

// imaginaryctfCmd represents the imaginaryctf command
var imaginaryctfCmd, _ = platformCmd(platformDef{
	Name:       imaginaryctf.Name,
	Use:        "imaginaryctf",
	Short:      "Scaffold writeups for ImaginaryCTF archive challenges",
	DefaultURL: imaginaryctf.DefaultURL,
	Auth:       authNone,
	Build: func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error) {
		return imaginaryctf.New(f.BaseURL).
			WithCache(f.cache()).
			WithSharing(imaginaryctfSharing), c, nil
	},
})

func init() {
	rootCmd.AddCommand(imaginaryctfCmd)
	imaginaryctfCmd.Flags().StringVar(&imaginaryctfSharing, "sharing-url", imaginaryctf.CybersharingURL, "host serving the attachments")
}
