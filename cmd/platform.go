package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/cache"
	"github.com/ctfwriteup/ctfwriteup/function/creds"
	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/templater"
	"github.com/ctfwriteup/ctfwriteup/function/writeup"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

type authMode int

const (
	// authNone platforms are public, Login is never needed.
	authNone authMode = iota
	// authOptional platforms log in only when a config is given.
	authOptional
	// authRequired platforms fail without credentials.
	authRequired
)

// runFlag holds the flags shared by every platform command.
type runFlag struct {
	BaseURL    string
	Urls       []string
	All        bool
	Config     string
	Cookies    string
	Output     string
	Hugo       bool
	Translated bool
	CacheDir   string
	Verbose    bool
	Author     string
	Category   string
}

// builder creates the adapter of a command. It may complete the credentials
// loaded from --config with platform specific flags.
type builder func(f *runFlag, c *creds.Creds) (scraper.Platform, *creds.Creds, error)

type platformDef struct {
	Name       string
	Use        string
	Short      string
	DefaultURL string
	Auth       authMode
	Build      builder
}

type platformInfo struct {
	name string
	desc string
}

// platforms lists the supported platforms for shell completion.
var platforms []platformInfo

// platformCmd returns the command driving one platform, and its flags so the
// caller can bind extra ones.
func platformCmd(def platformDef) (*cobra.Command, *runFlag) {
	platforms = append(platforms, platformInfo{name: def.Name, desc: def.Short})
	f := &runFlag{}
	cmd := &cobra.Command{
		Use:   def.Use + " [challenge url...]",
		Short: def.Short,
		Run: func(cmd *cobra.Command, args []string) {
			f.Urls = append(f.Urls, args...)
			if err := run(def, f); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.Flags().StringVarP(&f.BaseURL, "base-url", "b", def.DefaultURL, "platform url")
	cmd.Flags().StringSliceVarP(&f.Urls, "url", "u", []string{}, "challenge url to scaffold, repeatable")
	cmd.Flags().BoolVarP(&f.All, "all", "a", false, "scaffold every challenge the platform lists")
	cmd.Flags().StringVarP(&f.Config, "config", "c", "", "json credential file")
	cmd.Flags().StringVar(&f.Cookies, "cookies", "", "json cookie file")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "writeups", "output directory")
	cmd.Flags().BoolVar(&f.Hugo, "hugo", false, "prepend the hugo front-matter")
	cmd.Flags().BoolVarP(&f.Translated, "translated", "t", false, "also write index.fr.md")
	cmd.Flags().StringVar(&f.CacheDir, "cache-dir", "", "reuse challenge listings stored in this directory")
	cmd.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "print the fetched records")
	cmd.Flags().StringVar(&f.Author, "writeup-author", "", "author written in the front-matter")
	cmd.Flags().StringVar(&f.Category, "filter-category", "", "keep only the challenges of this category")
	return cmd, f
}

func (f *runFlag) cache() *cache.Cache {
	return cache.New(f.CacheDir)
}

func loadCreds(path string) (*creds.Creds, error) {
	if path == "" {
		return nil, nil
	}
	c, err := creds.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrAuth, err)
	}
	return c, nil
}

func run(def platformDef, f *runFlag) error {
	if len(f.Urls) == 0 && !f.All {
		return fmt.Errorf("nothing to do: pass challenge urls or --all")
	}
	if f.Author != "" {
		templater.FrontMatterAuthor = f.Author
	}

	c, err := loadCreds(f.Config)
	if err != nil {
		return err
	}
	p, c, err := def.Build(f, c)
	if err != nil {
		return err
	}
	switch {
	case def.Auth == authRequired, def.Auth == authOptional && c != nil:
		if err := p.Login(c); err != nil {
			return err
		}
	}

	g := writeup.New(p, f.Output)
	if f.All {
		if err := g.FetchChallenges(); err != nil {
			if errors.Is(err, scraper.ErrUnsupportedOperation) {
				return fmt.Errorf("%s cannot list its challenges, pass challenge urls instead", p.Name())
			}
			return err
		}
	}
	for _, url := range f.Urls {
		if _, err := g.FetchChallenge(url); err != nil {
			log.Error("cannot fetch %s: %v", url, err)
		}
	}

	if f.Category != "" {
		g.Filter(func(c *scraper.Challenge) bool {
			return strings.EqualFold(c.Category, f.Category)
		})
	}
	if f.Verbose || log.IsDebug() {
		for _, c := range g.Challenges {
			data, err := prettyjson.Marshal(c)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		}
	}

	if len(g.Challenges) == 0 {
		log.Warn("no challenge to scaffold")
		return nil
	}
	return g.GenerateWriteupStructure(f.Hugo, f.Translated)
}
