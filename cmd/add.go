package cmd

import (
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/manual"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/templater"
	"github.com/ctfwriteup/ctfwriteup/function/writeup"
	"github.com/spf13/cobra"
)

var addFlag struct {
	Name        string
	Platform    string
	BaseURL     string
	URL         string
	Author      string
	Category    string
	Description string
	Difficulty  string
	Points      int
	Connection  string
	Tags        []string
	Files       []string
	Password    string
	Output      string
	Hugo        bool
	Translated  bool
	WriteupBy   string
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Scaffold the writeup of a challenge described by flags",
	Long: `This command prepares a writeup folder for a challenge whose platform has no
dedicated command. Files given with --file are downloaded into the files folder,
and the index files follow the same never-overwrite rule as the platform commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		if addFlag.Name == "" {
			log.Fatal("a challenge name is required")
		}
		if addFlag.WriteupBy != "" {
			templater.FrontMatterAuthor = addFlag.WriteupBy
		}

		cs := manual.New(addFlag.Platform, addFlag.BaseURL)
		c := &scraper.Challenge{
			URL:         addFlag.URL,
			Name:        addFlag.Name,
			Author:      addFlag.Author,
			Category:    addFlag.Category,
			Description: addFlag.Description,
		}
		if addFlag.Difficulty != "" {
			c.Difficulty = manual.ParseDifficulty(addFlag.Difficulty)
		}
		if cmd.Flags().Lookup("points").Changed {
			c.Points = scraper.IntPtr(addFlag.Points)
		}
		for _, f := range addFlag.Files {
			c.Files = append(c.Files, scraper.File{URL: f})
		}
		if len(addFlag.Tags) > 0 {
			c.SetInfo("tags", addFlag.Tags)
		}
		if addFlag.Connection != "" {
			c.SetInfo("connection_info", addFlag.Connection)
		}
		if addFlag.Password != "" {
			c.SetInfo("password", addFlag.Password)
		}

		g := writeup.New(cs, addFlag.Output)
		if _, err := g.FetchChallenge(cs.Add(c).URL); err != nil {
			log.Fatal(err)
		}
		if err := g.GenerateWriteupStructure(addFlag.Hugo, addFlag.Translated); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addFlag.Name, "name", "n", "", "challenge name")
	addCmd.Flags().StringVarP(&addFlag.Platform, "platform", "p", manual.Name, "platform the challenge comes from")
	addCmd.Flags().StringVarP(&addFlag.BaseURL, "base-url", "b", "", "url relative files are resolved against")
	addCmd.Flags().StringVarP(&addFlag.URL, "url", "u", "", "challenge url")
	addCmd.Flags().StringVar(&addFlag.Author, "author", "", "challenge author")
	addCmd.Flags().StringVarP(&addFlag.Category, "category", "c", "", "challenge category")
	addCmd.Flags().StringVar(&addFlag.Description, "description", "", "challenge description")
	addCmd.Flags().StringVar(&addFlag.Difficulty, "difficulty", "", "challenge difficulty")
	addCmd.Flags().IntVar(&addFlag.Points, "points", 0, "challenge points")
	addCmd.Flags().StringVar(&addFlag.Connection, "connection", "", "challenge connection info")
	addCmd.Flags().StringSliceVar(&addFlag.Tags, "tags", []string{}, "challenge tags")
	addCmd.Flags().StringSliceVarP(&addFlag.Files, "file", "f", []string{}, "file url to download, repeatable")
	addCmd.Flags().StringVar(&addFlag.Password, "zip-password", "", "password of the provided archives")
	addCmd.Flags().StringVarP(&addFlag.Output, "output", "o", "writeups", "output directory")
	addCmd.Flags().BoolVar(&addFlag.Hugo, "hugo", false, "prepend the hugo front-matter")
	addCmd.Flags().BoolVarP(&addFlag.Translated, "translated", "t", false, "also write index.fr.md")
	addCmd.Flags().StringVar(&addFlag.WriteupBy, "writeup-author", "", "author written in the front-matter")
	if err := addCmd.RegisterFlagCompletionFunc("platform", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		matches := make([]string, 0)
		for _, p := range platforms {
			if strings.HasPrefix(strings.ToLower(p.name), strings.ToLower(toComplete)) {
				matches = append(matches, p.name+"\t"+p.desc)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}); err != nil {
		log.Fatal(err)
	}
}
