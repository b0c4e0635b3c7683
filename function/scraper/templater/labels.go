package templater

import (
	"fmt"

	"github.com/ctfwriteup/ctfwriteup/function/scraper"
)

type Labels struct {
	URL         string
	Author      string
	Category    string
	Description string
	Difficulty  string
	Files       string
	Points      string
	SolvedBy    string
	Solves      string
	Users       string
	SuccessRate string
	Connection  string
}

var labels = map[Lang]Labels{
	EN: {
		URL:         "Challenge URL",
		Author:      "Author",
		Category:    "Category",
		Description: "Challenge description",
		Difficulty:  "Difficulty",
		Files:       "Files provided",
		Points:      "Points",
		SolvedBy:    "Solved by",
		Solves:      "solves",
		Users:       "users",
		SuccessRate: "success rate",
		Connection:  "Connection info",
	},
	FR: {
		URL:         "URL du challenge",
		Author:      "Auteur",
		Category:    "Catégorie",
		Description: "Description du challenge",
		Difficulty:  "Difficulté",
		Files:       "Fichiers fournis",
		Points:      "Points",
		SolvedBy:    "Résolu par",
		Solves:      "résolutions",
		Users:       "utilisateurs",
		SuccessRate: "taux de réussite",
		Connection:  "Informations de connexion",
	},
}

func (l Lang) Labels() Labels {
	return labels[l]
}

// Pick returns en or fr depending on l.
func (l Lang) Pick(en string, fr string) string {
	if l == FR {
		return fr
	}
	return en
}

func (l Labels) URLField(c *scraper.Challenge) Field {
	return Field{l.URL, fmt.Sprintf("[%s - %s](%s)", c.Name, c.Platform, c.URL)}
}

func (l Labels) AuthorField(c *scraper.Challenge) Field {
	return Field{l.Author, c.Author}
}

func (l Labels) CategoryField(c *scraper.Challenge) Field {
	return Field{l.Category, c.Category}
}

func (l Labels) DescriptionField(c *scraper.Challenge) Field {
	return Field{l.Description, c.Description}
}

func (l Labels) FilesField(c *scraper.Challenge) Field {
	return Field{l.Files, FilesLine(c.Files)}
}

// Common returns the url, author, category and description lines in the
// order most platforms print them.
func (l Labels) Common(c *scraper.Challenge) []Field {
	return []Field{
		l.URLField(c),
		l.AuthorField(c),
		l.CategoryField(c),
		l.DescriptionField(c),
	}
}
