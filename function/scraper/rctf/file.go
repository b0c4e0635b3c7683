package rctf

import (
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
)

type File struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type fileUrl File

// File resolves relative upload links against the rCTF host.
func (fu fileUrl) File(s *scraper.Session) scraper.File {
	return scraper.File{
		Name: fu.Name,
		URL:  s.Resolve(fu.URL),
	}
}
