package ctfd

import (
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/utils"
)

// fileUrl is an attachment path as served by the API, usually relative with
// a download token in the query.
type fileUrl string

// get filename from the url
func (fu fileUrl) FileName() string {
	return utils.LastPathSegment(string(fu))
}

func (fu fileUrl) File(s *scraper.Session) scraper.File {
	return scraper.File{
		Name: fu.FileName(),
		URL:  s.Resolve(string(fu)),
	}
}
