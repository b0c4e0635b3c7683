package ctfd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/scraper/htmlutil"
)

// ChallengeInfo is one entry of /api/v1/challenges.
type ChallengeInfo struct {
	Id         int    `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Value      int    `json:"value"`
	Type       string `json:"type"`
	Solves     int    `json:"solves"`
	Tags       []any  `json:"tags"`
	SolvedByMe bool   `json:"solved_by_me"`
}

// ChallengeFullInfo is the answer of /api/v1/challenges/<id>.
type ChallengeFullInfo struct {
	Id             int       `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Tags           []any     `json:"tags"`
	Value          int       `json:"value"`
	ConnectionInfo string    `json:"connection_info"`
	Type           string    `json:"type"`
	Solves         int       `json:"solves"`
	SolvedByMe     bool      `json:"solved_by_me"`
	Files          []fileUrl `json:"files"`
}

// tagValues accepts both tag shapes CTFd serves: plain strings and
// {"value": ...} objects.
func tagValues(tags []any) []string {
	res := make([]string, 0, len(tags))
	for _, tag := range tags {
		switch v := tag.(type) {
		case string:
			res = append(res, v)
		case map[string]any:
			if s, ok := v["value"].(string); ok {
				res = append(res, s)
			}
		}
	}
	return res
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// challengeURL is the link the CTFd board opens a challenge modal with.
func challengeURL(s *scraper.Session, name string, id int) string {
	return fmt.Sprintf("%s#%s-%d", s.Resolve("/challenges"), url.PathEscape(name), id)
}

// challengeID extracts the numeric id of a board link, an API link or a
// bare id.
func challengeID(ref string) (int, error) {
	key := ref
	if i := strings.LastIndex(key, "#"); i >= 0 {
		key = key[i+1:]
	} else if i := strings.LastIndex(strings.TrimRight(key, "/"), "/"); i >= 0 {
		key = strings.TrimRight(key, "/")[i+1:]
	}
	if i := strings.LastIndex(key, "-"); i >= 0 {
		key = key[i+1:]
	}
	return strconv.Atoi(key)
}

func (ci *ChallengeInfo) toChallenge(s *scraper.Session) *scraper.Challenge {
	return &scraper.Challenge{
		ID:             slug(ci.Name),
		URL:            challengeURL(s, ci.Name, ci.Id),
		Platform:       Name,
		Name:           ci.Name,
		Category:       ci.Category,
		Points:         scraper.IntPtr(ci.Value),
		SolvedNumber:   ci.Solves,
		Files:          []scraper.File{},
		AdditionalInfo: map[string]any{"ctfd_id": ci.Id, "tags": tagValues(ci.Tags)},
	}
}

func (cfi *ChallengeFullInfo) toChallenge(s *scraper.Session) *scraper.Challenge {
	c := &scraper.Challenge{
		ID:           slug(cfi.Name),
		URL:          challengeURL(s, cfi.Name, cfi.Id),
		Platform:     Name,
		Name:         cfi.Name,
		Category:     cfi.Category,
		Description:  htmlutil.Description(cfi.Description, s.Url),
		Points:       scraper.IntPtr(cfi.Value),
		SolvedNumber: cfi.Solves,
		Files:        make([]scraper.File, 0, len(cfi.Files)),
		AdditionalInfo: map[string]any{
			"ctfd_id": cfi.Id,
			"tags":    tagValues(cfi.Tags),
		},
	}
	if cfi.ConnectionInfo != "" {
		c.SetInfo("connection_info", cfi.ConnectionInfo)
	}
	for _, f := range cfi.Files {
		c.Files = append(c.Files, f.File(s))
	}
	return c
}
