package scraper

import (
	"github.com/ctfwriteup/ctfwriteup/function/creds"
)

// Challenge is the record every platform normalises its pages into.
// Files, Template and TemplateTranslated are filled in by later calls on the
// same value.
type Challenge struct {
	ID                 string         `json:"id" yaml:"id"`
	URL                string         `json:"url" yaml:"url"`
	Platform           string         `json:"platform" yaml:"platform"`
	Name               string         `json:"name" yaml:"name"`
	Author             string         `json:"author" yaml:"author"`
	Category           string         `json:"category" yaml:"category"`
	Description        string         `json:"description" yaml:"description"`
	Difficulty         any            `json:"difficulty" yaml:"difficulty"`
	Points             *int           `json:"points" yaml:"points"`
	SolvedNumber       int            `json:"solved_number" yaml:"solved_number"`
	Files              []File         `json:"files" yaml:"files"`
	AdditionalInfo     map[string]any `json:"additional_info" yaml:"additional_info"`
	Template           string         `json:"template,omitempty" yaml:"template,omitempty"`
	TemplateTranslated string         `json:"template_translated,omitempty" yaml:"template_translated,omitempty"`
}

type File struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty"`
}

// Platform is implemented by every site adapter.
type Platform interface {
	// Name is the platform label stored in Challenge.Platform.
	Name() string
	// Login establishes the session. Sites without auth accept a nil c.
	Login(c *creds.Creds) error
	// GetChallenges lists every challenge, or returns ErrUnsupportedOperation.
	GetChallenges() ([]*Challenge, error)
	GetChallenge(url string) (*Challenge, error)
	DownloadChallengeFiles(c *Challenge, dst string) error
	// GenerateTemplate fills c.Template, and c.TemplateTranslated when
	// translated is set.
	GenerateTemplate(c *Challenge, hugoHeader bool, translated bool) error
}

// Info returns c.AdditionalInfo[key], or nil when absent.
func (c *Challenge) Info(key string) any {
	if c.AdditionalInfo == nil {
		return nil
	}
	return c.AdditionalInfo[key]
}

// InfoString returns c.AdditionalInfo[key] when it holds a string.
func (c *Challenge) InfoString(key string) string {
	s, _ := c.Info(key).(string)
	return s
}

// InfoFloat returns c.AdditionalInfo[key] when it holds a number. Integers
// are accepted since a cached listing may decode whole floats as ints.
func (c *Challenge) InfoFloat(key string) (float64, bool) {
	switch v := c.Info(key).(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func (c *Challenge) SetInfo(key string, value any) {
	if c.AdditionalInfo == nil {
		c.AdditionalInfo = map[string]any{}
	}
	c.AdditionalInfo[key] = value
}

// PointsValue returns the score, 0 when unknown.
func (c *Challenge) PointsValue() int {
	if c.Points == nil {
		return 0
	}
	return *c.Points
}

// IntPtr is a helper for the optional Points field.
func IntPtr(i int) *int {
	return &i
}
