package scraper

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/imroc/req/v3"
)

const UserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/110.0"

// Session is the HTTP client owned by one platform adapter. Relative paths
// are resolved against Url.
type Session struct {
	Url    string
	Client *req.Client
}

func NewSession(url string) *Session {
	return &Session{
		Url: strings.TrimRight(url, "/"),
		Client: req.C().
			SetUserAgent(UserAgent).
			SetCommonHeaders(map[string]string{
				"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
				"Accept-Language": "fr-FR,fr;q=0.8,en-US;q=0.5,en;q=0.3",
			}).
			SetCommonRetryCount(2).
			SetCommonRetryBackoffInterval(200*time.Millisecond, 2*time.Second),
	}
}

func (s *Session) SetCookies(cookies ...*http.Cookie) {
	s.Client.SetCommonCookies(cookies...)
}

// Resolve returns path joined to the session url, absolute urls are kept.
func (s *Session) Resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.Url + path
}

func (s *Session) check(method string, url string, res *req.Response, err error) (*req.Response, error) {
	if err != nil {
		log.Error("%s request failed for %s: %v", method, url, err)
		return nil, &FetchError{URL: url, Err: err}
	}
	if res.StatusCode != http.StatusOK {
		log.Debug("%s %s returned %d: %s", method, url, res.StatusCode, res.String())
		return nil, &FetchError{URL: url, StatusCode: res.StatusCode}
	}
	log.Debug("%s request successful for: %s", method, url)
	return res, nil
}

// Get fetches path and fails with a FetchError unless the answer is a 200.
func (s *Session) Get(path string) (*req.Response, error) {
	url := s.Resolve(path)
	log.InfoH3("Making GET request to: %s", url)
	res, err := s.Client.R().Get(url)
	return s.check("GET", url, res, err)
}

func (s *Session) GetJson(path string, data any) error {
	res, err := s.Get(path)
	if err != nil {
		return err
	}
	if err := res.UnmarshalJson(data); err != nil {
		return fmt.Errorf("error unmarshal json: %w", err)
	}
	return nil
}

func (s *Session) GetDocument(path string) (*goquery.Document, error) {
	res, err := s.Get(path)
	if err != nil {
		return nil, err
	}
	return Document(res)
}

// PostForm submits an url-encoded form. The status is not checked since
// login flows inspect redirects and error pages themselves.
func (s *Session) PostForm(path string, form map[string]string) (*req.Response, error) {
	url := s.Resolve(path)
	log.InfoH3("Making POST request to: %s", url)
	res, err := s.Client.R().SetFormData(form).Post(url)
	if err != nil {
		log.Error("POST request failed for %s: %v", url, err)
		return nil, &FetchError{URL: url, Err: err}
	}
	return res, nil
}

// PostJson sends body as JSON and decodes a 200 answer into data when not nil.
func (s *Session) PostJson(path string, body any, data any) error {
	url := s.Resolve(path)
	log.InfoH3("Making POST request to: %s", url)
	res, err := s.Client.R().SetBodyJsonMarshal(body).Post(url)
	if res, err = s.check("POST", url, res, err); err != nil {
		return err
	}
	if data != nil {
		if err := res.UnmarshalJson(data); err != nil {
			return fmt.Errorf("error unmarshal json: %w, %s", err, res.String())
		}
	}
	return nil
}

// Document parses an already fetched answer.
func Document(res *req.Response) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Bytes()))
}
