package downloader

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/scraper"
	"github.com/ctfwriteup/ctfwriteup/function/utils"
	"github.com/hashicorp/go-multierror"
)

var sha256Re = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)

// zip local file header
var zipMagic = []byte("PK\x03\x04")

// HashMismatchError reports a download whose SHA-256 differs from the one
// published by the platform.
type HashMismatchError struct {
	Name string
	Want string
	Got  string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("%s: sha256 mismatch, want %s got %s", e.Name, e.Want, e.Got)
}

// FileName is the name a challenge file is stored under.
func FileName(f scraper.File) string {
	name := filepath.Base(utils.NormalizePath(f.Name))
	if name == "." || name == "/" || name == "" {
		name = utils.LastPathSegment(f.URL)
	}
	return strings.ReplaceAll(name, "public.yml", ".yml")
}

// DownloadFiles fetches every file of c into dst. Zip archives are extracted
// next to the archive, with password when they are encrypted. Each file is
// attempted even when a previous one failed; the failures are returned
// together.
func DownloadFiles(s *scraper.Session, c *scraper.Challenge, dst string, password string) error {
	var result *multierror.Error
	for _, f := range c.Files {
		if err := downloadFile(s, f, dst, password); err != nil {
			log.ErrorH2("%s: %s", c.Name, err)
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func downloadFile(s *scraper.Session, f scraper.File, dst string, password string) error {
	name := FileName(f)
	if name == "" {
		return fmt.Errorf("no file name for %s", f.URL)
	}

	res, err := s.Get(f.URL)
	if err != nil {
		return err
	}
	data := res.Bytes()

	if f.Hash != "" && sha256Re.MatchString(f.Hash) {
		if got := GetHashHex(data); !strings.EqualFold(got, f.Hash) {
			return &HashMismatchError{Name: name, Want: f.Hash, Got: got}
		}
	}

	path := filepath.Join(dst, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error write %s: %w", path, err)
	}
	log.InfoH2("Downloaded %s to %s", name, dst)

	if !bytes.HasPrefix(data, zipMagic) {
		return nil
	}
	extracted, err := Extract(path, dst, password)
	if err != nil {
		if errors.Is(err, ErrPasswordRequired) {
			log.Warn("%s is password protected, files remain packed", name)
			return nil
		}
		return err
	}
	log.InfoH2("Extracted %d entries from %s", len(extracted.Extracted), name)
	return nil
}

// GetHashHex returns the hex encoded SHA-256 of data.
func GetHashHex(data []byte) string {
	h := sha256.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
