package downloader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeka/zip"
)

// ErrPasswordRequired is wrapped in the ArchiveError of an encrypted archive
// extracted without password.
var ErrPasswordRequired = errors.New("archive is password protected")

type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

type ExtractResult struct {
	// Extracted lists the written paths.
	Extracted []string
	// StillPacked is set when nothing was extracted for lack of password.
	StillPacked bool
}

// Extract unpacks the zip archive at path into dst. The first file entry is
// probed to tell encrypted archives apart: without password they are left
// packed.
// The archive itself is kept.
func Extract(path string, dst string, password string) (ExtractResult, error) {
	var result ExtractResult

	r, err := zip.OpenReader(path)
	if err != nil {
		return result, &ArchiveError{Path: path, Err: err}
	}
	defer r.Close()

	first := firstFile(r.File)
	if first == nil {
		return result, nil
	}

	encrypted, err := probe(first)
	if err != nil {
		return result, &ArchiveError{Path: path, Err: err}
	}
	if encrypted && password == "" {
		result.StillPacked = true
		return result, &ArchiveError{Path: path, Err: ErrPasswordRequired}
	}

	root, err := filepath.Abs(dst)
	if err != nil {
		return result, err
	}
	for _, f := range r.File {
		target, err := safeJoin(root, f.Name)
		if err != nil {
			return result, &ArchiveError{Path: path, Err: err}
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return result, err
			}
			continue
		}
		if f.IsEncrypted() {
			f.SetPassword(password)
		}
		if err := extractFile(f, target); err != nil {
			return result, &ArchiveError{Path: path, Err: fmt.Errorf("%s: %w", f.Name, err)}
		}
		result.Extracted = append(result.Extracted, target)
	}
	return result, nil
}

// firstFile skips the leading directory entries, which are never encrypted.
func firstFile(files []*zip.File) *zip.File {
	for _, f := range files {
		if !f.FileInfo().IsDir() {
			return f
		}
	}
	return nil
}

// probe reports whether the entry needs a password, and fails on entries that
// cannot be read at all.
func probe(f *zip.File) (bool, error) {
	if f.IsEncrypted() {
		return true, nil
	}
	rc, err := f.Open()
	if err != nil {
		return false, err
	}
	defer rc.Close()
	if _, err := io.CopyN(io.Discard, rc, 1); err != nil && err != io.EOF {
		return false, err
	}
	return false, nil
}

func safeJoin(root string, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes the destination", name)
	}
	return target, nil
}

// extractFile writes the entry to target. A partially written target is
// removed on failure.
func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, rc)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		return err
	}
	return nil
}
