// Package cache stores bulk challenge listings as YAML files so a listing can
// be reused across runs.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ctfwriteup/ctfwriteup/function/log"
	"gopkg.in/yaml.v2"
)

var ErrNotFound = errors.New("cache not found")

var keyRe = regexp.MustCompile(`[^a-zA-Z0-9\-_.]+`)

type Cache struct {
	Dir string
}

// New returns a cache rooted at dir. An empty dir disables the cache.
func New(dir string) *Cache {
	return &Cache{Dir: dir}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.Dir != ""
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.Dir, keyRe.ReplaceAllString(key, "_")+".yaml")
}

func (c *Cache) Set(key string, data any) error {
	if !c.Enabled() {
		return nil
	}
	cachePath := c.path(key)
	if err := os.MkdirAll(filepath.Dir(cachePath), os.ModePerm); err != nil {
		return fmt.Errorf("error create cache directory: %w", err)
	}

	cacheFile, err := os.Create(cachePath)
	if err != nil {
		return fmt.Errorf("error create cache file: %w", err)
	}
	defer cacheFile.Close()

	if err := yaml.NewEncoder(cacheFile).Encode(data); err != nil {
		return fmt.Errorf("error encode data to cache file: %w", err)
	}
	log.Debug("cache %s written to %s", key, cachePath)
	return nil
}

// Get decodes the cached key into data, ErrNotFound when absent.
func (c *Cache) Get(key string, data any) error {
	if !c.Enabled() {
		return ErrNotFound
	}
	cachePath := c.path(key)
	if _, err := os.Stat(cachePath); os.IsNotExist(err) {
		return ErrNotFound
	}

	cacheFile, err := os.Open(cachePath)
	if err != nil {
		return fmt.Errorf("error open cache file: %w", err)
	}
	defer cacheFile.Close()

	if err := yaml.NewDecoder(cacheFile).Decode(data); err != nil {
		return fmt.Errorf("error decode cache file: %w", err)
	}
	log.Debug("cache %s loaded from %s", key, cachePath)
	return nil
}
