package creds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/titanous/json5"
)

// Load reads a credential file. A sibling "<name>.local.<ext>" file, when
// present, overrides the keys it sets.
func Load(path string) (*Creds, error) {
	c, err := readConfig[Creds](path)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCookies reads a flat JSON object of cookie name -> value.
func LoadCookies(path string) (Cookies, error) {
	cookies, err := readConfig[Cookies](path)
	if err != nil {
		return nil, err
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("cookie file %s is empty", path)
	}
	return cookies, nil
}

func splitExt(f string) (string, string) {
	ext := filepath.Ext(f)
	return strings.TrimSuffix(f, ext), strings.TrimPrefix(ext, ".")
}

func localPath(name string) string {
	prefix, ext := splitExt(filepath.Base(name))
	if ext == "" {
		return filepath.Join(filepath.Dir(name), prefix+".local")
	}
	return filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local.%s", prefix, ext))
}

func readConfig[T any](name string) (T, error) {
	var out T

	defaultFile, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return out, fmt.Errorf("config file not found: %s", name)
		}
		return out, fmt.Errorf("file read error: %w", err)
	}
	if err := json5.Unmarshal(defaultFile, &out); err != nil {
		return out, fmt.Errorf("error unmarshal %s: %w", name, err)
	}

	local := localPath(name)
	localFile, err := os.ReadFile(local)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("file read error: %w", err)
	}
	var override T
	if err := json5.Unmarshal(localFile, &override); err != nil {
		return out, fmt.Errorf("error unmarshal %s: %w", local, err)
	}
	if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
		return out, fmt.Errorf("error merging %s: %w", local, err)
	}
	log.Debug("merged config %s with local overrides %s", name, local)
	return out, nil
}
