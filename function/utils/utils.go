package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// normalize path for windows compability
func NormalizePath(str string) string {
	return strings.ReplaceAll(str, "\\", "/")
}

// GetJson decodes a {"success": bool, "message": string, "data": ...}
// envelope into data.
func GetJson(byte []byte, data any) error {
	var tmp struct {
		Message string
		Success bool
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(byte, &tmp); err != nil {
		return err
	}
	if !tmp.Success {
		return fmt.Errorf("request end with %s status", tmp.Message)
	}
	if err := json.Unmarshal(tmp.Data, data); err != nil {
		return err
	}
	return nil
}

func UrlJoinPath(base string, path ...string) string {
	res, err := url.JoinPath(base, path...)
	if err != nil {
		panic(err)
	}
	return res
}

// LastPathSegment returns the last non-empty segment of a URL path, without
// query string or fragment.
func LastPathSegment(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		raw = u.Path
	} else {
		raw = strings.SplitN(raw, "?", 2)[0]
	}
	raw = strings.TrimRight(NormalizePath(raw), "/")
	base := path.Base(raw)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
