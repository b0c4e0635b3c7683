package utils_test

import (
	"testing"

	"github.com/ctfwriteup/ctfwriteup/function/utils"
)

func TestLastPathSegment(t *testing.T) {
	tests := map[string]string{
		"https://cdn.example.org/files/chall.zip":        "chall.zip",
		"https://cdn.example.org/files/chall.zip?t=1#x":  "chall.zip",
		"/download/abcdef/":                              "abcdef",
		"https://example.org":                            "",
		"/files/9c1e/challenge.tar.gz?token=deadbeef":    "challenge.tar.gz",
	}
	for in, want := range tests {
		if got := utils.LastPathSegment(in); got != want {
			t.Errorf("LastPathSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetJson(t *testing.T) {
	var data struct {
		Name string `json:"name"`
	}
	if err := utils.GetJson([]byte(`{"success": true, "data": {"name": "baby-rev"}}`), &data); err != nil {
		t.Fatal(err)
	}
	if data.Name != "baby-rev" {
		t.Fatalf("name = %q", data.Name)
	}
	if err := utils.GetJson([]byte(`{"success": false, "message": "forbidden"}`), &data); err == nil {
		t.Fatal("expected error on unsuccessful envelope")
	}
}
