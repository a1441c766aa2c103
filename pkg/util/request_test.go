package util

import (
	"net/http"
	"net/url"
	"testing"
)

func TestSanitizeHost(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://host.example.com:80/path", "host.example.com"},
		{"https://host.example.com:443/path", "host.example.com"},
		{"http://host.example.com:8080/path", "host.example.com:8080"},
		{"https://host.example.com/path", "host.example.com"},
	}
	for _, tt := range tests {
		req, err := http.NewRequest("GET", tt.url, nil)
		if err != nil {
			t.Fatal(err)
		}

		SanitizeHost(req)
		if got := GetHost(req); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestGetHostPrefersRequestHost(t *testing.T) {
	req, err := http.NewRequest("GET", "http://proxy.example.com/path", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Host = "origin.example.com"

	if got := GetHost(req); got != "origin.example.com" {
		t.Errorf("got %q, want origin.example.com", got)
	}
}

func TestGetURLPath(t *testing.T) {
	tests := []struct {
		rawurl string
		want   string
	}{
		{"http://h", "/"},
		{"http://h/", "/"},
		{"http://h/bucket/key", "/bucket/key"},
		{"http://h/test$file.text", "/test%24file.text"},
		{"http://h/a%20b", "/a%20b"},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.rawurl)
		if err != nil {
			t.Fatal(err)
		}

		if got := GetURLPath(u); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.rawurl, got, tt.want)
		}
	}
}
