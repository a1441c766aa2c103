package cept

import (
	"net/http"
	"testing"
	"time"
)

func TestAccessKeyIDFromRequest(t *testing.T) {
	header, err := http.NewRequest("GET", "https://examplebucket.s3.amazonaws.com/test.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := newTestSigner().Sign(header, nil, "s3", "us-east-1", testSignTime); err != nil {
		t.Fatal(err)
	}

	presigned, err := http.NewRequest("GET", "https://examplebucket.s3.amazonaws.com/test.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := newTestSigner().Presign(presigned, nil, "s3", "us-east-1", time.Hour, testSignTime); err != nil {
		t.Fatal(err)
	}

	unsigned, err := http.NewRequest("GET", "https://examplebucket.s3.amazonaws.com/test.txt", nil)
	if err != nil {
		t.Fatal(err)
	}

	malformed, err := http.NewRequest("GET", "https://examplebucket.s3.amazonaws.com/test.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	malformed.Header.Set("Authorization", "Bearer abcdef")

	tests := []struct {
		name string
		req  *http.Request
		want string
	}{
		{"header", header, testAccessKeyID},
		{"presigned", presigned, testAccessKeyID},
		{"unsigned", unsigned, ""},
		{"malformed", malformed, ""},
	}
	for _, tt := range tests {
		if got := AccessKeyIDFromRequest(tt.req); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}

	wantScope := "20130524/us-east-1/s3/aws4_request"
	if got := ScopeFromRequest(header); got != wantScope {
		t.Errorf("header scope: got %q, want %q", got, wantScope)
	}
	if got := ScopeFromRequest(presigned); got != wantScope {
		t.Errorf("presigned scope: got %q, want %q", got, wantScope)
	}
	if got := ScopeFromRequest(unsigned); got != "" {
		t.Errorf("unsigned scope: got %q, want empty", got)
	}
}
