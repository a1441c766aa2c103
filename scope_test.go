package cept

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestBuildCredentialScope(t *testing.T) {
	ts := time.Date(2015, 8, 30, 12, 36, 0, 0, time.UTC)

	got := BuildCredentialScope(ts, "us-east-1", "iam")
	want := "20150830/us-east-1/iam/aws4_request"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildStringToSign(t *testing.T) {
	ts := time.Date(2013, 5, 24, 0, 0, 0, 0, time.UTC)
	scope := "20130524/us-east-1/s3/aws4_request"
	canonicalRequest := "GET\n/\n\nhost:examplebucket.s3.amazonaws.com\n\nhost\nUNSIGNED-PAYLOAD"

	got, err := BuildStringToSign(ts, scope, canonicalRequest)
	if err != nil {
		t.Fatal(err)
	}

	h := sha256.Sum256([]byte(canonicalRequest))
	want := fmt.Sprintf("AWS4-HMAC-SHA256\n20130524T000000Z\n%s\n%s", scope, hex.EncodeToString(h[:]))
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildStringToSignDateMismatch(t *testing.T) {
	ts := time.Date(2013, 5, 25, 0, 0, 0, 0, time.UTC)
	scope := "20130524/us-east-1/s3/aws4_request"

	_, err := BuildStringToSign(ts, scope, "GET\n/\n\n\n\n")
	if !errors.Is(err, ErrScopeDateMismatch) {
		t.Errorf("got %v, want ErrScopeDateMismatch", err)
	}
}
