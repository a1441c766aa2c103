package request

import (
	"fmt"
	"net/http"
	"strings"
)

// Method is one of the HTTP methods supported for S3 REST requests. The set
// is closed; anything else is rejected when the request is constructed, never
// inside the signer.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPut    Method = http.MethodPut
	MethodPost   Method = http.MethodPost
	MethodHead   Method = http.MethodHead
	MethodDelete Method = http.MethodDelete
)

// ParseMethod maps a case-insensitive method name onto the closed method set.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodGet, MethodPut, MethodPost, MethodHead, MethodDelete:
		return m, nil
	default:
		return "", fmt.Errorf("invalid request method %q", s)
	}
}
