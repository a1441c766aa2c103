package request

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var ErrEmptyParamKey = errors.New("query parameter with empty key")

// ParseParams parses a semicolon separated list of key=value pairs into query
// parameters. A pair with an empty value ("versions=" or bare "versions")
// stands for a flag-style parameter; a pair with an empty key is an error.
func ParseParams(s string) (url.Values, error) {
	params := url.Values{}
	if strings.TrimSpace(s) == "" {
		return params, nil
	}

	for _, pair := range strings.Split(s, ";") {
		key, value, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("parameter %q: %w", pair, ErrEmptyParamKey)
		}
		params.Add(key, value)
	}

	return params, nil
}

// ParseHeaders parses a semicolon separated list of Name:Value pairs into
// headers.
func ParseHeaders(s string) (http.Header, error) {
	headers := http.Header{}
	if strings.TrimSpace(s) == "" {
		return headers, nil
	}

	for _, pair := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed header %q, want Name:Value", pair)
		}
		headers.Add(name, strings.TrimSpace(value))
	}

	return headers, nil
}
