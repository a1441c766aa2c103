package util

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// SanitizeHost drops a default port (80 for http, 443 for https) from the
// request host so the signed host header matches what clients transmit.
func SanitizeHost(req *http.Request) {
	host, port, err := net.SplitHostPort(GetHost(req))
	if err != nil || !isDefaultPort(req.URL.Scheme, port) {
		return
	}

	// re-bracket IPv6 literals that SplitHostPort unwrapped
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	req.Host = host
}

// GetHost returns the host the request will be sent to, preferring the
// explicit Host field over the URL.
func GetHost(req *http.Request) string {
	if len(req.Host) > 0 {
		return req.Host
	}

	if req.URL == nil {
		return ""
	}

	return req.URL.Host
}

// GetURLPath returns the canonical URI of u: the path re-encoded so that
// every byte outside the unreserved set is percent-encoded, slashes kept,
// "/" when the path is empty.
func GetURLPath(u *url.URL) string {
	if len(u.Opaque) > 0 {
		return EncodePath("/" + strings.Join(strings.Split(u.Opaque, "/")[3:], "/"))
	}

	return EncodePath(u.Path)
}

func isDefaultPort(scheme string, port string) bool {
	switch strings.ToLower(scheme) {
	case "http":
		return port == "80"
	case "https":
		return port == "443"
	default:
		return false
	}
}
