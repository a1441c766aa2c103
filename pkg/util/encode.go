package util

import "strings"

const hexDigits = "0123456789ABCDEF"

// PercentEncode escapes s for use as a canonical query key or value.
// Only RFC 3986 unreserved characters (ALPHA / DIGIT / "-" / "." / "_" / "~")
// survive unescaped; spaces become %20, never "+".
func PercentEncode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0xF])
	}
	return sb.String()
}

// EncodePath percent-encodes each segment of an URI path while preserving
// the "/" segment boundaries. An empty path encodes as "/".
func EncodePath(path string) string {
	if path == "" {
		return "/"
	}

	var sb strings.Builder
	sb.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' || isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0xF])
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	return ('A' <= c && c <= 'Z') ||
		('a' <= c && c <= 'z') ||
		('0' <= c && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}
