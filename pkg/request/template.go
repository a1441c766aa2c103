package request

import (
	"fmt"
	"strings"
)

// Substitution is one placeholder/replacement pair applied to payload text,
// e.g. {"@bucket", "uv-bucket-3"}.
type Substitution struct {
	Placeholder string
	Value       string
}

// ParseSubstitutions parses a semicolon separated list of
// placeholder=value pairs, preserving order.
func ParseSubstitutions(s string) ([]Substitution, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var subs []Substitution
	for _, pair := range strings.Split(s, ";") {
		placeholder, value, ok := strings.Cut(pair, "=")
		if !ok || placeholder == "" {
			return nil, fmt.Errorf("malformed substitution %q, want placeholder=value", pair)
		}
		subs = append(subs, Substitution{Placeholder: placeholder, Value: value})
	}

	return subs, nil
}

// Substitute replaces every occurrence of each placeholder in the payload.
// It runs before the payload reaches the signer, which only ever sees the
// final bytes.
func Substitute(payload []byte, subs []Substitution) []byte {
	if len(subs) == 0 {
		return payload
	}

	text := string(payload)
	for _, sub := range subs {
		text = strings.ReplaceAll(text, sub.Placeholder, sub.Value)
	}

	return []byte(text)
}
