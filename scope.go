package cept

import (
	"strings"
	"time"

	"github.com/mbattey58/cept/pkg/util"
)

// BuildCredentialScope returns the credential scope string
// date/region/service/aws4_request for the given signing time.
func BuildCredentialScope(t time.Time, region string, service string) string {
	return strings.Join([]string{
		util.FormatDate(t),
		region,
		service,
		util.RequestTypeAWS4,
	}, "/")
}

// BuildStringToSign combines the algorithm, the signing timestamp, the
// credential scope and the SHA-256 hash of the canonical request into the
// string that is signed with the derived key.
//
// The date component of scope must match t; BuildStringToSign returns
// ErrScopeDateMismatch otherwise, since a signature built from disagreeing
// dates can never validate.
func BuildStringToSign(t time.Time, scope string, canonicalRequest string) (string, error) {
	if date, _, ok := strings.Cut(scope, "/"); !ok || date != util.FormatDate(t) {
		return "", ErrScopeDateMismatch
	}

	return strings.Join([]string{
		util.Algorithm,
		util.FormatDateTime(t),
		scope,
		util.SHA256Hex([]byte(canonicalRequest)),
	}, "\n"), nil
}
