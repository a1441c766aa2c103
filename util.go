package cept

import (
	"net/http"
	"strings"

	"github.com/mbattey58/cept/pkg/util"
)

// AccessKeyIDFromRequest retrieves the access key ID a request was signed
// with, checking the presigned query parameter first and falling back to the
// Authorization header. Returns an empty string if no credential is found or
// it is malformed.
func AccessKeyIDFromRequest(req *http.Request) string {
	credParts := credentialPartsFromRequest(req)
	if credParts == nil {
		return ""
	}

	return credParts[0]
}

// ScopeFromRequest retrieves the credential scope
// (date/region/service/aws4_request) a request was signed with, or an empty
// string if no credential is found or it is malformed.
func ScopeFromRequest(req *http.Request) string {
	credParts := credentialPartsFromRequest(req)
	if credParts == nil {
		return ""
	}

	return strings.Join(credParts[1:], "/")
}

func credentialPartsFromRequest(req *http.Request) []string {
	cred := req.URL.Query().Get("X-Amz-Credential")
	if len(cred) == 0 {
		authParts := strings.Split(req.Header.Get("Authorization"), ", ")
		if len(authParts) != authHeaderPartsLen {
			return nil
		}

		if len(authParts[0]) <= len(util.Algorithm)+1 {
			return nil
		}

		c := authParts[0][len(util.Algorithm)+1:]
		if !strings.HasPrefix(c, "Credential=") {
			return nil
		}

		cred = strings.TrimPrefix(c, "Credential=")
	}

	credParts := strings.Split(cred, "/")
	if len(credParts) != credentialPartsLen {
		return nil
	}

	if credParts[4] != util.RequestTypeAWS4 {
		return nil
	}

	return credParts
}
