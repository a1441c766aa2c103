package cept

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mbattey58/cept/pkg/credentials"
	"github.com/mbattey58/cept/pkg/util"
)

// ignoredHeaders are never part of the canonical headers: Authorization
// because it carries the signature itself, the others because proxies and
// SDKs commonly rewrite them in flight.
var ignoredHeaders = map[string]struct{}{
	"Authorization":   {},
	"User-Agent":      {},
	"X-Amzn-Trace-Id": {},
}

const (
	authHeaderPartsLen = 3
	credentialPartsLen = 5
)

// SigningContext carries the state of one signing or validation operation.
// A context is used once: populate the exported fields, call Build (or Parse
// for validation) and AddSigToRequest, then discard it.
type SigningContext struct {
	// Request to sign; it is modified during signing and validation.
	Request *http.Request
	// Body of the request. Always treated as an opaque byte sequence.
	Body io.ReadSeeker
	// Query of the original request, re-encoded canonically while processing.
	Query url.Values
	// Credentials to sign the request with or validate against.
	Credentials credentials.Credentials
	// Region the request is scoped to.
	Region string
	// Service the request is scoped to, e.g. "s3".
	Service string
	// SignTime is the signing instant; its UTC date fixes the key derivation.
	SignTime time.Time
	// Expiry of the signature for presigned requests, 0 meaning no expiry.
	Expiry time.Duration
	// IsPresign selects query-based signing instead of an Authorization header.
	IsPresign bool
	// UnsignedPayload skips payload hashing; the signature then does not
	// cover the body content.
	UnsignedPayload bool

	credentialScope  string
	bodyHash         string
	signedHeaders    string
	canonicalHeaders string
	canonicalRequest string
	stringToSign     string
	signature        string

	origQuery   url.Values
	timeNowFunc func() time.Time
}

// CredentialScope returns date/region/service/aws4_request as derived during
// Build or Parse. Callers reconstructing signatures independently need it.
func (s *SigningContext) CredentialScope() string { return s.credentialScope }

// SignedHeaders returns the sorted, semicolon-joined list of header names the
// signature covers. Headers absent from this list are transmitted unprotected.
func (s *SigningContext) SignedHeaders() string { return s.signedHeaders }

// CanonicalRequest returns the canonical request string the signature was
// computed over. Only valid after Build or Parse.
func (s *SigningContext) CanonicalRequest() string { return s.canonicalRequest }

// StringToSign returns the final pre-signature string. Only valid after Build
// or Parse.
func (s *SigningContext) StringToSign() string { return s.stringToSign }

// Signature returns the hex-encoded request signature. Only valid after Build
// or Parse.
func (s *SigningContext) Signature() string { return s.signature }

// Build computes a signature for the request.
//
// If no error is returned, the context's request has all derived values set
// and AddSigToRequest will complete it. Should an error be returned instead,
// discard the context; it may contain a half-completed signature.
func (s *SigningContext) Build() error {
	if err := s.checkRequired(); err != nil {
		return err
	}

	for k := range s.Query {
		sort.Strings(s.Query[k])
	}

	s.cleanupPresign(true)
	util.SanitizeHost(s.Request)

	s.buildBasicQueryValues()
	s.buildTime()
	s.buildCredential()

	if err := s.buildBodyHash(); err != nil {
		return err
	}

	s.buildCanonicalHeaders(ignoredHeaders)
	if err := s.buildCanonicalRequest(); err != nil {
		return err
	}
	if err := s.buildStringToSign(); err != nil {
		return err
	}
	s.buildSignature()

	return nil
}

// Parse parses a signed request into the context, verifying its signature in
// the process.
//
// If no error is returned, the context has its values filled out and the
// original request restored, ready to be processed by the consuming party.
// Should an error be returned instead, discard the context.
func (s *SigningContext) Parse() error {
	for k := range s.Query {
		sort.Strings(s.Query[k])
	}

	s.cleanupPresign(true)
	util.SanitizeHost(s.Request)

	var err error

	if err = s.parseBasicQueryValues(); err != nil {
		return err
	}
	if err = s.parseTime(); err != nil {
		return err
	}
	if err = s.parseCredential(); err != nil {
		return err
	}
	if err = s.buildBodyHash(); err != nil {
		return err
	}
	if err = s.parseCanonicalRequest(); err != nil {
		return err
	}
	if err = s.parseSignature(); err != nil {
		return err
	}

	return nil
}

// AddSigToRequest adds the computed signature to the request: the final query
// parameter for presigned requests, the Authorization header otherwise.
func (s *SigningContext) AddSigToRequest() {
	if s.IsPresign {
		s.Request.URL.RawQuery = fmt.Sprintf("%s&X-Amz-Signature=%s", s.Request.URL.RawQuery, s.signature)

		return
	}

	s.Request.Header.Set("Authorization", strings.Join([]string{
		fmt.Sprintf("%s Credential=%s/%s", util.Algorithm, s.Credentials.AccessKeyID, s.credentialScope),
		fmt.Sprintf("SignedHeaders=%s", s.signedHeaders),
		fmt.Sprintf("Signature=%s", s.signature),
	}, ", "))
}

// checkRequired rejects incomplete input before any hashing happens.
func (s *SigningContext) checkRequired() error {
	if s.Request == nil || util.GetHost(s.Request) == "" {
		return ErrMissingHost
	}
	if s.Request.Method == "" {
		return ErrMissingMethod
	}
	if s.Credentials.AccessKeyID == "" || s.Credentials.SecretAccessKey == "" {
		return ErrMissingCredentials
	}
	return nil
}

// cleanupPresign removes signature query parameters from a presigned request
// so they will not be included in a new signature.
func (s *SigningContext) cleanupPresign(updateRequestURL bool) {
	if !s.IsPresign {
		return
	}

	s.Query.Del("X-Amz-Algorithm")
	s.Query.Del("X-Amz-Signature")
	s.Query.Del("X-Amz-Security-Token")
	s.Query.Del("X-Amz-Date")
	s.Query.Del("X-Amz-Expires")
	s.Query.Del("X-Amz-Credential")
	s.Query.Del("X-Amz-SignedHeaders")

	if updateRequestURL {
		s.Request.URL.RawQuery = s.Query.Encode()
	}
}

// buildBasicQueryValues sets the algorithm and security token query values
// required for presigned requests and adds the security token header for
// regular signed requests if defined.
func (s *SigningContext) buildBasicQueryValues() {
	if s.IsPresign {
		s.Query.Set("X-Amz-Algorithm", util.Algorithm)

		if len(s.Credentials.SessionToken) == 0 {
			s.Query.Del("X-Amz-Security-Token")
		} else {
			s.Query.Set("X-Amz-Security-Token", s.Credentials.SessionToken)
		}

		return
	}

	if len(s.Credentials.SessionToken) > 0 {
		s.Request.Header.Set("X-Amz-Security-Token", s.Credentials.SessionToken)
	}
}

// buildTime adds the signing time and optional expiry to the request.
func (s *SigningContext) buildTime() {
	if s.IsPresign {
		s.Query.Set("X-Amz-Date", util.FormatDateTime(s.SignTime))
		s.Query.Set("X-Amz-Expires", strconv.FormatInt(int64(s.Expiry/time.Second), 10))
	} else {
		s.Request.Header.Set("X-Amz-Date", util.FormatDateTime(s.SignTime))
	}
}

// buildCredential derives the credential scope and adds the credential query
// parameter to presigned requests.
func (s *SigningContext) buildCredential() {
	s.credentialScope = BuildCredentialScope(s.SignTime, s.Region, s.Service)

	if s.IsPresign {
		s.Query.Set("X-Amz-Credential", fmt.Sprintf("%s/%s", s.Credentials.AccessKeyID, s.credentialScope))
	}
}

// buildBodyHash sets the payload hash, honoring a predefined
// X-Amz-Content-Sha256 header. Without one it hashes the body bytes, or uses
// the unsigned-payload or empty-payload placeholders as appropriate.
func (s *SigningContext) buildBodyHash() (err error) {
	hash := s.Request.Header.Get("X-Amz-Content-Sha256")
	if len(hash) == 0 {
		includeHeader := s.UnsignedPayload ||
			s.Service == "s3" ||
			s.Service == "glacier"

		s3Presign := s.IsPresign && s.Service == "s3"

		if s.UnsignedPayload || s3Presign {
			hash = util.HashUnsignedPayload
			includeHeader = !s3Presign
		} else if s.Body == nil {
			hash = util.HashEmptyPayload
		} else {
			h := sha256.New()

			start, err := s.Body.Seek(0, io.SeekCurrent)
			if err != nil {
				return err
			}

			defer func() {
				_, err = s.Body.Seek(start, io.SeekStart)
			}()

			if _, err = io.Copy(h, s.Body); err != nil {
				return err
			}

			hash = hex.EncodeToString(h.Sum(nil))
		}

		if includeHeader {
			s.Request.Header.Set("X-Amz-Content-Sha256", hash)
		}
	}

	s.bodyHash = hash

	return nil
}

// buildCanonicalHeaders creates the canonical headers block and the signed
// headers list: names lower-cased and sorted, values trimmed with whitespace
// runs collapsed.
func (s *SigningContext) buildCanonicalHeaders(ignored map[string]struct{}) {
	headers := make([]string, 0, len(s.Request.Header)+1)
	headerVals := make(http.Header, len(s.Request.Header))
	for k, vv := range s.Request.Header {
		if _, ok := ignored[http.CanonicalHeaderKey(k)]; ok {
			continue
		}

		lowerKey := strings.ToLower(k)
		headers = append(headers, lowerKey)
		headerVals[lowerKey] = vv
	}
	headers = append(headers, "host")

	sort.Strings(headers)

	s.signedHeaders = strings.Join(headers, ";")

	if s.IsPresign {
		s.Query.Set("X-Amz-SignedHeaders", s.signedHeaders)
	}

	var sb strings.Builder
	for _, k := range headers {
		sb.WriteString(k)
		sb.WriteRune(':')
		if k == "host" {
			sb.WriteString(util.GetHost(s.Request))
		}
		for idx, v := range headerVals[k] {
			if idx > 0 {
				sb.WriteRune(',')
			}
			sb.WriteString(util.TrimAll(v))
		}
		sb.WriteRune('\n')
	}

	s.canonicalHeaders = sb.String()
}

// canonicalQueryString renders the query parameters sorted by key, each key
// and value independently percent-encoded under the strict unreserved set.
func (s *SigningContext) canonicalQueryString() string {
	keys := make([]string, 0, len(s.Query))
	for k := range s.Query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		encodedKey := util.PercentEncode(k)
		for _, v := range s.Query[k] {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(encodedKey)
			sb.WriteByte('=')
			sb.WriteString(util.PercentEncode(v))
		}
	}

	return sb.String()
}

// buildCanonicalRequest joins method, canonical URI, canonical query string,
// canonical headers, signed headers and payload hash, updating the request's
// URL with the canonically encoded query.
func (s *SigningContext) buildCanonicalRequest() error {
	for k := range s.Query {
		if k == "" {
			return ErrEmptyQueryKey
		}
	}

	s.Request.URL.RawQuery = s.canonicalQueryString()

	s.canonicalRequest = strings.Join([]string{
		s.Request.Method,
		util.GetURLPath(s.Request.URL),
		s.Request.URL.RawQuery,
		s.canonicalHeaders,
		s.signedHeaders,
		s.bodyHash,
	}, "\n")

	return nil
}

// buildStringToSign hashes the canonical request and combines it with the
// algorithm, timestamp and credential scope.
func (s *SigningContext) buildStringToSign() error {
	sts, err := BuildStringToSign(s.SignTime, s.credentialScope, s.canonicalRequest)
	if err != nil {
		return err
	}

	s.stringToSign = sts

	return nil
}

// buildSignature derives the signing key from the credentials and signs the
// string-to-sign with it.
func (s *SigningContext) buildSignature() {
	key := s.Credentials.DeriveSigningKey(s.SignTime, s.Region, s.Service)
	if len(key) == 0 {
		return
	}

	s.signature = hex.EncodeToString(util.HMACSHA256(key, []byte(s.stringToSign)))
}

// parseBasicQueryValues checks the algorithm and security token values of a
// request against the signer's credentials.
func (s *SigningContext) parseBasicQueryValues() error {
	if s.IsPresign {
		if s.origQuery.Get("X-Amz-Algorithm") != util.Algorithm {
			return ErrInvalidSignatureAlgorithm
		}

		if s.origQuery.Get("X-Amz-Security-Token") != s.Credentials.SessionToken {
			return ErrInvalidSignature
		}
	} else {
		auth := strings.Split(s.Request.Header.Get("Authorization"), ", ")
		if len(auth) != authHeaderPartsLen {
			return ErrMalformedSignature
		}

		if !strings.HasPrefix(auth[0], util.Algorithm) {
			return ErrInvalidSignatureAlgorithm
		}

		if s.Request.Header.Get("X-Amz-Security-Token") != s.Credentials.SessionToken {
			return ErrInvalidSignature
		}
	}

	s.buildBasicQueryValues()

	return nil
}

// parseTime extracts the signing time and expiry from the request and checks
// the expiry against the current time.
func (s *SigningContext) parseTime() error {
	var err error
	if s.IsPresign {
		s.SignTime, err = util.ParseDateTime(s.origQuery.Get("X-Amz-Date"))
		if err != nil {
			return err
		}

		exp, err := strconv.ParseInt(s.origQuery.Get("X-Amz-Expires"), 10, 64)
		if err != nil {
			return err
		}

		s.Expiry = time.Duration(exp) * time.Second
	} else {
		s.SignTime, err = util.ParseDateTime(s.Request.Header.Get("X-Amz-Date"))
		if err != nil {
			return err
		}
	}

	if s.timeNowFunc == nil {
		s.timeNowFunc = time.Now
	}

	if s.Expiry > 0 && s.timeNowFunc().After(s.SignTime.Add(s.Expiry)) {
		return ErrExpiredSignature
	}

	s.buildTime()

	return nil
}

// parseCredential extracts the credential scope from the request, setting the
// context's region and service from it.
func (s *SigningContext) parseCredential() error {
	var cred string
	if s.IsPresign {
		cred = s.origQuery.Get("X-Amz-Credential")
		if len(cred) == 0 {
			return ErrMalformedSignature
		}
	} else {
		auth := strings.Split(s.Request.Header.Get("Authorization"), ", ")
		if len(auth) != authHeaderPartsLen {
			return ErrMalformedSignature
		}

		if len(auth[0]) <= len(util.Algorithm)+1 {
			return ErrMalformedSignature
		}

		c := auth[0][len(util.Algorithm)+1:]
		if !strings.HasPrefix(c, "Credential=") {
			return ErrMalformedSignature
		}

		cred = strings.TrimPrefix(c, "Credential=")
	}

	credParts := strings.Split(cred, "/")
	if len(credParts) != credentialPartsLen {
		return ErrMalformedSignature
	}

	if credParts[4] != util.RequestTypeAWS4 {
		return ErrMalformedSignature
	}

	if s.Credentials.AccessKeyID != credParts[0] {
		return ErrInvalidSignature
	}

	s.Region = credParts[2]
	s.Service = credParts[3]
	s.credentialScope = strings.Join(credParts[1:], "/")

	if s.IsPresign {
		s.Query.Set("X-Amz-Credential", fmt.Sprintf("%s/%s", s.Credentials.AccessKeyID, s.credentialScope))
	}

	return nil
}

// parseCanonicalRequest verifies the signed headers list and rebuilds the
// canonical request for comparison signing.
func (s *SigningContext) parseCanonicalRequest() error {
	var reqSignedHeaders string
	if s.IsPresign {
		reqSignedHeaders = s.origQuery.Get("X-Amz-SignedHeaders")
	} else {
		auth := strings.Split(s.Request.Header.Get("Authorization"), ", ")
		if len(auth) != authHeaderPartsLen {
			return ErrMalformedSignature
		}

		if !strings.HasPrefix(auth[1], "SignedHeaders=") {
			return ErrMalformedSignature
		}

		reqSignedHeaders = strings.TrimPrefix(auth[1], "SignedHeaders=")
	}

	if len(reqSignedHeaders) == 0 {
		return ErrMalformedSignature
	}

	s.buildCanonicalHeaders(ignoredHeaders)

	if reqSignedHeaders != s.signedHeaders {
		return ErrInvalidSignature
	}

	return s.buildCanonicalRequest()
}

// parseSignature compares the request's signature against the one computed
// for the current context.
func (s *SigningContext) parseSignature() error {
	var reqSignature string
	if s.IsPresign {
		reqSignature = s.origQuery.Get("X-Amz-Signature")
	} else {
		auth := strings.Split(s.Request.Header.Get("Authorization"), ", ")
		if len(auth) != authHeaderPartsLen {
			return ErrMalformedSignature
		}

		if !strings.HasPrefix(auth[2], "Signature=") {
			return ErrMalformedSignature
		}

		reqSignature = strings.TrimPrefix(auth[2], "Signature=")
	}

	if len(reqSignature) == 0 {
		return ErrMalformedSignature
	}

	if err := s.buildStringToSign(); err != nil {
		return err
	}
	s.buildSignature()

	if reqSignature != s.signature {
		return ErrInvalidSignature
	}

	return nil
}
