package cept

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/mbattey58/cept/pkg/credentials"
)

// Signer signs and presigns HTTP requests and verifies request signatures.
type Signer struct {
	// Provider supplies the credentials to sign requests with. Must be set.
	Provider credentials.Provider
	// timeNowFunc overrides the clock for expiry checks in unit tests;
	// nil means time.Now.
	timeNowFunc func() time.Time
}

// NewSigner returns a new Signer with the given provider set.
func NewSigner(provider credentials.Provider) *Signer {
	return &Signer{
		Provider: provider,
	}
}

// NewSignerWithTimeNowFunc returns a new Signer with the given provider and a
// custom clock. Intended for unit testing only.
func NewSignerWithTimeNowFunc(provider credentials.Provider, timeNowFunc func() time.Time) *Signer {
	s := NewSigner(provider)
	s.timeNowFunc = timeNowFunc

	return s
}

// NewSignerWithStaticCredentials returns a new Signer with a static
// credentials provider using the given access key ID, secret and optional
// session token.
func NewSignerWithStaticCredentials(id string, secret string, token string) *Signer {
	return NewSigner(credentials.NewStaticProvider(id, secret, token))
}

// NewSignerFromConfig returns a new Signer with a file provider reading the
// JSON endpoint configuration at path.
func NewSignerFromConfig(path string) *Signer {
	return NewSigner(credentials.NewFileProvider(path))
}

// Sign signs the provided request using its body for the requested service
// and region at the specified signing time, adding the Authorization,
// X-Amz-Date and X-Amz-Content-Sha256 headers.
//
// If no error is returned, the request contains everything needed to execute
// it with a standard HTTP client. On error, discard the request; it may carry
// a half-completed signature.
func (s *Signer) Sign(req *http.Request, body io.ReadSeeker, service string, region string, signTime time.Time) error {
	return s.signRequest(req, body, service, region, 0, signTime, false, false)
}

// SignUnsignedPayload signs the provided request without covering its body:
// the payload hash is the UNSIGNED-PAYLOAD placeholder. Callers opting into
// this accept that the body is not integrity-protected; it is meant for
// streaming or unknown-length payloads.
func (s *Signer) SignUnsignedPayload(req *http.Request, service string, region string, signTime time.Time) error {
	return s.signRequest(req, nil, service, region, 0, signTime, false, true)
}

// Presign signs the provided request by embedding the signature material in
// its query string, valid for the given expiry after signTime. An expiry of 0
// creates a signature with unlimited validity.
//
// All header values present on the request at presigning time are covered by
// the signature and must accompany the eventual request.
func (s *Signer) Presign(req *http.Request, body io.ReadSeeker, service string, region string, expiry time.Duration, signTime time.Time) error {
	return s.signRequest(req, body, service, region, expiry, signTime, true, false)
}

// Validate validates the provided request, returning the parsed
// SigningContext describing the signature, or an error if the signature is
// malformed, expired or does not match the Signer's credentials.
//
// Both signed and presigned requests are supported. The request is modified
// while the signature is re-derived and restored afterwards on success.
func (s *Signer) Validate(req *http.Request) (*SigningContext, error) {
	if len(req.URL.Query().Get("X-Amz-Signature")) > 0 {
		return s.validateRequest(req, true)
	} else if len(req.Header.Get("Authorization")) > 0 {
		return s.validateRequest(req, false)
	}

	return nil, ErrMalformedSignature
}

func (s *Signer) signRequest(req *http.Request, body io.ReadSeeker, service string, region string, expiry time.Duration, signTime time.Time, isPresign bool, unsignedPayload bool) error {
	creds, err := s.Provider.Retrieve()
	if err != nil {
		return err
	}

	sc := &SigningContext{
		Request:         req,
		Body:            body,
		Query:           req.URL.Query(),
		Credentials:     creds,
		Region:          region,
		Service:         service,
		SignTime:        signTime,
		Expiry:          expiry,
		IsPresign:       isPresign,
		UnsignedPayload: unsignedPayload,
		timeNowFunc:     s.timeNowFunc,
	}

	if err = sc.Build(); err != nil {
		return err
	}

	sc.AddSigToRequest()

	return nil
}

func (s *Signer) validateRequest(req *http.Request, isPresign bool) (*SigningContext, error) {
	creds, err := s.Provider.Retrieve()
	if err != nil {
		return nil, err
	}

	var body io.ReadSeeker
	if req.Body != nil {
		buf, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}

		req.Body = io.NopCloser(bytes.NewBuffer(buf))
		body = bytes.NewReader(buf)
	}

	sc := &SigningContext{
		Request:     req,
		Body:        body,
		Query:       req.URL.Query(),
		Credentials: creds,
		IsPresign:   isPresign,
		timeNowFunc: s.timeNowFunc,
		origQuery:   req.URL.Query(),
	}

	if err = sc.Parse(); err != nil {
		return nil, err
	}

	sc.AddSigToRequest()

	return sc, nil
}
