package cept

import "errors"

// Configuration errors, rejected before any hashing occurs.
var (
	ErrMissingHost        = errors.New("request host is required for signing")
	ErrMissingMethod      = errors.New("request method is required for signing")
	ErrMissingCredentials = errors.New("credentials are required for signing")
)

// ErrEmptyQueryKey reports a query parameter with an empty key; such
// parameters cannot be represented in a canonical query string.
var ErrEmptyQueryKey = errors.New("query parameter with empty key")

// ErrScopeDateMismatch reports a credential scope whose date component does
// not match the signing timestamp. The scope is always derived from the
// timestamp during signing, so a mismatch indicates a caller derivation bug;
// it is rejected rather than silently fixed.
var ErrScopeDateMismatch = errors.New("credential scope date does not match signing time")

// Signature validation errors.
var (
	ErrMalformedSignature        = errors.New("malformed signature")
	ErrExpiredSignature          = errors.New("expired signature")
	ErrInvalidSignature          = errors.New("invalid signature")
	ErrInvalidSignatureAlgorithm = errors.New("invalid signature algorithm")
)
