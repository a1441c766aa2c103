package util

const (
	// Algorithm identifies the signing scheme in headers and query strings.
	Algorithm = "AWS4-HMAC-SHA256"

	TimeFormatISO8601DateTime = "20060102T150405Z"
	TimeFormatISO8601Date     = "20060102"

	RequestTypeAWS4 = "aws4_request"

	// HashUnsignedPayload is the payload hash placeholder for bodies the
	// signature deliberately does not cover (streaming or unknown length).
	HashUnsignedPayload = "UNSIGNED-PAYLOAD"
	// HashEmptyPayload is the SHA-256 hex digest of the empty byte string.
	HashEmptyPayload = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	// DefaultService and DefaultRegion are what the CLIs sign with unless
	// told otherwise; most S3-compatible stores accept any region.
	DefaultService = "s3"
	DefaultRegion  = "us-east-1"
)
