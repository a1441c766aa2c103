// Package cept signs HTTP requests for S3-compatible object stores using AWS
// Signature Version 4 and verifies such signatures.
//
// Signing follows the Signature Version 4 format as specified by AWS in the
// AWS General Reference, section Signing AWS requests:
// https://docs.aws.amazon.com/general/latest/gr/sigv4_signing.html
//
// The package supports header-based signing (an Authorization header) and
// query-based presigning (signature material embedded in the URL). Signing is
// a pure computation over the request description and credentials; transport
// concerns live in pkg/transport and request assembly in pkg/request.
package cept
