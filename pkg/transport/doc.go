// Package transport sends signed requests over HTTP(S) and helps callers
// inspect the responses: structured logging, content capture to files and
// the handful of S3 XML chores (multipart part lists, UploadId and ETag
// extraction, pretty printing).
//
// The signing core never touches this package; it signs, transport sends.
package transport
