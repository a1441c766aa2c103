// Package request assembles HTTP requests for S3-compatible endpoints from
// CLI-style inputs: a method name, bucket/key path segments, semicolon
// separated parameter and header lists and a payload. The assembled request
// is handed to the signing core; no signing logic lives here.
package request
