// Package credentials implements credential management for signing requests.
//
// Credentials consist of an access key ID and a secret access key, optionally
// a session token. Providers retrieve them from different sources: static
// values or the JSON endpoint configuration file the CLI tools consume.
package credentials
