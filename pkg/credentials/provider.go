package credentials

// Provider is the source of credentials used for signing. Retrieve may be
// called once per signing operation, so providers backed by slow sources
// should cache.
type Provider interface {
	// Retrieve returns a usable set of credentials or an error when none can
	// be obtained.
	Retrieve() (Credentials, error)
	// IsExpired reports whether the credentials need to be refreshed before
	// the next Retrieve.
	IsExpired() bool
}
