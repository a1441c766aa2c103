package credentials

import "errors"

const StaticProviderName = "StaticProvider"

var ErrStaticCredentialsEmpty = errors.New("static credentials are empty")

// StaticProvider serves a fixed key pair, typically taken from flags or the
// environment. The credentials never expire.
type StaticProvider struct {
	creds Credentials
}

func NewStaticProvider(id string, secret string, token string) *StaticProvider {
	return &StaticProvider{
		creds: Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			ProviderName:    StaticProviderName,
		},
	}
}

func (p *StaticProvider) Retrieve() (Credentials, error) {
	if p.creds.AccessKeyID == "" && p.creds.SecretAccessKey == "" {
		return Credentials{ProviderName: StaticProviderName}, ErrStaticCredentialsEmpty
	}

	return p.creds, nil
}

func (p *StaticProvider) IsExpired() bool {
	return false
}
