package credentials

import (
	"time"

	"github.com/mbattey58/cept/pkg/util"
)

// Credentials represents a set of credentials consisting of an access key ID
// and its corresponding secret as well as an optional session token.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// Name of provider used to retrieve credentials
	ProviderName string
}

// DeriveSigningKey derives the HMAC signing key from the secret through the
// four-step chain defined by AWS Signature Version 4: date, region, service,
// request type. Each step keys the next with its raw byte output.
func (c Credentials) DeriveSigningKey(t time.Time, region string, service string) []byte {
	if c.SecretAccessKey == "" {
		return nil
	}

	kDate := util.HMACSHA256([]byte("AWS4"+c.SecretAccessKey), []byte(util.FormatDate(t)))
	kRegion := util.HMACSHA256(kDate, []byte(region))
	kService := util.HMACSHA256(kRegion, []byte(service))
	kSigning := util.HMACSHA256(kService, []byte(util.RequestTypeAWS4))
	return kSigning
}
