// Command cept-presign generates a presigned URL for an S3 object. Anyone
// holding the URL can perform the embedded method on the object until the
// expiration elapses, no credentials required.
//
//	cept-presign -access-key AKIA... -secret-key ... \
//	    -endpoint https://s3.amazonaws.com -bucket examplebucket -key test.txt \
//	    -expiration 1:0:0:0
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mbattey58/cept"
	"github.com/mbattey58/cept/pkg/request"
	"github.com/mbattey58/cept/pkg/util"
)

func main() {
	var (
		accessKey  = flag.String("access-key", "", "access key id (required)")
		secretKey  = flag.String("secret-key", "", "secret access key (required)")
		endpoint   = flag.String("endpoint", "", "endpoint URL, e.g. https://s3.amazonaws.com (required)")
		bucket     = flag.String("bucket", "", "bucket name")
		key        = flag.String("key", "", "object key, requires -bucket")
		method     = flag.String("method", "get", "request method: get, put, post, head, delete")
		expiration = flag.String("expiration", "0:1:0:0", "URL validity as days:hours:minutes:seconds")
		parameters = flag.String("parameters", "", "';' separated key=value query parameters")
		region     = flag.String("region", util.DefaultRegion, "signing region")
	)
	flag.Parse()

	if err := run(*accessKey, *secretKey, *endpoint, *bucket, *key, *method, *expiration, *parameters, *region); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(accessKey, secretKey, endpoint, bucket, key, method, expiration, parameters, region string) error {
	if accessKey == "" || secretKey == "" {
		return fmt.Errorf("-access-key and -secret-key are required")
	}

	m, err := request.ParseMethod(method)
	if err != nil {
		return err
	}

	params, err := request.ParseParams(parameters)
	if err != nil {
		return err
	}

	expiry, err := parseExpiration(expiration)
	if err != nil {
		return err
	}

	builder := request.Builder{
		Method:   m,
		Endpoint: endpoint,
		Bucket:   bucket,
		Key:      key,
		Params:   params,
	}

	req, _, err := builder.Build()
	if err != nil {
		return err
	}

	signer := cept.NewSignerWithStaticCredentials(accessKey, secretKey, "")
	if err := signer.Presign(req, nil, util.DefaultService, region, expiry, time.Now().UTC()); err != nil {
		return err
	}

	fmt.Println(req.URL.String())
	return nil
}

// parseExpiration turns a days:hours:minutes:seconds string into a duration.
// Fields fill left to right, so "10" means ten days and "0:2" two hours.
func parseExpiration(s string) (time.Duration, error) {
	fields := strings.Split(s, ":")
	if len(fields) > 4 {
		return 0, fmt.Errorf("expiration %q has more than four fields", s)
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}

	var expiry time.Duration
	for i, field := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed expiration field %q in %q", field, s)
		}
		expiry += time.Duration(n) * units[i]
	}

	if expiry <= 0 {
		return 0, fmt.Errorf("expiration must be positive")
	}

	return expiry, nil
}
