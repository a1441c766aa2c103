package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/mbattey58/cept/pkg/util"
)

var (
	ErrKeyWithoutBucket = errors.New("object key given without a bucket")
	ErrMissingEndpoint  = errors.New("endpoint is required")
)

// Builder assembles a single S3 REST request. Fill in the fields and call
// Build; the result is ready to be signed and sent.
type Builder struct {
	Method Method
	// Endpoint is the base URL, protocol://host[:port].
	Endpoint string
	// Bucket and Key form the request path /bucket[/key]. A key without a
	// bucket is invalid.
	Bucket string
	Key    string
	// Params become the query string.
	Params url.Values
	// Headers are set on the request verbatim.
	Headers http.Header
	// Payload is the request body. PayloadFile, when set, names a file whose
	// contents serve as the body instead; the two are mutually exclusive.
	Payload     []byte
	PayloadFile string
}

// Path returns the percent-encoded URI path for the bucket/key pair.
func (b *Builder) Path() (string, error) {
	raw, err := b.rawPath()
	if err != nil {
		return "", err
	}

	return util.EncodePath(raw), nil
}

// rawPath returns the unencoded /bucket[/key] path.
func (b *Builder) rawPath() (string, error) {
	if b.Key != "" && b.Bucket == "" {
		return "", ErrKeyWithoutBucket
	}

	path := "/"
	if b.Bucket != "" {
		path += b.Bucket
		if b.Key != "" {
			path += "/" + b.Key
		}
	}

	return path, nil
}

// Build assembles the HTTP request and returns it along with a seekable body
// for payload hashing. The body is nil for requests without a payload; when
// PayloadFile is used the caller owns closing the returned file.
func (b *Builder) Build() (*http.Request, io.ReadSeeker, error) {
	if _, err := ParseMethod(string(b.Method)); err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(b.Endpoint) == "" {
		return nil, nil, ErrMissingEndpoint
	}

	raw, err := b.rawPath()
	if err != nil {
		return nil, nil, err
	}

	u, err := url.Parse(b.Endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing endpoint %q: %w", b.Endpoint, err)
	}
	// Path holds the decoded form; RawPath carries the percent-encoded form
	// that goes on the wire, so special characters are encoded exactly once.
	u.Path = raw
	u.RawPath = util.EncodePath(raw)
	u.RawQuery = b.Params.Encode()

	body, size, err := b.body()
	if err != nil {
		return nil, nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = body
	}

	req, err := http.NewRequest(string(b.Method), u.String(), reader)
	if err != nil {
		return nil, nil, err
	}
	req.ContentLength = size

	for name, values := range b.Headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	return req, body, nil
}

func (b *Builder) body() (io.ReadSeeker, int64, error) {
	if b.PayloadFile != "" {
		if len(b.Payload) > 0 {
			return nil, 0, errors.New("payload and payload file are mutually exclusive")
		}

		f, err := os.Open(b.PayloadFile)
		if err != nil {
			return nil, 0, fmt.Errorf("opening payload file: %w", err)
		}

		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, 0, err
		}

		return f, info.Size(), nil
	}

	if len(b.Payload) == 0 {
		return nil, 0, nil
	}

	return bytes.NewReader(b.Payload), int64(len(b.Payload)), nil
}
