package transport

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const DefaultChunkSize = 1 << 20

// Client wraps an HTTP client with request/response logging. The zero value
// is not usable; construct it with NewClient.
type Client struct {
	hc  *http.Client
	log zerolog.Logger

	// ChunkSize bounds the copy buffer when streaming response content to a
	// file.
	ChunkSize int
}

// NewClient returns a Client with the given timeout and logger. A timeout of
// 0 disables the client-side deadline.
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		hc:        &http.Client{Timeout: timeout},
		log:       logger,
		ChunkSize: DefaultChunkSize,
	}
}

// Response captures a completed exchange. Body is fully read unless the
// content was streamed to a file, in which case Body is nil and Saved holds
// the byte count written.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Saved      int64
	Duration   time.Duration
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HeaderSearch returns "key: value" lines for every requested header present
// in the response, matched case-insensitively.
func (r *Response) HeaderSearch(keys []string) []string {
	var found []string
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if v := r.Header.Get(k); v != "" {
			found = append(found, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return found
}

// ContentType returns the response content type without parameters.
func (r *Response) ContentType() string {
	ct, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
	return strings.TrimSpace(ct)
}

// FormatBody renders the body for human consumption: XML and HTML are
// re-indented, JSON and plain text pass through, anything else is truncated
// to limit bytes. limit <= 0 means no truncation.
func (r *Response) FormatBody(limit int) string {
	if len(r.Body) == 0 {
		return ""
	}

	switch r.ContentType() {
	case "application/xml", "text/xml", "text/html":
		if pretty, err := PrettyXML(r.Body); err == nil {
			return pretty
		}
	case "application/json", "text/plain":
		return string(r.Body)
	}

	body := r.Body
	if limit > 0 && len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}

// Do executes the request and reads the response body into memory.
func (c *Client) Do(req *http.Request) (*Response, error) {
	return c.do(req, nil)
}

// DoToFile executes the request and streams a successful response's content
// to the named file chunk by chunk instead of buffering it. Error responses
// are still buffered so the caller can inspect them.
func (c *Client) DoToFile(req *http.Request, path string) (*Response, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating content file: %w", err)
	}
	defer f.Close()

	return c.do(req, f)
}

func (c *Client) do(req *http.Request, sink io.Writer) (*Response, error) {
	c.log.Info().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("sending request")
	c.logHeaders("request headers", req.Header)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Duration:   time.Since(start),
	}

	if sink != nil && out.OK() {
		chunk := c.ChunkSize
		if chunk <= 0 {
			chunk = DefaultChunkSize
		}
		out.Saved, err = io.CopyBuffer(sink, resp.Body, make([]byte, chunk))
		if err != nil {
			return nil, fmt.Errorf("saving content: %w", err)
		}
	} else {
		out.Body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
	}

	evt := c.log.Info()
	if !out.OK() {
		evt = c.log.Error()
	}
	evt.Int("status", out.StatusCode).
		Dur("elapsed", out.Duration).
		Int64("saved_bytes", out.Saved).
		Msg("response received")
	c.logHeaders("response headers", out.Header)

	return out, nil
}

func (c *Client) logHeaders(msg string, headers http.Header) {
	if c.log.GetLevel() > zerolog.DebugLevel {
		return
	}

	evt := c.log.Debug()
	for name, values := range headers {
		evt = evt.Str(name, strings.Join(values, ","))
	}
	evt.Msg(msg)
}
