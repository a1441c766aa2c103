// Command cept sends a signed REST request to an S3-compatible service,
// think curl plus SigV4 signing.
//
//	cept -config s3-credentials.json -method get -bucket uv-bucket-3 -parameters "versions="
//
// prints all version information associated with a bucket, while
//
//	cept -config s3-credentials.json -method get
//
// lists the buckets owned by the configured access key. Credentials and
// endpoint information come from a JSON configuration file:
//
//	{
//	    "access_key": "00000000000000000000000000000000",
//	    "secret_key": "11111111111111111111111111111111",
//	    "protocol"  : "http",
//	    "host"      : "localhost",
//	    "port"      : 8000
//	}
package main

import (
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbattey58/cept"
	"github.com/mbattey58/cept/pkg/credentials"
	"github.com/mbattey58/cept/pkg/request"
	"github.com/mbattey58/cept/pkg/transport"
	"github.com/mbattey58/cept/pkg/util"
)

type options struct {
	configFile  string
	method      string
	bucket      string
	key         string
	payload     string
	payloadFile string
	signPayload bool
	parameters  string
	headers     string
	saveFile    string
	substitute  string
	override    string
	proxy       string
	presign     bool
	expires     time.Duration
	region      string
	logLevel    string
	headerKeys  string
	xmlQuery    string
}

func main() {
	var opts options

	flag.StringVar(&opts.configFile, "config", "", "json configuration file (required)")
	flag.StringVar(&opts.method, "method", "get", "request method: get, put, post, head, delete")
	flag.StringVar(&opts.bucket, "bucket", "", "bucket name")
	flag.StringVar(&opts.key, "key", "", "object key, requires -bucket")
	flag.StringVar(&opts.payload, "payload", "", "request body as literal text")
	flag.StringVar(&opts.payloadFile, "payload-file", "", "request body read from file")
	flag.BoolVar(&opts.signPayload, "sign-payload", false, "cover the payload with the signature instead of UNSIGNED-PAYLOAD")
	flag.StringVar(&opts.parameters, "parameters", "", "';' separated key=value query parameters, 'key=' for empty values")
	flag.StringVar(&opts.headers, "headers", "", "';' separated Name:Value request headers")
	flag.StringVar(&opts.saveFile, "save", "", "save response content to file")
	flag.StringVar(&opts.substitute, "substitute", "", "';' separated placeholder=value pairs substituted in the payload")
	flag.StringVar(&opts.override, "override", "", "';' separated key=value pairs replacing configuration fields")
	flag.StringVar(&opts.proxy, "proxy", "", "send the request to this endpoint instead, signing against the configured one")
	flag.BoolVar(&opts.presign, "presign", false, "print a presigned URL instead of sending the request")
	flag.DurationVar(&opts.expires, "expires", time.Hour, "presigned URL validity, e.g. 24h")
	flag.StringVar(&opts.region, "region", util.DefaultRegion, "signing region")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level: error | warn | info | debug | raw | mute")
	flag.StringVar(&opts.headerKeys, "search-headers", "", "','-separated header keys to look up in the response")
	flag.StringVar(&opts.xmlQuery, "xml-query", "", "print text of matching XML tags in the response, e.g. UploadId")
	flag.Parse()

	logger, raw := setupLogger(opts.logLevel)

	if err := run(opts, logger, raw); err != nil {
		logger.Error().Err(err).Msg("request failed")
		if raw {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// setupLogger maps the log-level flag onto zerolog; "raw" selects plain
// stdout printing of the response with logging off, "mute" silences
// everything.
func setupLogger(level string) (zerolog.Logger, bool) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	switch strings.ToLower(level) {
	case "error":
		return logger.Level(zerolog.ErrorLevel), false
	case "warn":
		return logger.Level(zerolog.WarnLevel), false
	case "debug":
		return logger.Level(zerolog.DebugLevel), false
	case "raw":
		return logger.Level(zerolog.Disabled), true
	case "mute":
		return logger.Level(zerolog.Disabled), false
	default:
		return logger.Level(zerolog.InfoLevel), false
	}
}

func run(opts options, logger zerolog.Logger, raw bool) error {
	if opts.configFile == "" {
		return fmt.Errorf("-config is required")
	}

	cfg, err := credentials.LoadEndpointConfig(opts.configFile)
	if err != nil {
		return err
	}

	if opts.override != "" {
		overrides, err := parsePairs(opts.override)
		if err != nil {
			return err
		}
		if err := cfg.ApplyOverrides(overrides); err != nil {
			return err
		}
	}

	method, err := request.ParseMethod(opts.method)
	if err != nil {
		return err
	}

	params, err := request.ParseParams(opts.parameters)
	if err != nil {
		return err
	}

	headers, err := request.ParseHeaders(opts.headers)
	if err != nil {
		return err
	}

	builder := request.Builder{
		Method:   method,
		Endpoint: cfg.Endpoint(),
		Bucket:   opts.bucket,
		Key:      opts.key,
		Params:   params,
		Headers:  headers,
	}

	if err := preparePayload(&builder, opts); err != nil {
		return err
	}

	req, body, err := builder.Build()
	if err != nil {
		return err
	}
	if f, ok := body.(*os.File); ok {
		defer f.Close()
	}

	signer := cept.NewSignerWithStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	now := time.Now().UTC()

	if opts.presign {
		if err := signer.Presign(req, body, util.DefaultService, opts.region, opts.expires, now); err != nil {
			return err
		}
		fmt.Println(req.URL.String())
		return nil
	}

	if opts.signPayload {
		err = signer.Sign(req, body, util.DefaultService, opts.region, now)
	} else {
		err = signer.SignUnsignedPayload(req, util.DefaultService, opts.region, now)
	}
	if err != nil {
		return err
	}

	logger.Debug().
		Str("credential_scope", cept.ScopeFromRequest(req)).
		Str("authorization", req.Header.Get("Authorization")).
		Msg("request signed")

	if opts.proxy != "" {
		if err := redirectToProxy(req, opts.proxy); err != nil {
			return err
		}
	}

	client := transport.NewClient(60*time.Second, logger)

	var resp *transport.Response
	if opts.saveFile != "" {
		resp, err = client.DoToFile(req, opts.saveFile)
	} else {
		resp, err = client.Do(req)
	}
	if err != nil {
		return err
	}

	printResponse(resp, opts, raw)

	if !resp.OK() {
		return fmt.Errorf("server returned %s", resp.Status)
	}

	return nil
}

// preparePayload wires the payload flags into the builder, applying template
// substitution before the bytes ever reach the signer.
func preparePayload(builder *request.Builder, opts options) error {
	subs, err := request.ParseSubstitutions(opts.substitute)
	if err != nil {
		return err
	}

	switch {
	case opts.payloadFile != "" && len(subs) > 0:
		// substitution forces the file into memory
		raw, err := os.ReadFile(opts.payloadFile)
		if err != nil {
			return err
		}
		builder.Payload = request.Substitute(raw, subs)
	case opts.payloadFile != "":
		builder.PayloadFile = opts.payloadFile
	case opts.payload != "":
		builder.Payload = request.Substitute([]byte(opts.payload), subs)
	}

	return nil
}

// redirectToProxy points the signed request at the proxy endpoint while the
// Host header keeps naming the real one, so the signature stays valid.
func redirectToProxy(req *http.Request, proxy string) error {
	u, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("parsing proxy endpoint: %w", err)
	}

	req.Host = util.GetHost(req)
	req.URL.Scheme = u.Scheme
	req.URL.Host = u.Host

	return nil
}

func printResponse(resp *transport.Response, opts options, raw bool) {
	if raw {
		fmt.Printf("STATUS CODE: %d\n\nHEADERS:\n", resp.StatusCode)
		for name, values := range resp.Header {
			fmt.Printf("%s: %s\n", name, strings.Join(values, ","))
		}
		if len(resp.Body) > 0 {
			fmt.Printf("\nRESPONSE CONTENT\n%s\n%s\n", strings.Repeat("=", 20), resp.FormatBody(1024))
		}
	} else if len(resp.Body) > 0 && opts.saveFile == "" {
		fmt.Println(resp.FormatBody(1024))
	}

	if opts.xmlQuery != "" && len(resp.Body) > 0 {
		for _, text := range transport.FindText(resp.Body, opts.xmlQuery) {
			fmt.Println(text)
		}
	}

	if opts.headerKeys != "" {
		for _, line := range resp.HeaderSearch(strings.Split(opts.headerKeys, ",")) {
			fmt.Println(line)
		}
	}
}

// parsePairs parses a ';' separated key=value list into a map.
func parsePairs(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed pair %q, want key=value", pair)
		}
		out[k] = v
	}
	return out, nil
}
