package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

const FileProviderName = "FileProvider"

var (
	ErrMissingAccessKey = errors.New("configuration is missing access_key")
	ErrMissingSecretKey = errors.New("configuration is missing secret_key")
	ErrMissingHost      = errors.New("configuration is missing host")
	ErrMissingProtocol  = errors.New("configuration is missing protocol")
)

// EndpointConfig is the JSON configuration the CLI tools consume. The schema
// is fixed:
//
//	{
//	    "version"   : "1",
//	    "access_key": "00000000000000000000000000000000",
//	    "secret_key": "11111111111111111111111111111111",
//	    "protocol"  : "http",
//	    "host"      : "localhost",
//	    "port"      : 8000
//	}
//
// Port is optional; everything else is required.
type EndpointConfig struct {
	Version   string `json:"version,omitempty"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Protocol  string `json:"protocol"`
	Host      string `json:"host"`
	Port      int    `json:"port,omitempty"`
}

// LoadEndpointConfig reads and validates a JSON configuration file.
func LoadEndpointConfig(path string) (*EndpointConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var cfg EndpointConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports the first missing required field.
func (c *EndpointConfig) Validate() error {
	switch {
	case c.AccessKey == "":
		return ErrMissingAccessKey
	case c.SecretKey == "":
		return ErrMissingSecretKey
	case c.Protocol == "":
		return ErrMissingProtocol
	case c.Host == "":
		return ErrMissingHost
	}
	return nil
}

// ApplyOverrides replaces configuration fields with the given values
// verbatim. Keys match the JSON field names; unknown keys are rejected so a
// typo does not silently leave the original value in place.
func (c *EndpointConfig) ApplyOverrides(overrides map[string]string) error {
	for k, v := range overrides {
		switch k {
		case "version":
			c.Version = v
		case "access_key":
			c.AccessKey = v
		case "secret_key":
			c.SecretKey = v
		case "protocol":
			c.Protocol = v
		case "host":
			c.Host = v
		case "port":
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("override port %q: %w", v, err)
			}
			c.Port = port
		default:
			return fmt.Errorf("unknown configuration override %q", k)
		}
	}
	return nil
}

// Endpoint renders protocol://host[:port].
func (c *EndpointConfig) Endpoint() string {
	endpoint := c.Protocol + "://" + c.Host
	if c.Port != 0 {
		endpoint += ":" + strconv.Itoa(c.Port)
	}
	return endpoint
}

// HostHeader returns the Host header value, host[:port].
func (c *EndpointConfig) HostHeader() string {
	if c.Port != 0 {
		return c.Host + ":" + strconv.Itoa(c.Port)
	}
	return c.Host
}

// Credentials returns the access and secret key pair held by the config.
func (c *EndpointConfig) Credentials() Credentials {
	return Credentials{
		AccessKeyID:     c.AccessKey,
		SecretAccessKey: c.SecretKey,
		ProviderName:    FileProviderName,
	}
}

// FileProvider loads credentials from a JSON endpoint configuration file once
// and serves them from memory afterwards.
type FileProvider struct {
	Path string

	cfg *EndpointConfig
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (f *FileProvider) Retrieve() (Credentials, error) {
	if f.cfg == nil {
		cfg, err := LoadEndpointConfig(f.Path)
		if err != nil {
			return Credentials{ProviderName: FileProviderName}, err
		}
		f.cfg = cfg
	}

	return f.cfg.Credentials(), nil
}

func (f *FileProvider) IsExpired() bool {
	return false
}
