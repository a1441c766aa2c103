package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(endpoint string) *httptest.Server {
	return httptest.NewServer(New(endpoint, zerolog.Nop()).Handler())
}

func TestLogOnly(t *testing.T) {
	srv := newTestServer("")
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/uv-bucket-3/key?uploads=", "application/xml", strings.NewReader("<Doc/>"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestConfigShow(t *testing.T) {
	srv := newTestServer("http://backend:9000")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/__config")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "endpoint: http://backend:9000")
	assert.Contains(t, string(body), "download-chunk-size:")
}

func TestConfigSet(t *testing.T) {
	server := New("", zerolog.Nop())
	srv := httptest.NewServer(server.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/__config/download-chunk-size?value=4096")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4096, server.ChunkSize())

	resp, err = http.Get(srv.URL + "/__config/endpoint?value=" + url.QueryEscape("http://other:8000/"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://other:8000", server.Endpoint(), "trailing slash must be stripped")
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	srv := newTestServer("")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/__config/download-chunk-size?value=zero")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/__config/download-chunk-size?value=-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/__config/no-such-key?value=1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestForwarding(t *testing.T) {
	var seen struct {
		method string
		uri    string
		host   string
		auth   string
		body   string
	}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen.method = r.Method
		seen.uri = r.URL.RequestURI()
		seen.host = r.Host
		seen.auth = r.Header.Get("Authorization")
		seen.body = string(body)

		w.Header().Set("ETag", `"relayed"`)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("stored"))
	}))
	defer backend.Close()

	srv := newTestServer(backend.URL)
	defer srv.Close()

	req, err := http.NewRequest("PUT", srv.URL+"/uv-bucket-3/file.txt?versions=", strings.NewReader("payload"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "AWS4-HMAC-SHA256 Credential=...")
	req.Host = "origin.example.com"

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `"relayed"`, resp.Header.Get("ETag"))

	relayed, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "stored", string(relayed))

	assert.Equal(t, "PUT", seen.method)
	assert.Equal(t, "/uv-bucket-3/file.txt?versions=", seen.uri)
	assert.Equal(t, "origin.example.com", seen.host, "Host header must survive the relay")
	assert.Equal(t, "AWS4-HMAC-SHA256 Credential=...", seen.auth)
	assert.Equal(t, "payload", seen.body)
}

func TestForwardingUnreachable(t *testing.T) {
	srv := newTestServer("http://127.0.0.1:1")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/anything")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
