package transport

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return NewClient(5*time.Second, zerolog.Nop())
}

func TestClientDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Header().Set("ETag", `"abc"`)
		_, _ = w.Write([]byte(`<ListAllMyBucketsResult><Owner><ID>me</ID></Owner></ListAllMyBucketsResult>`))
	}))
	defer srv.Close()

	req, err := http.NewRequest("GET", srv.URL+"/", nil)
	require.NoError(t, err)

	resp, err := newTestClient().Do(req)
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml", resp.ContentType())
	assert.Contains(t, string(resp.Body), "<ID>me</ID>")
	assert.Equal(t, []string{`ETag: "abc"`}, resp.HeaderSearch([]string{"etag", "Missing"}))
	assert.Greater(t, resp.Duration, time.Duration(0))
}

func TestClientDoErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "AccessDenied", http.StatusForbidden)
	}))
	defer srv.Close()

	req, err := http.NewRequest("GET", srv.URL+"/secret", nil)
	require.NoError(t, err)

	resp, err := newTestClient().Do(req)
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "AccessDenied")
}

func TestClientDoToFile(t *testing.T) {
	content := make([]byte, 3000)
	for i := range content {
		content[i] = byte('a' + i%26)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(content)
	}))
	defer srv.Close()

	req, err := http.NewRequest("GET", srv.URL+"/obj", nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "downloaded.bin")
	client := newTestClient()
	client.ChunkSize = 512 // force multiple copy iterations

	resp, err := client.DoToFile(req, path)
	require.NoError(t, err)

	assert.Equal(t, int64(len(content)), resp.Saved)
	assert.Nil(t, resp.Body)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestClientDoToFileErrorBuffered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "NoSuchKey", http.StatusNotFound)
	}))
	defer srv.Close()

	req, err := http.NewRequest("GET", srv.URL+"/missing", nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "should-stay-empty")
	resp, err := newTestClient().DoToFile(req, path)
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Contains(t, string(resp.Body), "NoSuchKey")
	assert.Zero(t, resp.Saved)
}

func TestFormatBody(t *testing.T) {
	xmlResp := &Response{
		Header: http.Header{"Content-Type": []string{"application/xml"}},
		Body:   []byte(`<A><B>x</B></A>`),
	}
	assert.Equal(t, "<A>\n   <B>x</B>\n</A>", xmlResp.FormatBody(0))

	plain := &Response{
		Header: http.Header{"Content-Type": []string{"text/plain"}},
		Body:   []byte("just text"),
	}
	assert.Equal(t, "just text", plain.FormatBody(4))

	binary := &Response{
		Header: http.Header{"Content-Type": []string{"application/octet-stream"}},
		Body:   []byte("0123456789"),
	}
	assert.Equal(t, "0123", binary.FormatBody(4))

	empty := &Response{}
	assert.Equal(t, "", empty.FormatBody(0))
}
