package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMultipartList(t *testing.T) {
	doc, err := BuildMultipartList([]Part{
		{Number: 1, ETag: `"etag-one"`},
		{Number: 2, ETag: `"etag-two"`},
	})
	require.NoError(t, err)

	want := `<CompleteMultipartUpload>` +
		`<Part><ETag>&#34;etag-one&#34;</ETag><PartNumber>1</PartNumber></Part>` +
		`<Part><ETag>&#34;etag-two&#34;</ETag><PartNumber>2</PartNumber></Part>` +
		`</CompleteMultipartUpload>`
	assert.Equal(t, want, string(doc))
}

func TestUploadIDFrom(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<InitiateMultipartUploadResult xmlns="` + XMLNamespaceS3 + `">
   <Bucket>uv-bucket-3</Bucket>
   <Key>big.bin</Key>
   <UploadId>VXBsb2FkIElE</UploadId>
</InitiateMultipartUploadResult>`)

	id, err := UploadIDFrom(body)
	require.NoError(t, err)
	assert.Equal(t, "VXBsb2FkIElE", id)

	_, err = UploadIDFrom([]byte("<Empty/>"))
	assert.Error(t, err)
}

func TestETagFrom(t *testing.T) {
	h := http.Header{}
	h.Set("ETag", `"9b2cf535f27731c974343645a3985328"`)

	assert.Equal(t, `"9b2cf535f27731c974343645a3985328"`, ETagFrom(h))
	assert.Equal(t, "", ETagFrom(http.Header{}))
}

func TestFindText(t *testing.T) {
	body := []byte(`<ListBucketResult xmlns="` + XMLNamespaceS3 + `">
   <Contents><Key>a.txt</Key></Contents>
   <Contents><Key>b.txt</Key></Contents>
</ListBucketResult>`)

	assert.Equal(t, []string{"a.txt", "b.txt"}, FindText(body, "Key"))
	assert.Empty(t, FindText(body, "UploadId"))
}

func TestFindTextNested(t *testing.T) {
	body := []byte(`<Outer><Match>before<Inner>within</Inner>after</Match></Outer>`)

	assert.Equal(t, []string{"beforewithinafter"}, FindText(body, "Match"))
}

func TestPrettyXML(t *testing.T) {
	pretty, err := PrettyXML([]byte(`<A><B>text</B><C/></A>`))
	require.NoError(t, err)
	assert.Equal(t, "<A>\n   <B>text</B>\n   <C></C>\n</A>", pretty)

	// already-indented input must not accumulate whitespace
	again, err := PrettyXML([]byte(pretty))
	require.NoError(t, err)
	assert.Equal(t, pretty, again)
}
