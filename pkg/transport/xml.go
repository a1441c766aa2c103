package transport

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// XMLNamespaceS3 is the namespace S3-compatible servers use in responses.
const XMLNamespaceS3 = "http://s3.amazonaws.com/doc/2006-03-01/"

// Part pairs a part number with the ETag the server returned for it during a
// multipart upload.
type Part struct {
	Number int
	ETag   string
}

type multipartPart struct {
	ETag       string `xml:"ETag"`
	PartNumber int    `xml:"PartNumber"`
}

type completeMultipartUpload struct {
	XMLName xml.Name        `xml:"CompleteMultipartUpload"`
	Parts   []multipartPart `xml:"Part"`
}

// BuildMultipartList renders the CompleteMultipartUpload document sent to
// finish an explicit multipart upload.
func BuildMultipartList(parts []Part) ([]byte, error) {
	doc := completeMultipartUpload{Parts: make([]multipartPart, 0, len(parts))}
	for _, p := range parts {
		doc.Parts = append(doc.Parts, multipartPart{ETag: p.ETag, PartNumber: p.Number})
	}

	return xml.Marshal(doc)
}

// UploadIDFrom extracts the UploadId value from the XML response initiating a
// multipart upload.
func UploadIDFrom(body []byte) (string, error) {
	ids := FindText(body, "UploadId")
	if len(ids) == 0 {
		return "", errors.New("response contains no UploadId")
	}
	return ids[0], nil
}

// ETagFrom returns the ETag response header, which identifies an uploaded
// part when composing the final multipart request.
func ETagFrom(header http.Header) string {
	return header.Get("ETag")
}

// FindText returns the character data of every element whose local name
// matches tag, regardless of namespace. Useful for pulling single values
// such as UploadId or VersionId out of responses without modeling the whole
// document.
func FindText(body []byte, tag string) []string {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var found []string
	depth := 0 // nesting depth inside a matching element, 0 = outside
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth > 0 {
				depth++
			} else if t.Name.Local == tag {
				depth = 1
				text.Reset()
			}
		case xml.CharData:
			if depth > 0 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
				if depth == 0 {
					found = append(found, text.String())
				}
			}
		}
	}

	return found
}

// PrettyXML re-indents an XML document for display.
func PrettyXML(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var out bytes.Buffer
	enc := xml.NewEncoder(&out)
	enc.Indent("", "   ")

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing xml: %w", err)
		}
		// inter-element whitespace would defeat re-indenting
		if cd, ok := tok.(xml.CharData); ok {
			trimmed := bytes.TrimSpace(cd)
			if len(trimmed) == 0 {
				continue
			}
			tok = xml.CharData(trimmed)
		}
		if err := enc.EncodeToken(tok); err != nil {
			return "", err
		}
	}

	if err := enc.Flush(); err != nil {
		return "", err
	}

	return out.String(), nil
}
