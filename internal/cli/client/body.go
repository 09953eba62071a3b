package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// MaxFiles is the number of files a single multipart submission may carry
const MaxFiles = 5

// Body is an outgoing request body
type Body interface {
	reader() (io.Reader, error)
	contentType() string
	multipart() bool
}

type jsonBody struct {
	v any
}

// JSON returns a body that serializes v as JSON. A nil v sends no body.
func JSON(v any) Body {
	return jsonBody{v: v}
}

func (b jsonBody) reader() (io.Reader, error) {
	if b.v == nil {
		return nil, nil
	}
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

func (b jsonBody) contentType() string { return contentTypeJSON }

func (b jsonBody) multipart() bool { return false }

// File is one upload in a multipart submission
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Multipart is a form body with one JSON "data" field and up to MaxFiles "files" fields
type Multipart struct {
	buf   bytes.Buffer
	ctype string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// NewMultipart encodes data as the JSON "data" part followed by each file as a "files" part
func NewMultipart(data any, files ...File) (*Multipart, error) {
	if len(files) > MaxFiles {
		return nil, ErrTooManyFiles
	}

	m := &Multipart{}
	w := multipart.NewWriter(&m.buf)

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal multipart data: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="data"`)
	h.Set("Content-Type", contentTypeJSON)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create data part: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, fmt.Errorf("failed to write data part: %w", err)
	}

	for _, f := range files {
		ctype := f.ContentType
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", ctype)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create file part %s: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to write file part %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}
	m.ctype = w.FormDataContentType()
	return m, nil
}

func (m *Multipart) reader() (io.Reader, error) {
	return bytes.NewReader(m.buf.Bytes()), nil
}

func (m *Multipart) contentType() string { return m.ctype }

func (m *Multipart) multipart() bool { return true }
