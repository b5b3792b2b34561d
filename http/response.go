package http

import (
	"io"
	"strconv"
)

type BodyKind uint8

const (
	BodyText BodyKind = iota
	BodyRaw
)

// Body is either text (sent UTF-8 encoded) or raw bytes (sent as-is).
type Body struct {
	Kind BodyKind
	Text string
	Raw  []byte
}

func TextBody(text string) Body {
	return Body{Kind: BodyText, Text: text}
}

func RawBody(raw []byte) Body {
	return Body{Kind: BodyRaw, Raw: raw}
}

// Bytes returns the wire form of the body.
func (b Body) Bytes() []byte {
	switch b.Kind {
	case BodyRaw:
		return b.Raw
	default:
		return []byte(b.Text)
	}
}

type Response struct {
	Status      int
	Body        Body
	ContentType string
}

func NewTextResponse(status int, text, contentType string) Response {
	return Response{Status: status, Body: TextBody(text), ContentType: contentType}
}

func NewRawResponse(status int, raw []byte, contentType string) Response {
	return Response{Status: status, Body: RawBody(raw), ContentType: contentType}
}

// Bytes serializes the response: status line, Content-Type, Content-Length,
// blank line, body.
func (res Response) Bytes() []byte {
	body := res.Body.Bytes()

	buf := make([]byte, 0, 128+len(body))
	buf = append(buf, protocolHttp11...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(res.Status), 10)
	buf = append(buf, ' ')
	buf = append(buf, StatusText(res.Status)...)
	buf = append(buf, crlf...)

	buf = append(buf, "Content-Type"+headerSep...)
	buf = append(buf, res.ContentType...)
	buf = append(buf, crlf...)

	buf = append(buf, "Content-Length"+headerSep...)
	buf = strconv.AppendInt(buf, int64(len(body)), 10)
	buf = append(buf, crlf...)
	buf = append(buf, crlf...)

	return append(buf, body...)
}

// WriteTo writes the serialized response to w in full.
func (res Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(res.Bytes())
	return int64(n), err
}
