package http

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/freekieb7/minihttp/test"
)

func TestResponseWrite_Basic(t *testing.T) {
	res := NewTextResponse(StatusOK, "hello, world!", "text/plain")

	buf := &bytes.Buffer{}
	if _, err := res.WriteTo(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 13\r\n\r\nhello, world!"
	test.AssertEqual(t, want, buf.String())
}

func TestResponseWrite_NotFound(t *testing.T) {
	res := NewTextResponse(StatusNotFound, bodyRouteNotFound, contentTypeHTML)

	want := "HTTP/1.1 404 Not Found\r\nContent-Type: text/html\r\nContent-Length: 45\r\n\r\n" + bodyRouteNotFound
	test.AssertEqual(t, want, string(res.Bytes()))
}

func TestResponseWrite_ContentLengthCountsBytes(t *testing.T) {
	res := NewTextResponse(StatusOK, "héllo ✓", "text/plain")

	got := string(res.Bytes())
	if !bytes.Contains([]byte(got), []byte("Content-Length: 10\r\n")) {
		t.Errorf("content length must count encoded bytes: got %q", got)
	}
}

func TestResponseWrite_UnknownStatus(t *testing.T) {
	res := NewTextResponse(418, "", "text/plain")

	want := "HTTP/1.1 418 Unknown\r\nContent-Type: text/plain\r\nContent-Length: 0\r\n\r\n"
	test.AssertEqual(t, want, string(res.Bytes()))
}

func TestStatusText(t *testing.T) {
	testCases := []struct {
		code int
		text string
	}{
		{200, "OK"},
		{404, "Not Found"},
		{405, "Method Not Allowed"},
		{501, "Not Implemented"},
		{201, "Unknown"},
		{500, "Unknown"},
		{0, "Unknown"},
	}

	for _, tc := range testCases {
		test.AssertEqual(t, tc.text, StatusText(tc.code))
	}
}

func TestResponseRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		res  Response
	}{
		{"text", NewTextResponse(StatusMethodNotAllowed, methodNotAllowedBody("DELETE", "/test/get", "GET"), contentTypeHTML)},
		{"raw", NewRawResponse(StatusOK, []byte{0xff, 0xd8, 0xff, 0x00, '\r', '\n'}, "image/jpeg")},
		{"empty text", NewTextResponse(StatusOK, "", "text/html")},
		{"empty raw", NewRawResponse(StatusOK, nil, "application/octet-stream")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wire := tc.res.Bytes()

			parsed, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(wire)), nil)
			if err != nil {
				t.Fatalf("read error: %v", err)
			}
			defer parsed.Body.Close()

			body, err := io.ReadAll(parsed.Body)
			if err != nil {
				t.Fatalf("read body error: %v", err)
			}

			test.AssertEqual(t, tc.res.Status, parsed.StatusCode)
			test.AssertEqual(t, tc.res.ContentType, parsed.Header.Get("Content-Type"))
			test.AssertEqual(t, strconv.Itoa(len(tc.res.Body.Bytes())), parsed.Header.Get("Content-Length"))
			test.AssertBytes(t, tc.res.Body.Bytes(), body)
		})
	}
}

func TestContentType(t *testing.T) {
	testCases := []struct {
		filename    string
		contentType string
	}{
		{"./templates/index.html", "text/html"},
		{"./static/img/favicon.jpg", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"logo.png", "image/png"},
		{"site.css", "text/css"},
		{"app.js", "application/javascript"},
		{"INDEX.HTML", "application/octet-stream"},
		{"archive.tar.gz", "application/octet-stream"},
		{"Makefile", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			test.AssertEqual(t, tc.contentType, ContentType(tc.filename))
		})
	}
}
