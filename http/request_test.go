package http

import (
	"testing"

	"github.com/freekieb7/minihttp/test"
)

func TestRequestParse(t *testing.T) {
	req := ParseRequest("GET /test HTTP/1.1\r\nAccept: text/css\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n")

	test.AssertEqual(t, "GET", req.Method)
	test.AssertEqual(t, "/test", req.Path)
	test.AssertEqual(t, "HTTP/1.1", req.Version)
	test.AssertEqual(t, 3, len(req.Headers))
	test.AssertEqual(t, "", req.Body)

	h, found := req.HeaderValue("Connection")
	if !found {
		t.Error("Connection header not found")
	}
	test.AssertEqual(t, "keep-alive", h)

	if _, found := req.HeaderValue("connection"); found {
		t.Error("header names must not be case-normalized")
	}
}

func TestRequestParseDefaults(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		method  string
		path    string
		version string
	}{
		{"empty request line", "\r\nHost: x\r\n\r\n", "", "/", "HTTP/1.1"},
		{"method only", "GET", "GET", "/", "HTTP/1.1"},
		{"method and path", "POST /test/post", "POST", "/test/post", "HTTP/1.1"},
		{"extra tokens ignored", "GET / HTTP/1.0 extra", "GET", "/", "HTTP/1.0"},
		{"no url decoding", "GET /a%20b HTTP/1.1", "GET", "/a%20b", "HTTP/1.1"},
		{"double space keeps empty path", "GET  HTTP/1.1", "GET", "", "HTTP/1.1"},
		{"garbage", "\x00\x01", "\x00\x01", "/", "HTTP/1.1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := ParseRequest(tc.raw)
			test.AssertEqual(t, tc.method, req.Method)
			test.AssertEqual(t, tc.path, req.Path)
			test.AssertEqual(t, tc.version, req.Version)
		})
	}
}

func TestRequestParseHeaders(t *testing.T) {
	req := ParseRequest("GET / HTTP/1.1\r\n" +
		"Host: x\r\n" +
		"X-Dup: first\r\n" +
		"no separator here\r\n" +
		"Colon:without-space\r\n" +
		"X-Url: http://a: b\r\n" +
		"X-Dup: second\r\n" +
		"\r\n" +
		"After: blank\r\n")

	test.AssertEqual(t, 3, len(req.Headers))
	test.AssertEqual(t, "x", req.Headers["Host"])
	test.AssertEqual(t, "second", req.Headers["X-Dup"])
	test.AssertEqual(t, "http://a: b", req.Headers["X-Url"])

	if _, found := req.Headers["After"]; found {
		t.Error("lines after the blank line must not be parsed as headers")
	}
}

func TestRequestParseBody(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		body string
	}{
		{"no blank line", "POST / HTTP/1.1\r\nHost: x", ""},
		{"blank line ends input", "POST / HTTP/1.1\r\nHost: x\r\n\r\n", ""},
		{"single line body", "POST / HTTP/1.1\r\nHost: x\r\n\r\nname=value", "name=value"},
		{"multi line body joined with LF", "POST / HTTP/1.1\r\n\r\na\r\nb\r\n", "a\nb\n"},
		{"blank line inside body kept", "POST / HTTP/1.1\r\n\r\na\r\n\r\nb", "a\n\nb"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := ParseRequest(tc.raw)
			test.AssertEqual(t, tc.body, req.Body)
		})
	}
}

func BenchmarkRequestParse(b *testing.B) {
	reqMsg := "GET /test HTTP/1.1\r\nAccept: text/css\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n"

	for i := 0; i < b.N; i++ {
		ParseRequest(reqMsg)
	}
}
