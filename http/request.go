package http

import "strings"

type Request struct {
	Method  string
	Path    string
	Version string

	// Headers keeps names exactly as received.
	Headers map[string]string
	Body    string
}

// ParseRequest builds a Request from raw request text. It never fails:
// missing pieces fall back to an empty method, "/" and "HTTP/1.1".
func ParseRequest(raw string) Request {
	lines := strings.Split(raw, crlf)

	req := Request{
		Path:    "/",
		Version: protocolHttp11,
		Headers: make(map[string]string),
	}

	parts := strings.Split(lines[0], " ")
	req.Method = parts[0]
	if len(parts) > 1 {
		req.Path = parts[1]
	}
	if len(parts) > 2 {
		req.Version = parts[2]
	}

	bodyStart := -1
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			bodyStart = i + 1
			break
		}

		key, value, found := strings.Cut(line, headerSep)
		if !found {
			continue
		}
		req.Headers[key] = value
	}

	if bodyStart != -1 {
		req.Body = strings.Join(lines[bodyStart:], "\n")
	}

	return req
}

// HeaderValue looks a header up by its exact name.
func (req *Request) HeaderValue(name string) (string, bool) {
	v, found := req.Headers[name]
	return v, found
}
