package http

import "strings"

const defaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	".html": "text/html",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".css":  "text/css",
	".js":   "application/javascript",
}

// ContentType maps the extension of filename, taken from the last '.', to a
// MIME type. Matching is case-sensitive.
func ContentType(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return defaultContentType
	}

	if contentType, found := contentTypes[filename[i:]]; found {
		return contentType
	}
	return defaultContentType
}
