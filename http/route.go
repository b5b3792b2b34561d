package http

import "net/http"

type Route struct {
	Methods []string
	Path    string

	// IsFile marks Content as a path into the asset storage. No other content
	// source exists yet.
	IsFile  bool
	Content string
}

func FileRoute(path, file string, methods ...string) Route {
	return Route{
		Methods: methods,
		Path:    path,
		IsFile:  true,
		Content: file,
	}
}

// DefaultRoutes is the fixed route table the server ships with.
func DefaultRoutes() []Route {
	return []Route{
		FileRoute("/", "./templates/index.html", http.MethodGet),
		FileRoute("/test/get", "./templates/test.html", http.MethodGet),
		FileRoute("/test/post", "./templates/test.html", http.MethodPost),
		FileRoute("/test/put", "./templates/test.html", http.MethodPut),
		FileRoute("/test/post-get", "./templates/test.html", http.MethodGet, http.MethodPost),
		FileRoute("/favicon.ico", "./static/img/favicon.jpg", http.MethodGet),
	}
}

const (
	bodyRouteNotFound    = "<html><body>404 Route Not Found</body></html>"
	bodyResourceNotFound = "<html><body>404 Resource Not Found</body></html>"
	bodyNotImplemented   = "<html><body>501 Not Implemented</body></html>"
	contentTypeHTML      = "text/html"
)

func methodNotAllowedBody(method, path, allowed string) string {
	return "<html><body>405 Method Not Allowed: " + method + " not allowed for " + path + ". Allowed: " + allowed + "</body></html>"
}
