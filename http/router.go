package http

import (
	"context"
	"slices"
	"strings"

	"github.com/freekieb7/minihttp/filesystem"
)

// Router resolves requests against an immutable route table.
type Router struct {
	routes     map[string]Route
	filesystem filesystem.Filesystem
	logger     Logger
}

// NewRouter copies routes into an exact-match table. A later route with the
// same path replaces an earlier one.
func NewRouter(fs filesystem.Filesystem, logger Logger, routes ...Route) *Router {
	table := make(map[string]Route, len(routes))
	for _, route := range routes {
		route.Methods = slices.Clone(route.Methods)
		table[route.Path] = route
	}

	return &Router{
		routes:     table,
		filesystem: fs,
		logger:     logger,
	}
}

// Route returns the route registered for path.
func (router *Router) Route(path string) (Route, bool) {
	route, found := router.routes[path]
	return route, found
}

func (router *Router) Resolve(ctx context.Context, req Request) Response {
	router.logger.DebugContext(ctx, "deciding path", "path", req.Path)

	route, found := router.routes[req.Path]
	if !found {
		router.logger.ErrorContext(ctx, "route not found", "status", StatusNotFound, "path", req.Path)
		return NewTextResponse(StatusNotFound, bodyRouteNotFound, contentTypeHTML)
	}

	allowed := strings.Join(route.Methods, ", ")
	router.logger.DebugContext(ctx, "checking method", "allowed", allowed)
	if !slices.Contains(route.Methods, req.Method) {
		router.logger.ErrorContext(ctx, "method not allowed", "status", StatusMethodNotAllowed, "method", req.Method, "allowed", allowed)
		return NewTextResponse(StatusMethodNotAllowed, methodNotAllowedBody(req.Method, req.Path, allowed), contentTypeHTML)
	}

	if !route.IsFile {
		router.logger.WarnContext(ctx, "route has no content source", "status", StatusNotImplemented, "path", req.Path)
		return NewTextResponse(StatusNotImplemented, bodyNotImplemented, contentTypeHTML)
	}

	return router.serveFile(ctx, route.Content)
}

func (router *Router) serveFile(ctx context.Context, path string) Response {
	exists, err := router.filesystem.FileExists(path)
	if err == nil && exists {
		var isDir bool
		isDir, err = router.filesystem.IsDirectory(path)
		exists = !isDir
	}
	if err != nil || !exists {
		args := []any{"status", StatusNotFound, "file", path}
		if err != nil {
			args = append(args, "error", err)
		}
		router.logger.ErrorContext(ctx, "file not found", args...)
		return NewTextResponse(StatusNotFound, bodyResourceNotFound, contentTypeHTML)
	}

	content, err := router.filesystem.ReadFile(path)
	if err != nil {
		router.logger.ErrorContext(ctx, "reading file failed", "status", StatusNotFound, "file", path, "error", err)
		return NewTextResponse(StatusNotFound, bodyResourceNotFound, contentTypeHTML)
	}

	contentType := ContentType(path)
	router.logger.DebugContext(ctx, "file served", "file", path, "content_type", contentType)
	return NewRawResponse(StatusOK, content, contentType)
}

// Handler exposes Resolve for middleware composition.
func (router *Router) Handler() Handler {
	return router.Resolve
}
