package http

import "context"

const (
	// DefaultReadBufferSize bounds the single read performed per connection.
	DefaultReadBufferSize = 3000
	DefaultBacklog        = 10

	protocolHttp11 = "HTTP/1.1"
	crlf           = "\r\n"
	headerSep      = ": "
)

// Handler turns a parsed request into a response. Handlers never fail; error
// outcomes are expressed as responses.
type Handler func(ctx context.Context, req Request) Response

// Logger is the observability sink the server and router write to.
// *slog.Logger satisfies it.
type Logger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
