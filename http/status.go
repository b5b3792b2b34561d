package http

const (
	StatusOK               = 200
	StatusNotFound         = 404
	StatusMethodNotAllowed = 405
	StatusNotImplemented   = 501
)

const unknownStatusText = "Unknown"

var statusMessages = map[int]string{
	StatusOK:               "OK",
	StatusNotFound:         "Not Found",
	StatusMethodNotAllowed: "Method Not Allowed",
	StatusNotImplemented:   "Not Implemented",
}

// StatusText returns the reason phrase for code, or "Unknown".
func StatusText(code int) string {
	if msg, found := statusMessages[code]; found {
		return msg
	}
	return unknownStatusText
}
