package httpserver

const (
	ErrBadUpdate     = "bad update"
	ErrInvalidSecret = "invalid secret"
	ErrNotReady      = "not ready"
)
