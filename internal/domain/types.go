package domain

import "errors"

type State string

const (
	StateIdle            State = "idle"
	StateAwaitingPhone   State = "awaiting_phone"
	StateAwaitingMessage State = "awaiting_message"
)

// EventKind separates the two triggers from free text. The transport decides
// which is which; the engine never parses commands itself.
type EventKind string

const (
	EventStart  EventKind = "start"
	EventCancel EventKind = "cancel"
	EventText   EventKind = "text"
)

type Event struct {
	Kind   EventKind
	UserID int64
	ChatID int64
	Text   string
}

// Session is the per-user conversation state. The zero value is an idle session.
type Session struct {
	ID      string
	UserID  int64
	ChatID  int64
	State   State
	Phone   string
	Message string
}

func (s Session) Idle() bool {
	return s.State == "" || s.State == StateIdle
}

// OutboundSMS is built once per completed session and never stored.
type OutboundSMS struct {
	Phone   string
	Message string
}

type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeWarning     OutcomeKind = "warning"
	OutcomeHTTPError   OutcomeKind = "http_error"
	OutcomeSystemError OutcomeKind = "system_error"
)

// Outcome is the classified gateway result shown to the user.
type Outcome struct {
	Kind       OutcomeKind
	Phone      string
	Message    string
	HTTPStatus int
	Raw        string
	Err        error
}

var (
	ErrMissingCredentials   = errors.New("missing gateway credentials")
	ErrInvalidTransportMode = errors.New("invalid transport mode")
	ErrMissingWebhookURL    = errors.New("webhook mode requires TELEGRAM_WEBHOOK_URL")
	ErrBreakerOpen          = errors.New("gateway temporarily unavailable")
)
