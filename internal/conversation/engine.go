package conversation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"smsbot/internal/domain"
	"smsbot/internal/observability"
	"smsbot/internal/util"
)

// Replier delivers text back to a chat.
type Replier interface {
	Reply(ctx context.Context, chatID int64, text string) error
}

// Sender runs the gateway call for a completed session.
type Sender interface {
	Send(ctx context.Context, sms domain.OutboundSMS) domain.Outcome
}

// Engine owns every user's session. Callers must not run Handle concurrently
// for the same user; different users may be handled in parallel.
type Engine struct {
	sender  Sender
	replier Replier

	mu       sync.Mutex
	sessions map[int64]domain.Session
}

func NewEngine(sender Sender, replier Replier) *Engine {
	return &Engine{
		sender:   sender,
		replier:  replier,
		sessions: make(map[int64]domain.Session),
	}
}

func (e *Engine) Handle(ctx context.Context, ev domain.Event) error {
	cur := e.load(ev.UserID)
	next, effect := Transition(cur, ev)

	if effect == EffectNone {
		observability.Updates.WithLabelValues("ignored").Inc()
		slog.Debug("event ignored", "user_id", ev.UserID, "kind", ev.Kind, "state", cur.State)
		return nil
	}
	observability.Updates.WithLabelValues(string(ev.Kind)).Inc()

	var errs []error
	reply := func(text string) {
		if err := e.replier.Reply(ctx, ev.ChatID, text); err != nil {
			observability.ReplyErrors.Inc()
			errs = append(errs, err)
		}
	}

	switch effect {
	case EffectPromptPhone:
		next.ID = util.NewSessionID()
		e.store(next)
		slog.Info("session started", "session_id", next.ID, "user_id", ev.UserID)
		reply(msgWelcome)

	case EffectPhoneSaved:
		e.store(next)
		slog.Info("phone captured", "session_id", next.ID, "user_id", ev.UserID, "phone", next.Phone)
		reply(phoneSavedText(next.Phone))

	case EffectSend:
		e.drop(ev.UserID)
		reply(msgSending)
		out := e.sender.Send(ctx, domain.OutboundSMS{Phone: next.Phone, Message: next.Message})
		slog.Info("session finished", "session_id", next.ID, "user_id", ev.UserID, "result", out.Kind)
		reply(OutcomeText(out))
		reply(msgRestart)

	case EffectCancelled:
		e.drop(ev.UserID)
		slog.Info("session cancelled", "session_id", cur.ID, "user_id", ev.UserID)
		reply(msgCancelled)
	}
	return errors.Join(errs...)
}

// Session returns a copy of the user's current session.
func (e *Engine) Session(userID int64) (domain.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[userID]
	return s, ok
}

func (e *Engine) ActiveSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

func (e *Engine) load(userID int64) domain.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[userID]
}

func (e *Engine) store(s domain.Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions[s.UserID] = s
	observability.ActiveSessions.Set(float64(len(e.sessions)))
}

func (e *Engine) drop(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, userID)
	observability.ActiveSessions.Set(float64(len(e.sessions)))
}
