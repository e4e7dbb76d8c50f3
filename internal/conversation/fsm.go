package conversation

import (
	"smsbot/internal/domain"
	"smsbot/internal/util"
)

// Effect is what the engine has to do after a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectPromptPhone
	EffectPhoneSaved
	EffectSend
	EffectCancelled
)

func (e Effect) String() string {
	switch e {
	case EffectPromptPhone:
		return "prompt_phone"
	case EffectPhoneSaved:
		return "phone_saved"
	case EffectSend:
		return "send"
	case EffectCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Transition is the whole state machine. It is pure: the returned session is
// the one to keep, and an idle result means the session is to be dropped.
// For EffectSend the returned session still carries phone and message so the
// caller can build the outbound request; the caller drops it afterwards.
func Transition(s domain.Session, ev domain.Event) (domain.Session, Effect) {
	if ev.Kind == domain.EventCancel {
		return domain.Session{UserID: ev.UserID, ChatID: ev.ChatID, State: domain.StateIdle}, EffectCancelled
	}

	switch {
	case s.Idle():
		if ev.Kind != domain.EventStart {
			return s, EffectNone
		}
		return domain.Session{
			UserID: ev.UserID,
			ChatID: ev.ChatID,
			State:  domain.StateAwaitingPhone,
		}, EffectPromptPhone

	case s.State == domain.StateAwaitingPhone:
		if ev.Kind != domain.EventText {
			return s, EffectNone
		}
		s.Phone = util.NormalizePhone(ev.Text)
		s.State = domain.StateAwaitingMessage
		return s, EffectPhoneSaved

	case s.State == domain.StateAwaitingMessage:
		if ev.Kind != domain.EventText {
			return s, EffectNone
		}
		s.Message = ev.Text
		s.State = domain.StateIdle
		return s, EffectSend
	}
	return s, EffectNone
}
