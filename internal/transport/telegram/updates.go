package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"smsbot/internal/domain"
)

const (
	CommandStart  = "start"
	CommandCancel = "cancel"
)

// EventFromUpdate maps a Telegram update onto an engine event. Commands are
// routed apart from free text; unknown commands and non-text updates report false.
func EventFromUpdate(u tgbotapi.Update) (domain.Event, bool) {
	m := u.Message
	if m == nil || m.From == nil || m.Chat == nil || m.Text == "" {
		return domain.Event{}, false
	}
	ev := domain.Event{UserID: m.From.ID, ChatID: m.Chat.ID, Text: m.Text}

	if !m.IsCommand() {
		ev.Kind = domain.EventText
		return ev, true
	}
	switch m.Command() {
	case CommandStart:
		ev.Kind = domain.EventStart
	case CommandCancel:
		ev.Kind = domain.EventCancel
	default:
		return domain.Event{}, false
	}
	return ev, true
}
