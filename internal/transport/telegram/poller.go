package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Poller struct {
	Bot        *Bot
	Dispatcher *Dispatcher
	Timeout    int
}

// Run long-polls getUpdates until ctx is cancelled. Events already queued keep
// running; call Dispatcher.Wait to drain them.
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.Timeout
	updates := p.Bot.api.GetUpdatesChan(u)

	slog.Info("telegram polling started", "bot", p.Bot.Username, "timeout", p.Timeout)
	for {
		select {
		case <-ctx.Done():
			p.Bot.api.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			p.Dispatcher.DispatchUpdate(ctx, upd)
		}
	}
}
