package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestReplySendsPlainMessage(t *testing.T) {
	api := &fakeAPI{}
	b := &Bot{api: api}

	if err := b.Reply(context.Background(), 42, "✅ Phone 855 saved."); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if len(api.sent) != 1 || api.sent[0].ChatID != 42 || api.sent[0].Text != "✅ Phone 855 saved." {
		t.Fatalf("unexpected sent messages %+v", api.sent)
	}
	if api.sent[0].ParseMode != "" {
		t.Fatalf("user text must not be parsed as markup")
	}
}

func TestReplyWrapsError(t *testing.T) {
	b := &Bot{api: &fakeAPI{sendErr: errors.New("Forbidden: bot was blocked by the user")}}
	err := b.Reply(context.Background(), 42, "x")
	if err == nil || !strings.Contains(err.Error(), "chat 42") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestSetWebhookSendsSecret(t *testing.T) {
	api := &fakeAPI{}
	b := &Bot{api: api}
	if err := b.SetWebhook("https://bot.example.com/v1/telegram/webhook", "s3cret"); err != nil {
		t.Fatalf("set webhook: %v", err)
	}
	if api.requests[0] != "setWebhook" {
		t.Fatalf("unexpected endpoint %v", api.requests)
	}
	if api.params[0]["url"] != "https://bot.example.com/v1/telegram/webhook" || api.params[0]["secret_token"] != "s3cret" {
		t.Fatalf("unexpected params %v", api.params[0])
	}
}

func TestSetWebhookRejected(t *testing.T) {
	api := &fakeAPI{resp: &tgbotapi.APIResponse{Ok: false, Description: "bad webhook"}}
	err := (&Bot{api: api}).SetWebhook("http://insecure", "")
	if err == nil || !strings.Contains(err.Error(), "bad webhook") {
		t.Fatalf("expected rejection, got %v", err)
	}
	if _, ok := api.params[0]["secret_token"]; ok {
		t.Fatalf("empty secret must not be sent")
	}
}

func TestNewBotRequiresToken(t *testing.T) {
	if _, err := NewBot("", "", 60); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPollerDispatchesUntilCancelled(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 4)}
	h := newRecordingHandler()
	d := NewDispatcher(h)
	p := &Poller{Bot: &Bot{api: api}, Dispatcher: d, Timeout: 30}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	api.updates <- commandUpdate(9, "start")
	api.updates <- textUpdate(9, "012345678")

	for i := 0; i < 2; i++ {
		select {
		case ev := <-h.handled:
			if ev.UserID != 9 {
				t.Fatalf("unexpected user %d", ev.UserID)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("update %d was not dispatched", i)
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not stop")
	}
	d.Wait()

	api.mu.Lock()
	defer api.mu.Unlock()
	if !api.stopped {
		t.Fatalf("expected StopReceivingUpdates")
	}
	if api.pollConf.Timeout != 30 {
		t.Fatalf("expected poll timeout 30, got %d", api.pollConf.Timeout)
	}
}

func TestPollerStopsWhenChannelCloses(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	close(api.updates)
	p := &Poller{Bot: &Bot{api: api}, Dispatcher: NewDispatcher(newRecordingHandler())}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("expected nil on closed channel, got %v", err)
	}
}

func TestVerifySecret(t *testing.T) {
	if !VerifySecret("", "anything") {
		t.Fatalf("no secret configured must accept")
	}
	if !VerifySecret("abc", "abc") {
		t.Fatalf("matching secret must pass")
	}
	if VerifySecret("abc", "abd") || VerifySecret("abc", "") {
		t.Fatalf("mismatch must fail")
	}
}
