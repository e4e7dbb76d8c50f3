package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
)

const WebhookPath = "/v1/telegram/webhook"

// Webhook receives Telegram deliveries in webhook transport mode.
type Webhook struct {
	Dispatch     func(ctx context.Context, u tgbotapi.Update) bool
	VerifySecret func(expected, provided string) bool
	Secret       string
	SecretHeader string
}

func (w *Webhook) Register(r *mux.Router) {
	r.HandleFunc(WebhookPath, w.handleUpdate).Methods(http.MethodPost)
}

func (w *Webhook) handleUpdate(rw http.ResponseWriter, r *http.Request) {
	if w.VerifySecret == nil || !w.VerifySecret(w.Secret, r.Header.Get(w.SecretHeader)) {
		http.Error(rw, ErrInvalidSecret, http.StatusUnauthorized)
		return
	}

	var upd tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(rw, r.Body, 1<<20)).Decode(&upd); err != nil {
		http.Error(rw, ErrBadUpdate, http.StatusBadRequest)
		return
	}

	// Telegram only needs the ack; the conversation outlives this request.
	if !w.Dispatch(context.WithoutCancel(r.Context()), upd) {
		slog.Debug("webhook update ignored", "update_id", upd.UpdateID)
	}
	rw.WriteHeader(http.StatusOK)
}
