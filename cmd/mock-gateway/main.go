// mock-gateway stands in for MekongSMS postsms.aspx so the bot can be run end
// to end without sandbox credentials. Outcomes are served round-robin from
// MOCK_OUTCOMES: ok, reject, http500, timeout.
package main

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"smsbot/internal/config"
	"smsbot/internal/httpserver"
	"smsbot/internal/logging"
	"smsbot/internal/util"
)

const gatewayPath = "/api/postsms.aspx"

const (
	outcomeOK      = "ok"
	outcomeReject  = "reject"
	outcomeHTTP500 = "http500"
	outcomeTimeout = "timeout"
)

type server struct {
	username     string
	password     string
	outcomes     []string
	delay        time.Duration
	timeoutDelay time.Duration
	idx          uint64
}

func main() {
	cfg := config.LoadMockGateway()
	logging.Init("mock-gateway", cfg.LogFormat, "info")

	s := newServer(cfg)
	router := mux.NewRouter()
	s.register(router)
	router.HandleFunc("/healthz", httpserver.Healthz())

	slog.Info("mock gateway listening", "port", cfg.Port, "outcomes", s.outcomes)
	if err := http.ListenAndServe(":"+cfg.Port, httpserver.Logging(router)); err != nil {
		slog.Error("mock gateway server failed", "err", err)
		os.Exit(1)
	}
}

func newServer(cfg config.MockGatewayConfig) *server {
	outcomes := parseCSV(cfg.OutcomesRaw)
	if len(outcomes) == 0 {
		outcomes = []string{outcomeOK}
	}
	return &server{
		username:     cfg.Username,
		password:     cfg.Password,
		outcomes:     outcomes,
		delay:        time.Duration(cfg.DelayMs) * time.Millisecond,
		timeoutDelay: time.Duration(cfg.TimeoutDelayMs) * time.Millisecond,
	}
}

func (s *server) register(r *mux.Router) {
	r.HandleFunc(gatewayPath, s.handleSend).Methods(http.MethodPost)
}

func (s *server) handleSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if !s.checkCredentials(r.PostForm.Get("username"), r.PostForm.Get("pass")) {
		writeText(w, http.StatusOK, "result=102")
		return
	}
	if r.PostForm.Get("gsm") == "" || r.PostForm.Get("sender") == "" {
		writeText(w, http.StatusOK, "result=102")
		return
	}

	if !sleepCtx(r, s.delay) {
		return
	}

	switch s.nextOutcome() {
	case outcomeReject:
		writeText(w, http.StatusOK, "result=102")
	case outcomeHTTP500:
		writeText(w, http.StatusInternalServerError, "internal error")
	case outcomeTimeout:
		if !sleepCtx(r, s.timeoutDelay) {
			return
		}
		writeText(w, http.StatusOK, "result=0;id="+util.NewGatewayMessageID())
	default:
		slog.Info("mock gateway accepted", "gsm", r.PostForm.Get("gsm"), "len", len(r.PostForm.Get("smstext")))
		writeText(w, http.StatusOK, "result=0;id="+util.NewGatewayMessageID())
	}
}

func (s *server) checkCredentials(user, pass string) bool {
	if s.username == "" && s.password == "" {
		return true
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.password)) == 1
	return userOK && passOK
}

func (s *server) nextOutcome() string {
	i := atomic.AddUint64(&s.idx, 1) - 1
	return s.outcomes[i%uint64(len(s.outcomes))]
}

// sleepCtx waits d unless the client goes away first.
func sleepCtx(r *http.Request, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-r.Context().Done():
		return false
	case <-time.After(d):
		return true
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func parseCSV(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
