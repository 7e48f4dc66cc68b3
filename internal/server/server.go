package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/observability"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

	maxUpdateSize   = 1 << 20
	shutdownTimeout = 5 * time.Second
)

var ack = []byte("ok")

// WebhookHandler acknowledges every delivery with 200 "ok" and handles the
// update synchronously. Requests with a wrong secret token get 401.
type WebhookHandler struct {
	secret string
	handle bot.HandlerFunc
}

func NewWebhookHandler(secret string, handle bot.HandlerFunc) *WebhookHandler {
	return &WebhookHandler{secret: secret, handle: handle}
}

// ValidSecret reports whether got matches the configured secret. An empty
// secret disables the check.
func ValidSecret(got, secret string) bool {
	if secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.reply(w)
		return
	}
	if !ValidSecret(r.Header.Get(SecretTokenHeader), h.secret) {
		h.getLogEntry().Warnf("rejected webhook call from %s: bad secret token", r.RemoteAddr)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	update := &tgmodels.Update{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateSize)).Decode(update); err != nil {
		h.getLogEntry().WithError(err).Warn("undecodable update")
		h.reply(w)
		return
	}

	h.dispatch(context.WithoutCancel(r.Context()), update)
	h.reply(w)
}

func (h *WebhookHandler) dispatch(ctx context.Context, update *tgmodels.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.getLogEntry().Errorf("update %d escaped the handler with panic: %v", update.ID, r)
		}
	}()
	h.handle(ctx, nil, update)
}

func (h *WebhookHandler) reply(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(ack); err != nil {
		h.getLogEntry().WithError(err).Debug("ack write failed")
	}
}

func (h *WebhookHandler) getLogEntry() *log.Entry {
	return log.WithField("context", "webhook")
}

// NewMux routes the webhook at "/" and Prometheus metrics at metricsPath.
func NewMux(webhook http.Handler, metricsPath string) *http.ServeMux {
	mux := http.NewServeMux()
	if metricsPath != "" {
		mux.Handle(metricsPath, observability.Handler())
	}
	mux.Handle("/", webhook)
	return mux
}

// ListenAndServe runs srv until ctx is done, then shuts it down.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithField("context", "webhook").WithError(err).Warn("server shutdown")
		}
	}()

	log.WithField("context", "webhook").Infof("listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "listen")
	}
	return nil
}
