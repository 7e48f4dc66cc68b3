package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/app"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/config"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/observability"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/server"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const getMeAttempts = 3

var getMeRetryDelay = 2 * time.Second

type getMeClient interface {
	GetMe(ctx context.Context) (*tgmodels.User, error)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		log.WithError(err).Fatal("invalid LOG_LEVEL")
	}

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("bot stopped")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	httpClient := &http.Client{
		Timeout: 2 * cfg.TelegramTimeout,
	}

	b, err := bot.New(cfg.BotToken, bot.WithHTTPClient(cfg.TelegramTimeout, httpClient), bot.WithSkipGetMe())
	if err != nil {
		return errors.Wrap(err, "create bot")
	}

	botInfo, err := connect(ctx, b)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, b)
	if err != nil {
		return err
	}
	defer a.Close()

	observability.Register(prometheus.DefaultRegisterer)
	a.Start()

	log.WithField("context", "main").Infof("bot @%s started, mode=%s admin=%d driver=%s", botInfo.Username, cfg.Mode, cfg.AdminID, cfg.DB.Driver)

	if cfg.Mode == config.ModePolling {
		return runPolling(ctx, cfg, b, a)
	}
	return runWebhook(ctx, cfg, b, a)
}

// connect checks the token with getMe, retrying a few times on network errors.
func connect(ctx context.Context, b getMeClient) (*tgmodels.User, error) {
	logEntry := log.WithField("context", "main")

	var (
		botInfo *tgmodels.User
		err     error
	)
	for i := 0; i < getMeAttempts; i++ {
		logEntry.Infof("connecting to Telegram API (attempt %d/%d)", i+1, getMeAttempts)
		getMeCtx, getMeCancel := context.WithTimeout(ctx, 10*time.Second)
		botInfo, err = b.GetMe(getMeCtx)
		getMeCancel()
		if err == nil {
			return botInfo, nil
		}
		logEntry.WithError(err).Warnf("getMe failed (attempt %d/%d)", i+1, getMeAttempts)
		if i < getMeAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(getMeRetryDelay):
			}
		}
	}
	return nil, errors.Wrapf(err, "get bot info after %d attempts", getMeAttempts)
}

func runPolling(ctx context.Context, cfg config.Config, b *bot.Bot, a *app.App) error {
	if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
		log.WithField("context", "main").WithError(err).Warn("deleteWebhook failed")
	}

	b.RegisterHandlerMatchFunc(func(*tgmodels.Update) bool {
		return true
	}, a.UpdateHandler())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.Start(gCtx)
		return nil
	})
	if cfg.MetricsPath != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.MetricsPath, observability.Handler())
		g.Go(func() error {
			return server.ListenAndServe(gCtx, newServer(cfg.Port, mux))
		})
	}
	return g.Wait()
}

func runWebhook(ctx context.Context, cfg config.Config, b *bot.Bot, a *app.App) error {
	if cfg.WebhookURL != "" {
		if _, err := b.SetWebhook(ctx, webhookParams(cfg)); err != nil {
			return errors.Wrap(err, "set webhook")
		}
	}
	return server.ListenAndServe(ctx, newServer(cfg.Port, newHTTPHandler(cfg, a)))
}

func newServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              listenAddr(port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newHTTPHandler(cfg config.Config, a *app.App) http.Handler {
	return server.NewMux(server.NewWebhookHandler(cfg.WebhookSecret, a.UpdateHandler()), cfg.MetricsPath)
}

func webhookParams(cfg config.Config) *bot.SetWebhookParams {
	return &bot.SetWebhookParams{
		URL:            cfg.WebhookURL,
		SecretToken:    cfg.WebhookSecret,
		AllowedUpdates: []string{"message", "callback_query"},
	}
}

func listenAddr(port int) string {
	return net.JoinHostPort("", strconv.Itoa(port))
}
