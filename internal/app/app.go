package app

import (
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/config"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/db"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/handlers"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/services"
	"github.com/go-telegram/bot"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// App holds the collaborators shared by every entrypoint.
type App struct {
	DB       *sqlx.DB
	Queue    *db.DBQueue
	Content  *db.ContentRepository
	Followup *services.DelayedFollowup
	Handler  *handlers.BotHandler
}

// New opens the store and wires the update handler around messenger.
func New(cfg config.Config, messenger services.Messenger) (*App, error) {
	dsn := cfg.DSN()
	if cfg.DB.Driver == config.DriverSQLite {
		dsn = db.SQLiteDSN(dsn)
	}
	dbx, err := db.Open(db.Options{Driver: cfg.DB.Driver, DSN: dsn, Timeout: cfg.DB.Timeout})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return NewWithDB(cfg, dbx, messenger), nil
}

// NewWithDB wires the handler over an already migrated database.
func NewWithDB(cfg config.Config, dbx *sqlx.DB, messenger services.Messenger) *App {
	queue := db.NewDBQueue(dbx, cfg.DB.Timeout)

	progressRepo := db.NewProgressRepository(queue)
	pendingRepo := db.NewPendingRepository(queue)
	adminMessagesRepo := db.NewAdminMessagesRepository(queue)
	cooldownRepo := db.NewCooldownRepository(queue)
	paidRepo := db.NewPaidUsersRepository(queue)
	contentRepo := db.NewContentRepository(queue)

	errorManager := services.NewErrorManager(messenger, cfg.AdminID)
	msgManager := services.NewMessageManager(messenger, errorManager)

	approval := services.NewApprovalService(pendingRepo, adminMessagesRepo, paidRepo, msgManager, cfg.AdminID)
	funnel := services.NewFunnelService(contentRepo, approval, msgManager, cfg.AdminID)
	followup := services.NewDelayedFollowup(cfg.Quiz.FollowupDelay, cfg.UpdateTimeout, funnel.SendFollowup)
	quiz := services.NewQuizService(progressRepo, contentRepo, msgManager, followup, services.QuizConfig{
		Questions:     cfg.Quiz.Questions,
		Options:       cfg.Quiz.Options,
		ButtonColumns: cfg.Quiz.ButtonColumns,
	}, cfg.AdminID)
	cooldown := services.NewCooldownGuard(cooldownRepo)

	handler := handlers.NewBotHandler(handlers.Options{
		AdminID:        cfg.AdminID,
		StartCooldown:  cfg.Cooldown.Start,
		AnswerCooldown: cfg.Cooldown.Answer,
		UpdateTimeout:  cfg.UpdateTimeout,
	}, errorManager, msgManager, quiz, funnel, approval, cooldown)

	return &App{
		DB:       dbx,
		Queue:    queue,
		Content:  contentRepo,
		Followup: followup,
		Handler:  handler,
	}
}

// UpdateHandler is the logged entry point for Telegram updates.
func (a *App) UpdateHandler() bot.HandlerFunc {
	return handlers.LogMiddleware(a.Handler.HandleUpdate)
}

// Start launches background jobs.
func (a *App) Start() {
	a.Followup.Start()
}

func (a *App) Close() error {
	a.Followup.Stop()
	a.Queue.Close()
	return a.DB.Close()
}
