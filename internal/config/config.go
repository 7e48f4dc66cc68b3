package config

import (
	"context"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type (
	Config struct {
		BotToken        string        `env:"BOT_TOKEN,required"`
		AdminID         int64         `env:"ADMIN_ID,required"`
		Port            int           `env:"PORT,default=3000"`
		Mode            string        `env:"MODE,default=webhook"`
		WebhookURL      string        `env:"WEBHOOK_URL"`
		WebhookSecret   string        `env:"WEBHOOK_SECRET"`
		LogLevel        string        `env:"LOG_LEVEL,default=info"`
		TelegramTimeout time.Duration `env:"TELEGRAM_TIMEOUT,default=15s"`
		UpdateTimeout   time.Duration `env:"UPDATE_TIMEOUT,default=60s"`
		MetricsPath     string        `env:"METRICS_PATH,default=/metrics"`
		DB              DB
		Quiz            Quiz
		Cooldown        Cooldown
	}

	DB struct {
		Driver  string        `env:"DB_DRIVER,default=sqlite"`
		Path    string        `env:"DB_PATH,default=quest.db"`
		URL     string        `env:"DATABASE_URL"`
		Timeout time.Duration `env:"DB_TIMEOUT,default=5s"`
	}

	Quiz struct {
		Questions     int           `env:"QUIZ_QUESTIONS,default=7"`
		Options       int           `env:"QUIZ_OPTIONS,default=5"`
		ButtonColumns int           `env:"QUIZ_BUTTON_COLUMNS,default=1"`
		FollowupDelay time.Duration `env:"FOLLOWUP_DELAY,default=0s"`
	}

	Cooldown struct {
		Start  time.Duration `env:"START_COOLDOWN,default=2s"`
		Answer time.Duration `env:"ANSWER_COOLDOWN,default=3s"`
	}
)

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	cfg := Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Lookuper: lookuper,
		Target:   &cfg,
	}); err != nil {
		return cfg, errors.Wrap(err, "process env config")
	}

	if cfg.DB.Driver == DriverSQLite {
		path, err := homedir.Expand(cfg.DB.Path)
		if err != nil {
			return cfg, errors.Wrap(err, "expand DB_PATH")
		}
		cfg.DB.Path = path
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	log.WithField("context", "config").Tracef("loaded config, mode=%s driver=%s", cfg.Mode, cfg.DB.Driver)
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.AdminID == 0:
		return errors.New("ADMIN_ID must be a non-zero chat id")
	case c.Quiz.Questions < 1:
		return errors.Errorf("QUIZ_QUESTIONS must be at least 1, got %d", c.Quiz.Questions)
	case c.Quiz.Options < 2:
		return errors.Errorf("QUIZ_OPTIONS must be at least 2, got %d", c.Quiz.Options)
	case c.Quiz.ButtonColumns < 1:
		return errors.Errorf("QUIZ_BUTTON_COLUMNS must be at least 1, got %d", c.Quiz.ButtonColumns)
	case c.Quiz.FollowupDelay < 0:
		return errors.New("FOLLOWUP_DELAY must not be negative")
	}

	switch c.Mode {
	case ModeWebhook, ModePolling:
	default:
		return errors.Errorf("unknown MODE %q", c.Mode)
	}

	switch c.DB.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DB.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return errors.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}
	return nil
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DB.Driver == DriverPostgres {
		return c.DB.URL
	}
	return c.DB.Path
}

// SetupLogging applies LOG_LEVEL to the standard logrus logger.
func SetupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "parse LOG_LEVEL %q", level)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return nil
}
