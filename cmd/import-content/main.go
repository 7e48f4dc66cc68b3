package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/config"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/content"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/db"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func main() {
	file := flag.String("file", "", "content workbook (.xlsx, .yaml)")
	dryRun := flag.Bool("dry-run", false, "validate only, do not write")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		log.WithError(err).Fatal("invalid LOG_LEVEL")
	}

	if err := run(ctx, cfg, *file, *dryRun); err != nil {
		log.WithError(err).Fatal("import failed")
	}
}

func run(ctx context.Context, cfg config.Config, file string, dryRun bool) error {
	logEntry := log.WithField("context", "import")

	c, err := content.Load(file)
	if err != nil {
		return err
	}
	if err := content.Validate(c, cfg.Quiz.Questions, cfg.Quiz.Options); err != nil {
		return errors.Wrap(err, "invalid content")
	}
	logEntry.Infof("loaded %d questions, %d results, %d follow-up messages, %d funnel blocks",
		len(c.Questions), len(c.Results), len(c.Followup), len(c.Funnels))
	if dryRun {
		return nil
	}

	dsn := cfg.DSN()
	if cfg.DB.Driver == config.DriverSQLite {
		dsn = db.SQLiteDSN(dsn)
	}
	dbx, err := db.Open(db.Options{Driver: cfg.DB.Driver, DSN: dsn, Timeout: cfg.DB.Timeout})
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer dbx.Close()

	queue := db.NewDBQueue(dbx, cfg.DB.Timeout)
	defer queue.Close()

	if err := db.NewContentRepository(queue).Replace(ctx, c); err != nil {
		return err
	}
	logEntry.Info("content replaced")
	return nil
}
