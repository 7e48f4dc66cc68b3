package db

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

func SQLiteDSN(path string) string {
	return path + "?_journal_mode=WAL&_busy_timeout=5000"
}

// Open connects to the configured store and applies pending migrations.
func Open(opts Options) (*sqlx.DB, error) {
	var (
		dbx *sqlx.DB
		err error
	)

	switch opts.Driver {
	case DriverSQLite, "":
		dbx, err = sqlx.Open(DriverSQLite, opts.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite")
		}
		// SQLite doesn't support multiple writers
		dbx.SetMaxOpenConns(1)
	case DriverPostgres:
		dbx, err = sqlx.Open(DriverPostgres, opts.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "open postgres")
		}
		dbx.SetMaxOpenConns(10)
		dbx.SetConnMaxIdleTime(5 * time.Minute)
	default:
		return nil, errors.Errorf("unsupported db driver %q", opts.Driver)
	}

	if err := dbx.Ping(); err != nil {
		dbx.Close()
		return nil, errors.Wrap(err, "ping db")
	}

	if err := InitSchema(dbx); err != nil {
		dbx.Close()
		return nil, err
	}

	return dbx, nil
}
