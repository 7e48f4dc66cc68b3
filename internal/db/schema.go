package db

import (
	"embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}
}

func migrationDialect(driverName string) string {
	if driverName == DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func InitSchema(dbx *sqlx.DB) error {
	dialect := migrationDialect(dbx.DriverName())
	source := migrationSource()

	if _, _, err := migrate.PlanMigration(dbx.DB, dialect, source, migrate.Up, 0); err != nil {
		return errors.Wrap(err, "plan migrations")
	}

	n, err := migrate.Exec(dbx.DB, dialect, source, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	if n > 0 {
		log.WithField("context", "db").Infof("applied %d migrations", n)
	}
	return nil
}
