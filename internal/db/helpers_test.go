package db

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func openTestDB(t testing.TB) *sqlx.DB {
	t.Helper()
	dbx, err := sqlx.Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	dbx.SetMaxOpenConns(1)
	if err := InitSchema(dbx); err != nil {
		dbx.Close()
		t.Fatal(err)
	}
	t.Cleanup(func() { dbx.Close() })
	return dbx
}

func newTestQueue(t testing.TB) *DBQueue {
	t.Helper()
	queue := NewDBQueueForTest(openTestDB(t))
	t.Cleanup(queue.Close)
	return queue
}
