package bench

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nsqlite/tsqlite/internal/sqlitedrv"
)

// target is a database/sql handle benchmarked under name.
type target struct {
	name string
	db   *sql.DB
}

func prepareDir(dir string, name string) (string, error) {
	dbPath := filepath.Join(dir, name, "bench.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return "", err
	}
	return dbPath, nil
}

// openMattn opens the cgo baseline driver with the same busy timeout and
// foreign key enforcement as openTsqlite.
func openMattn(ctx context.Context, dir string) (target, error) {
	dbPath, err := prepareDir(dir, "mattn")
	if err != nil {
		return target{}, err
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", dbPath))
	if err != nil {
		return target{}, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return target{}, err
	}

	return target{name: "mattn/go-sqlite3", db: db}, nil
}

func openTsqlite(ctx context.Context, dir string) (target, error) {
	dbPath, err := prepareDir(dir, "tsqlite")
	if err != nil {
		return target{}, err
	}

	db := sql.OpenDB(sqlitedrv.NewConnector(dbPath, sqlitedrv.WithPostConnectQueries([]string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	})))
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return target{}, err
	}

	return target{name: "tsqlite", db: db}, nil
}
