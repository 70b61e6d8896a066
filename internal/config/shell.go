package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/tsqlite/internal/version"
)

// ShellConfig represents the configuration for the tsqlite shell.
type ShellConfig struct {
	Database      string        `arg:"positional" help:"Path or file: URI of the SQLite database to open" default:":memory:"`
	ReadOnly      bool          `arg:"--read-only,env:TSQLITE_READ_ONLY" help:"Open the database in read-only mode" default:"false"`
	ExtendedCodes bool          `arg:"--extended-codes,env:TSQLITE_EXTENDED_CODES" help:"Report extended SQLite result codes in errors" default:"false"`
	MaxRows       int           `arg:"--max-rows,env:TSQLITE_MAX_ROWS" help:"Maximum number of rows printed per query" default:"100"`
	BusyTimeout   time.Duration `arg:"--busy-timeout,env:TSQLITE_BUSY_TIMEOUT" help:"How long to wait for a locked database. Valid time units are ms, s, m" default:"5s"`
	Debug         bool          `arg:"--debug,env:TSQLITE_DEBUG" help:"Write debug logs to stderr" default:"false"`
}

func (ShellConfig) Version() string {
	return fmt.Sprintf("%s\n", version.ShellVersion())
}

// MustParseShell parses and validates the shell configuration from the
// command line arguments. It returns a ShellConfig struct or exits the
// program with an error.
func MustParseShell(args []string) ShellConfig {
	cfg := ShellConfig{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := validateDatabase(cfg.Database); err != nil {
		log.Fatal(err)
	}

	if err := validateMaxRows(cfg.MaxRows); err != nil {
		log.Fatal(err)
	}

	if err := validateBusyTimeout(cfg.BusyTimeout); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// validateDatabase validates that a database was named.
func validateDatabase(database string) error {
	if database == "" {
		return errors.New("invalid database, use :memory: for an in-memory database")
	}
	return nil
}

// validateMaxRows validates if rows is greater than zero.
func validateMaxRows(rows int) error {
	if rows <= 0 {
		return errors.New("invalid max rows, must be greater than zero")
	}
	return nil
}

// validateBusyTimeout validates if timeout is not negative.
func validateBusyTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return errors.New("invalid busy timeout, must not be negative")
	}
	return nil
}
