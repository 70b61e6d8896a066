package shell

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqlite/tsqlite/internal/config"
	"github.com/nsqlite/tsqlite/internal/log"
	"github.com/nsqlite/tsqlite/internal/styled"
	"github.com/nsqlite/tsqlite/internal/version"
	"github.com/nsqlite/tsqlite/sqlite"
)

// Run runs the tsqlite shell.
func Run(ctx context.Context) error {
	conf := config.MustParseShell(os.Args)

	logger := log.NewLogger(os.Stderr)
	logger.SetDebug(conf.Debug)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.ShellVersion())

	conn, err := Open(conf)
	if err != nil {
		return err
	}
	logger.DebugNs(log.NsDatabase, "database opened", log.KV{
		"path":     conn.Filename(),
		"readOnly": conn.IsReadOnly(),
	})

	sh := New(conn, conf, os.Stdout, &logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sh.Start(ctx); err != nil {
			styled.ErrorColor().Println(err)
		}
		stop()
	}()

	<-ctx.Done()
	select {
	case <-done:
		if err := conn.Close(); err != nil {
			logger.ErrorNs(log.NsDatabase, "failed to close database", log.KV{"error": err.Error()})
		}
	default:
		// Start is still blocked reading the terminal and owns the
		// connection until the process exits.
	}
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}

// Open opens the database named by conf with its busy timeout applied.
func Open(conf config.ShellConfig) (*sqlite.Conn, error) {
	opts := []sqlite.Option{
		sqlite.WithPostConnectQueries(
			fmt.Sprintf("PRAGMA busy_timeout = %d", conf.BusyTimeout.Milliseconds()),
		),
	}
	if conf.ReadOnly {
		opts = append(opts, sqlite.WithReadOnly())
	}
	if conf.ExtendedCodes {
		opts = append(opts, sqlite.WithExtendedErrorCodes())
	}

	conn, err := sqlite.Open(conf.Database, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", conf.Database, err)
	}
	return conn, nil
}
