// Package shell implements the interactive tsqlite shell: a line editor
// over a single sqlite.Conn with dot commands for inspecting the schema,
// session stats and exporting query results.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nsqlite/tsqlite/internal/config"
	"github.com/nsqlite/tsqlite/internal/log"
	"github.com/nsqlite/tsqlite/internal/styled"
	"github.com/nsqlite/tsqlite/internal/util/sysutil"
	"github.com/nsqlite/tsqlite/sqlite"
	"github.com/peterh/liner"
)

type Shell struct {
	conn        *sqlite.Conn
	conf        config.ShellConfig
	out         io.Writer
	logger      *log.Logger
	stats       *Stats
	historyPath string
}

func New(
	conn *sqlite.Conn,
	conf config.ShellConfig,
	out io.Writer,
	logger *log.Logger,
) *Shell {
	return &Shell{
		conn:        conn,
		conf:        conf,
		out:         out,
		logger:      logger,
		stats:       NewStats(),
		historyPath: filepath.Join(os.TempDir(), ".tsqlite_history"),
	}
}

// Start reads input from the terminal until ".quit", CTRL+C, end of input or
// ctx is done.
func (s *Shell) Start(ctx context.Context) error {
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "Connected to %s running SQLite %s\n", s.describeDatabase(), sqlite.LibVersion())
	fmt.Fprintln(s.out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(s.out)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	s.readHistory(line)
	defer s.writeHistory(line)

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := line.Prompt(s.label())
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.out, "CTRL+C pressed, exiting...")
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if quit := s.Exec(input); quit {
			return nil
		}
	}
}

// Exec runs one line of input, either a dot command or SQL, and reports
// whether the shell should quit.
func (s *Shell) Exec(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	switch input {
	case "exit", "quit":
		return true
	case "clear":
		sysutil.ClearTerminal(s.out)
		return false
	case "help":
		s.cmdHelp()
		return false
	}

	if strings.HasPrefix(input, ".") {
		return s.runDotCmd(input)
	}

	s.runSQL(input)
	return false
}

func (s *Shell) runDotCmd(input string) bool {
	fields, _ := cutFields(input, 2)
	name := fields[0]
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	s.logger.DebugNs(log.NsShell, "dot command", log.KV{"command": name})

	switch name {
	case ".quit", ".exit":
		return true
	case ".clear":
		sysutil.ClearTerminal(s.out)
	case ".help":
		s.cmdHelp()
	case ".tables":
		s.cmdTables()
	case ".indexes":
		s.cmdIndexes()
	case ".schema":
		s.cmdSchema(arg)
	case ".columns":
		s.cmdColumns(arg)
	case ".count":
		s.cmdCount(arg)
	case ".stats":
		s.cmdStats(arg)
	case ".export":
		s.cmdExport(input)
	default:
		fmt.Fprintln(s.out, "Unknown command, type .help for usage hints")
	}
	return false
}

// label returns the prompt, marking an open transaction.
func (s *Shell) label() string {
	if s.conn.InTransaction() {
		return "tsqlite(tx)> "
	}
	return "tsqlite> "
}

func (s *Shell) describeDatabase() string {
	name := s.conn.Filename()
	if name == "" {
		name = s.conf.Database
	}
	if s.conn.IsReadOnly() {
		name += " (read-only)"
	}
	return name
}

// printError prints err without the operation prefix and the repeated SQL
// text, which the user just typed.
func (s *Shell) printError(err error) {
	s.logger.DebugNs(log.NsShell, "statement failed", log.KV{
		"code":  sqlite.CodeOf(err).String(),
		"error": err.Error(),
	})
	styled.ErrorColor().Fprintf(s.out, "Error: %s\n", cleanError(err))
}

func cleanError(err error) string {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return err.Error()
	}

	code := sqlErr.Code
	if sqlErr.ExtendedCode != 0 {
		code = sqlErr.ExtendedCode
	}
	switch {
	case sqlErr.Detail != "":
		return fmt.Sprintf("%s: %s", code, sqlErr.Detail)
	case sqlErr.Err != nil:
		return fmt.Sprintf("%s: %s", code, sqlErr.Err)
	case sqlErr.Message != "":
		return fmt.Sprintf("%s: %s", code, sqlErr.Message)
	}
	return code.String()
}

func (s *Shell) readHistory(line *liner.State) {
	file, err := os.Open(s.historyPath)
	if err != nil {
		s.logger.DebugNs(log.NsShell, "no previous history", log.KV{"path": s.historyPath})
		return
	}
	defer file.Close()
	_, _ = line.ReadHistory(file)
}

func (s *Shell) writeHistory(line *liner.State) {
	file, err := os.Create(s.historyPath)
	if err != nil {
		s.logger.WarnNs(log.NsShell, "failed to save history", log.KV{"error": err.Error()})
		return
	}
	defer file.Close()
	_, _ = line.WriteHistory(file)
}
