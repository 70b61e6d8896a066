package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/tsqlite/internal/version"
)

// BenchConfig represents the configuration for tsqlitebench.
type BenchConfig struct {
	Users      int    `arg:"--users,env:TSQLITE_BENCH_USERS" help:"Number of users inserted by every workload" default:"10000"`
	Goroutines int    `arg:"--goroutines,env:TSQLITE_BENCH_GOROUTINES" help:"Number of goroutines inserting concurrently" default:"8"`
	Directory  string `arg:"--directory,env:TSQLITE_BENCH_DIRECTORY" help:"Directory for the benchmark databases, a temporary one when empty"`
	Debug      bool   `arg:"--debug,env:TSQLITE_DEBUG" help:"Write debug logs to stderr" default:"false"`
}

func (BenchConfig) Version() string {
	return fmt.Sprintf("%s\n", version.BenchVersion())
}

// MustParseBench parses and validates the benchmark configuration from the
// command line arguments. It returns a BenchConfig struct or exits the
// program with an error.
func MustParseBench(args []string) BenchConfig {
	cfg := BenchConfig{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := validateUsers(cfg.Users); err != nil {
		log.Fatal(err)
	}

	if err := validateGoroutines(cfg.Goroutines); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// validateUsers validates if users is greater than zero.
func validateUsers(users int) error {
	if users <= 0 {
		return errors.New("invalid users, must be greater than zero")
	}
	return nil
}

// validateGoroutines validates if goroutines is between 1 and 1024.
func validateGoroutines(goroutines int) error {
	if goroutines <= 0 || goroutines > 1024 {
		return errors.New("invalid goroutines, valid values are 1-1024")
	}
	return nil
}
