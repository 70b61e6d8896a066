// Package bench compares the tsqlite database/sql driver with
// mattn/go-sqlite3 on insert and read workloads.
package bench

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/tsqlite/internal/config"
	"github.com/nsqlite/tsqlite/internal/log"
	"github.com/nsqlite/tsqlite/internal/styled"
	"github.com/nsqlite/tsqlite/internal/util/numutil"
	"github.com/nsqlite/tsqlite/internal/version"
)

// Run executes the benchmarks for both drivers and prints the results.
func Run(ctx context.Context) error {
	conf := config.MustParseBench(os.Args)

	logger := log.NewLogger(os.Stderr)
	logger.SetDebug(conf.Debug)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.BenchVersion())

	dir := conf.Directory
	if dir == "" {
		tmpDir, err := os.MkdirTemp("", "tsqlitebench_*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmpDir)
		dir = tmpDir
	}
	logger.DebugNs(log.NsBench, "benchmark directory", log.KV{"dir": dir})

	workloads := NewWorkloads(conf.Users, conf.Goroutines)
	results, err := Compare(ctx, dir, workloads, os.Stdout, &logger)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(renderResults(results))
	return nil
}

// DriverResults holds the results of one driver.
type DriverResults struct {
	Driver  string
	Results []Result
}

// Compare runs the workloads against a fresh database of each driver in dir.
func Compare(
	ctx context.Context,
	dir string,
	workloads Workloads,
	out io.Writer,
	logger *log.Logger,
) ([]DriverResults, error) {
	openers := []func(context.Context, string) (target, error){
		openMattn,
		openTsqlite,
	}

	var all []DriverResults
	for _, open := range openers {
		t, err := open(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		fmt.Fprintf(out, "\n--- Benchmarks for %s ---\n", t.name)
		logger.InfoNs(log.NsBench, "benchmark started", log.KV{
			"driver":     t.name,
			"users":      workloads.SimpleUsers,
			"goroutines": workloads.Goroutines,
		})

		results, err := Benchmark(ctx, t.db, workloads, out)
		closeErr := t.db.Close()
		if err != nil {
			return nil, fmt.Errorf("error benchmarking %s: %w", t.name, err)
		}
		if closeErr != nil {
			logger.WarnNs(log.NsBench, "failed to close database", log.KV{"driver": t.name, "error": closeErr.Error()})
		}

		all = append(all, DriverResults{Driver: t.name, Results: results})
	}

	return all, nil
}

func renderResults(all []DriverResults) string {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Driver", "Workload", "Reads", "Writes", "Duration", "Ops/s"})

	var total time.Duration
	for _, driver := range all {
		for _, r := range driver.Results {
			total += r.Duration
			tw.AppendRow(table.Row{
				driver.Driver,
				r.Name,
				numutil.IntWithCommas(r.Reads),
				numutil.IntWithCommas(r.Writes),
				r.Duration.Round(time.Millisecond),
				numutil.IntWithCommas(opsPerSecond(r)),
			})
		}
		tw.AppendSeparator()
	}
	tw.AppendFooter(table.Row{"", "Total", "", "", total.Round(time.Millisecond), ""})

	return tw.Render()
}

func opsPerSecond(r Result) uint64 {
	seconds := r.Duration.Seconds()
	if seconds <= 0 {
		return 0
	}
	return uint64(float64(r.Reads+r.Writes) / seconds)
}
