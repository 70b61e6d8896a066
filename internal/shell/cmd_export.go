package shell

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nsqlite/tsqlite/internal/export"
	"github.com/nsqlite/tsqlite/internal/log"
	"github.com/nsqlite/tsqlite/internal/util/numutil"
)

// cmdExport handles ".export FORMAT FILE QUERY". The file is removed when
// the export fails.
func (s *Shell) cmdExport(input string) {
	fields, query := cutFields(input, 3)
	if len(fields) < 3 || query == "" {
		fmt.Fprintln(s.out, "Usage: .export [format] [file] [query]")
		return
	}

	format, err := export.ParseFormat(fields[1])
	if err != nil {
		s.printError(err)
		return
	}
	path := fields[2]

	res, err := s.exportTo(format, path, query)
	if err != nil {
		_ = os.Remove(path)
		s.printError(err)
		return
	}

	s.logger.DebugNs(log.NsExport, "export finished", log.KV{
		"format": format.Value,
		"path":   path,
		"rows":   res.Rows,
	})
	fmt.Fprintf(s.out, "Exported %s rows to %s in %s\n",
		numutil.IntWithCommas(res.Rows), path, res.Elapsed.Round(time.Millisecond))
}

func (s *Shell) exportTo(format export.Format, path string, query string) (export.Result, error) {
	file, err := os.Create(path)
	if err != nil {
		return export.Result{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc, err := export.New(format, file)
	if err != nil {
		return export.Result{}, errors.Join(err, file.Close())
	}

	res, err := export.Run(s.conn, query, enc, 0)
	if err := errors.Join(err, enc.Close(), file.Close()); err != nil {
		return export.Result{}, err
	}
	return res, nil
}
