package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/matzehuels/pydocscraper/pkg/errors"
)

// TimestampLayout formats the timestamp part of CSV file names.
const TimestampLayout = "2006-01-02_15-04-05"

// Sink writes tables to stdout or to the results directory.
type Sink struct {
	stdout     io.Writer
	resultsDir string
	logger     *log.Logger
	now        func() time.Time
	create     func(path string) (io.WriteCloser, error)
}

// NewSink creates a Sink. resultsDir is created lazily on the first file write.
func NewSink(stdout io.Writer, resultsDir string, logger *log.Logger) *Sink {
	if logger == nil {
		logger = log.Default()
	}
	return &Sink{
		stdout:     stdout,
		resultsDir: resultsDir,
		logger:     logger,
		now:        time.Now,
		create:     createFile,
	}
}

// Emit renders t in format f. mode names the CSV file.
func (s *Sink) Emit(mode string, t Table, f Format) error {
	switch f {
	case FormatConsole:
		return s.console(t)
	case FormatPretty:
		return s.pretty(t)
	case FormatFile:
		_, err := s.file(mode, t)
		return err
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q", f)
}

func (s *Sink) console(t Table) error {
	for _, row := range t {
		if _, err := fmt.Fprintln(s.stdout, strings.Join(row, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) pretty(t Table) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(s.stdout)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(t.Header()))
	for i, h := range t.Header() {
		header[i] = h
	}
	tw.AppendHeader(header)

	configs := make([]table.ColumnConfig, len(header))
	for i := range configs {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.SetColumnConfigs(configs)

	for _, row := range t.Body() {
		r := make(table.Row, len(row))
		for i, c := range row {
			r[i] = c
		}
		tw.AppendRow(r)
	}
	tw.Render()
	return nil
}

// file writes t as CSV and returns the path of the new file.
func (s *Sink) file(mode string, t Table) (string, error) {
	if err := os.MkdirAll(s.resultsDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", s.resultsDir)
	}

	name := fmt.Sprintf("%s_%s.csv", mode, s.now().Format(TimestampLayout))
	path := filepath.Join(s.resultsDir, name)

	f, err := s.create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", path)
	}
	// a partial CSV must not pass for a result
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "close %s", path)
	}

	s.logger.Info("Results saved", "path", path)
	return path, nil
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// WriteCSV writes every row of t, header included, with "\n" line endings.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = false
	if err := cw.WriteAll(t); err != nil {
		return err
	}
	return cw.Error()
}
