package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/pydocs-scraper/pkg/config"
	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// Renderer writes result tables to the console or to CSV files
type Renderer struct {
	Stdout     io.Writer
	ResultsDir string           // Absolute or BaseDir-resolved directory for CSV output
	Now        func() time.Time // Clock for file names
	Log        *logrus.Entry
}

// NewRenderer creates a Renderer writing to stdout and resultsDir
func NewRenderer(stdout io.Writer, resultsDir string, log *logrus.Entry) *Renderer {
	return &Renderer{
		Stdout:     stdout,
		ResultsDir: resultsDir,
		Now:        time.Now,
		Log:        log,
	}
}

// Render emits t in the requested format. mode names the report and prefixes CSV file names.
func (r *Renderer) Render(t *models.Table, format Format, mode string) error {
	if t == nil {
		r.Log.Debug("Nothing to render")
		return nil
	}
	switch format {
	case FormatDefault:
		return r.renderDefault(t)
	case FormatPretty:
		return r.renderPretty(t)
	case FormatFile:
		path, err := r.renderFile(t, mode)
		if err != nil {
			return err
		}
		r.Log.WithField("rows", t.Len()).Infof("Results saved: %s", path)
		return nil
	default:
		return fmt.Errorf("%w: %s", utils.ErrUnknownOutput, format)
	}
}

func (r *Renderer) renderDefault(t *models.Table) error {
	for _, row := range t.Records() {
		if _, err := fmt.Fprintln(r.Stdout, strings.Join(row, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderPretty(t *models.Table) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.Stdout)

	style := table.StyleDefault
	style.Format.Header = text.FormatDefault // keep header text as is
	tw.SetStyle(style)

	tw.AppendHeader(toRow(t.Header))
	for _, row := range t.Rows {
		tw.AppendRow(toRow(row))
	}

	configs := make([]table.ColumnConfig, 0, len(t.Header))
	for i := range t.Header {
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	tw.Render()
	return nil
}

func (r *Renderer) renderFile(t *models.Table, mode string) (string, error) {
	if err := os.MkdirAll(r.ResultsDir, 0755); err != nil {
		return "", fmt.Errorf("%w: create results directory '%s': %w", utils.ErrFilesystem, r.ResultsDir, err)
	}
	path := filepath.Join(r.ResultsDir, fmt.Sprintf("%s_%s.csv", mode, r.Now().Format(config.DateTimeFormat)))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create results file '%s': %w", utils.ErrFilesystem, path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(t.Records()); err != nil {
		return "", fmt.Errorf("%w: write results file '%s': %w", utils.ErrFilesystem, path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("%w: close results file '%s': %w", utils.ErrFilesystem, path, err)
	}
	return path, nil
}

func toRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
