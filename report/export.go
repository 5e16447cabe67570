package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwantia/backup-explorer/log"
)

// Exporter stores a report in an external target.
type Exporter interface {
	Name() string
	Export(ctx context.Context, report *Report) error
}

// ExportAll hands report to every exporter and joins their failures.
func ExportAll(ctx context.Context, logger *log.Logger, report *Report, exporters ...Exporter) error {
	var errs []error
	for _, exporter := range exporters {
		if err := exporter.Export(ctx, report); err != nil {
			logger.Warn("Export of report %s to %s failed: %v", report.Key(), exporter.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", exporter.Name(), err))
			continue
		}
		logger.Info("Exported report %s to %s", report.Key(), exporter.Name())
	}
	return errors.Join(errs...)
}

// FileExporter writes the JSON and text rendering of a report into a directory.
type FileExporter struct {
	Dir string
}

func NewFileExporter(dir string) *FileExporter {
	return &FileExporter{Dir: dir}
}

func (*FileExporter) Name() string {
	return "file"
}

func (fe *FileExporter) Export(ctx context.Context, report *Report) error {
	if err := os.MkdirAll(fe.Dir, 0o755); err != nil {
		return err
	}

	content, err := report.JSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(fe.Dir, report.Key()+".json"), content, 0o644); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(fe.Dir, report.Key()+".txt"))
	if err != nil {
		return err
	}
	defer f.Close()

	return report.WriteText(f, 0)
}
