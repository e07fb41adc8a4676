package runner

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ExportReport writes the report as indented JSON to path, creating parent
// directories as needed.
func ExportReport(report *Report, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create export directory")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}

	if err := WriteReport(report, f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to flush export file")
}

// WriteReport encodes the report as indented JSON.
func WriteReport(report *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(report), "failed to encode report")
}
