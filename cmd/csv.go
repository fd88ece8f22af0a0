package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/referral"
	"github.com/etnz/referral/date"
)

// exportCSV creates the export file at path and fills it with write. When
// path is a folder the file is named after title and the day of now.
func exportCSV(path, title string, now time.Time, write func(*os.File) error) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, referral.ExportFileName(title, date.Of(now)))
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cannot create %q: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return "", fmt.Errorf("cannot write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("cannot write %q: %w", path, err)
	}
	return path, nil
}
