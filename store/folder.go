package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/referral"
	"github.com/rs/zerolog"
)

// Table file names, inside a Folder.
const (
	ReferralsFile     = "referrals.jsonl"
	SettingsFile      = "bonus_settings.jsonl"
	StacksFile        = "stacks.jsonl"
	ProgressFile      = "group_progress.jsonl"
	GroupBonusesFile  = "group_bonuses.jsonl"
	RatesFile         = "rates.jsonl"
	maxLineSize       = 1 << 20
	defaultFolderPerm = 0o755
)

// The overall strategy to Open and Save a folder is as follow:
//
//	Open: read each table file line by line, skipping blank lines, and decode
//	      every line as one json object. A missing file is an empty table.
//
//	Save: sort every table, then write each file from scratch, one json object
//	      per line.

// Folder is a Data persisted in a directory.
type Folder struct {
	Data
	dir string
}

// Dir returns the directory of the folder.
func (f *Folder) Dir() string { return f.dir }

// Open reads the folder dir. The folder does not need to exist.
func Open(ctx context.Context, dir string) (*Folder, error) {
	f := &Folder{dir: dir}
	if err := decodeFile(ctx, filepath.Join(dir, ReferralsFile), &f.ReferralRows); err != nil {
		return nil, err
	}
	if err := decodeFile(ctx, filepath.Join(dir, SettingsFile), &f.Settings); err != nil {
		return nil, err
	}
	if err := decodeFile(ctx, filepath.Join(dir, StacksFile), &f.Stacks); err != nil {
		return nil, err
	}
	if err := decodeFile(ctx, filepath.Join(dir, ProgressFile), &f.Progress); err != nil {
		return nil, err
	}
	if err := decodeFile(ctx, filepath.Join(dir, GroupBonusesFile), &f.Groups); err != nil {
		return nil, err
	}
	if err := decodeFile(ctx, filepath.Join(dir, RatesFile), (*[]referral.Rate)(&f.Rates)); err != nil {
		return nil, err
	}
	if err := f.Check(); err != nil {
		return nil, fmt.Errorf("invalid folder %q: %w", dir, err)
	}
	return f, nil
}

// Save writes every table of the folder.
func (f *Folder) Save(ctx context.Context) error {
	if err := f.Check(); err != nil {
		return fmt.Errorf("cannot save folder %q: %w", f.dir, err)
	}
	f.sort()
	if err := os.MkdirAll(f.dir, defaultFolderPerm); err != nil {
		return fmt.Errorf("cannot create folder %q: %w", f.dir, err)
	}
	if err := encodeFile(ctx, filepath.Join(f.dir, ReferralsFile), f.ReferralRows); err != nil {
		return err
	}
	if err := encodeFile(ctx, filepath.Join(f.dir, SettingsFile), f.Settings); err != nil {
		return err
	}
	if err := encodeFile(ctx, filepath.Join(f.dir, StacksFile), f.Stacks); err != nil {
		return err
	}
	if err := encodeFile(ctx, filepath.Join(f.dir, ProgressFile), f.Progress); err != nil {
		return err
	}
	if err := encodeFile(ctx, filepath.Join(f.dir, GroupBonusesFile), f.Groups); err != nil {
		return err
	}
	return encodeFile(ctx, filepath.Join(f.dir, RatesFile), []referral.Rate(f.Rates))
}

// decodeFile appends every line of filename to rows.
func decodeFile[T any](ctx context.Context, filename string, rows *[]T) error {
	r, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("file", filename).Msg("missing table file, empty table")
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer r.Close()
	n, err := decodeLines(filename, r, rows)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("file", filename).Int("rows", n).Msg("table loaded")
	return nil
}

// decodeLines decodes each non blank line of r as a T. filename is for error
// message only.
func decodeLines[T any](filename string, r io.Reader, rows *[]T) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	i, n := 0, 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if strings.TrimSpace(string(line)) == "" {
			continue
		}
		var row T
		if err := json.Unmarshal(line, &row); err != nil {
			return n, fmt.Errorf("format error %s:%d: %w", filename, i, err)
		}
		*rows = append(*rows, row)
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("cannot read %q: %w", filename, err)
	}
	return n, nil
}

// encodeFile writes rows to filename, one json object per line.
func encodeFile[T any](ctx context.Context, filename string, rows []T) error {
	w, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create file %q: %w", filename, err)
	}
	defer w.Close()
	if err := encodeLines(w, rows); err != nil {
		return fmt.Errorf("write error on file %q: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write error on file %q: %w", filename, err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", filename).Int("rows", len(rows)).Msg("table saved")
	return nil
}

func encodeLines[T any](w io.Writer, rows []T) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		bw.Write(data)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
