package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/monorkin/hyperview-dit/hyperview/api"
	"github.com/monorkin/hyperview-dit/internal/database"
	"github.com/monorkin/hyperview-dit/internal/models"
	"gorm.io/gorm"
)

type Mode string

const (
	ModeRecord Mode = "record"
	ModeCSV    Mode = "csv"
	ModeSQLite Mode = "sqlite"
)

var Modes = []string{string(ModeRecord), string(ModeCSV), string(ModeSQLite)}

var (
	ErrOutputFilenameRequired = errors.New("must provide an output filename")
	ErrOutputFileExists       = errors.New("file already exists, can't overwrite")
)

type Options struct {
	Mode     Mode
	Filename string
	// Stdout receives record mode output. Defaults to os.Stdout.
	Stdout io.Writer
}

// Row is the flat shape of a record.
type Row interface {
	Key() api.RowKey
}

// Record is anything with a human-readable block and a flat row.
type Record[R Row] interface {
	fmt.Stringer
	Row() R
}

// Validate checks the destination before any records are fetched.
func (options Options) Validate() error {
	switch options.Mode {
	case ModeRecord:
		return nil
	case ModeCSV, ModeSQLite:
		if options.Filename == "" {
			return ErrOutputFilenameRequired
		}

		_, err := os.Stat(options.Filename)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrOutputFileExists, options.Filename)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check output file: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("unknown output type: %q", options.Mode)
	}
}

// Render writes records in the requested mode. Files are never overwritten.
func Render[R Row, T Record[R]](options Options, records []T) error {
	if err := options.Validate(); err != nil {
		return err
	}

	switch options.Mode {
	case ModeCSV:
		return writeCSV(options.Filename, flatten[R](records))
	case ModeSQLite:
		return writeSQLite(options.Filename, flatten[R](records))
	default:
		stdout := options.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}

		return printRecords(stdout, records)
	}
}

func flatten[R Row, T Record[R]](records []T) []R {
	flat := make([]R, 0, len(records))
	for _, record := range records {
		flat = append(flat, record.Row())
	}

	return flat
}

func printRecords[T fmt.Stringer](w io.Writer, records []T) error {
	for i, record := range records {
		if _, err := fmt.Fprintf(w, "---- [%d] ----\n%s\n\n", i, record); err != nil {
			return err
		}
	}

	return nil
}

// createNew opens filename for writing, failing if it already exists.
func createNew(filename string) (*os.File, error) {
	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: %s", ErrOutputFileExists, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return file, nil
}

func writeCSV[R Row](filename string, rows []R) error {
	file, err := createNew(filename)
	if err != nil {
		return err
	}

	if err := gocsv.Marshal(rows, file); err != nil {
		file.Close()
		os.Remove(filename)
		return fmt.Errorf("failed to write csv: %w", err)
	}

	return file.Close()
}

func writeSQLite[R Row](filename string, rows []R) error {
	file, err := createNew(filename)
	if err != nil {
		return err
	}
	file.Close()

	db, err := database.Open(filename)
	if err != nil {
		os.Remove(filename)
		return err
	}

	if err := insertRows(db, rows); err != nil {
		database.Close(db)
		os.Remove(filename)
		return err
	}

	return database.Close(db)
}

func insertRows[R Row](db *gorm.DB, rows []R) error {
	if len(rows) == 0 {
		return nil
	}

	records := make([]models.ExportedRecord, 0, len(rows))
	for _, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}

		key := row.Key()
		records = append(records, models.ExportedRecord{
			Kind:       key.Kind,
			ExternalID: key.ID,
			Name:       key.Name,
			Payload:    string(payload),
		})
	}

	if err := db.Create(&records).Error; err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	return nil
}
