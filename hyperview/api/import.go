package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/gocarina/gocsv"
)

// ImportResult describes what happened to one row of an import file.
type ImportResult struct {
	// Row is the 1-based position of the row below the header.
	Row      int
	Name     string
	Decision Decision
	// Response is nil for rejected rows; no request was made for them.
	Response *Response
}

type ImportSummary struct {
	Created  int
	Updated  int
	Rejected int
	// Failed counts rows the server answered with a non-2xx status.
	Failed int
}

// ReadImportRows parses a CSV import file whose columns match R's csv tags.
// Every column R declares must be in the header unless its tag is omitempty.
func ReadImportRows[R ImportRow](reader io.Reader) ([]ImportRow, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	if err := checkImportHeader(data, reflect.TypeOf((*R)(nil)).Elem()); err != nil {
		return nil, err
	}

	var parsed []R
	if err := gocsv.UnmarshalBytes(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}

	rows := make([]ImportRow, 0, len(parsed))
	for _, row := range parsed {
		rows = append(rows, row)
	}

	return rows, nil
}

func checkImportHeader(data []byte, rowType reflect.Type) error {
	header, err := gocsv.DefaultCSVReader(bytes.NewReader(data)).Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty file", ErrImportColumnsMissing)
	}
	if err != nil {
		return fmt.Errorf("failed to read import file header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, column := range header {
		present[strings.TrimSpace(strings.ReplaceAll(column, "\uFEFF", ""))] = true
	}

	var missing []string
	for i := 0; i < rowType.NumField(); i++ {
		name, options, _ := strings.Cut(rowType.Field(i).Tag.Get("csv"), ",")
		if name == "" || name == "-" || strings.Contains(options, "omitempty") {
			continue
		}
		if !present[name] {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrImportColumnsMissing, strings.Join(missing, ", "))
	}

	return nil
}

// LoadImportFile checks that path exists before reading it with ReadImportRows.
func LoadImportFile[R ImportRow](path string) ([]ImportRow, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputFileMissing, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	return ReadImportRows[R](file)
}

// ImportSensors creates or updates one sensor per row, strictly in order.
//
// Rejected rows and non-2xx responses are reported and skipped. A transport
// failure or a malformed value mapping stops the import; rows already sent stay applied.
func (client *Client) ImportSensors(ctx context.Context, collection SensorCollection, rows []ImportRow, report func(ImportResult)) (ImportSummary, error) {
	var summary ImportSummary

	for i, row := range rows {
		id, name := row.Identity()
		result := ImportResult{
			Row:      i + 1,
			Name:     name,
			Decision: Classify(id, name),
		}

		client.log(slog.LevelInfo, "Processing input row", "row", result.Row, "name", name, "action", result.Decision.Action)

		if result.Decision.Action != ActionReject {
			response, err := client.applyRow(ctx, collection, row, result.Decision)

			switch {
			case errors.Is(err, ErrRowRejected):
				result.Decision = Decision{Action: ActionReject, Err: err}
			case err != nil:
				return summary, fmt.Errorf("row %d (%s): %w", result.Row, name, err)
			default:
				result.Response = response
			}
		}

		switch {
		case result.Decision.Action == ActionReject:
			client.log(slog.LevelError, "Skipping input row", "row", result.Row, "name", name, "error", result.Decision.Err)
			summary.Rejected++
		case !result.Response.Success():
			client.log(slog.LevelWarn, "Server rejected input row",
				"row", result.Row, "name", name, "status", result.Response.Status, "body", result.Response.Body)
			summary.Failed++
		case result.Decision.Action == ActionUpdate:
			summary.Updated++
		default:
			summary.Created++
		}

		if report != nil {
			report(result)
		}
	}

	client.log(slog.LevelInfo, "Import finished",
		"created", summary.Created, "updated", summary.Updated,
		"rejected", summary.Rejected, "failed", summary.Failed)

	return summary, nil
}

func (client *Client) applyRow(ctx context.Context, collection SensorCollection, row ImportRow, decision Decision) (*Response, error) {
	if decision.Action == ActionUpdate {
		sensorID := decision.ID.String()

		sensor, err := row.Sensor(sensorID)
		if err != nil {
			return nil, err
		}

		return client.UpdateSensor(ctx, collection, sensorID, sensor)
	}

	sensor, err := row.Sensor("")
	if err != nil {
		return nil, err
	}

	return client.CreateSensor(ctx, collection, sensor)
}
