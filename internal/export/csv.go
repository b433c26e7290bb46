// Package export writes report rows as CSV, Parquet or a terminal table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"store-monitor-backend/internal/uptime"
)

// Header is the column order of the report CSV.
var Header = []string{
	"store_id",
	"uptime_last_hour",
	"uptime_last_day",
	"uptime_last_week",
	"downtime_last_hour",
	"downtime_last_day",
	"downtime_last_week",
}

// WriteCSV writes the header and one record per row. Values are printed
// with two decimals.
func WriteCSV(w io.Writer, rows []uptime.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return fmt.Errorf("failed to write row for store %s: %w", r.StoreID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes rows to path through a temporary file so readers
// never see a partial report.
func WriteCSVFile(path string, rows []uptime.Row) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteCSV(w, rows)
	})
}

func record(r uptime.Row) []string {
	return []string{
		r.StoreID,
		formatValue(r.UptimeLastHour),
		formatValue(r.UptimeLastDay),
		formatValue(r.UptimeLastWeek),
		formatValue(r.DowntimeLastHour),
		formatValue(r.DowntimeLastDay),
		formatValue(r.DowntimeLastWeek),
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
