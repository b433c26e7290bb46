package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"store-monitor-backend/internal/uptime"
)

// ParquetRow is the Parquet schema of one report row.
type ParquetRow struct {
	StoreID          string  `parquet:"store_id,snappy"`
	UptimeLastHour   float64 `parquet:"uptime_last_hour,snappy"`
	UptimeLastDay    float64 `parquet:"uptime_last_day,snappy"`
	UptimeLastWeek   float64 `parquet:"uptime_last_week,snappy"`
	DowntimeLastHour float64 `parquet:"downtime_last_hour,snappy"`
	DowntimeLastDay  float64 `parquet:"downtime_last_day,snappy"`
	DowntimeLastWeek float64 `parquet:"downtime_last_week,snappy"`
}

// ConvertRows maps report rows to their Parquet records.
func ConvertRows(rows []uptime.Row) []ParquetRow {
	out := make([]ParquetRow, len(rows))
	for i, r := range rows {
		out[i] = ParquetRow(r)
	}
	return out
}

// WriteParquet writes rows to w as a single Parquet file.
func WriteParquet(w io.Writer, rows []uptime.Row) error {
	writer := parquet.NewGenericWriter[ParquetRow](w)
	if _, err := writer.Write(ConvertRows(rows)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteParquetFile writes rows to path.
func WriteParquetFile(path string, rows []uptime.Row) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteParquet(w, rows)
	})
}
