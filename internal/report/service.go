// Package report turns the stored source tables into report files.
package report

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"store-monitor-backend/config"
	"store-monitor-backend/internal/export"
	"store-monitor-backend/internal/store"
	"store-monitor-backend/internal/uptime"
)

// Service computes reports from a store snapshot.
type Service struct {
	cfg   *config.ReportConfig
	store store.Store
}

// NewService creates a report service.
func NewService(cfg *config.ReportConfig, store store.Store) *Service {
	return &Service{cfg: cfg, store: store}
}

// Build reads a snapshot and computes the report rows in memory.
func (s *Service) Build(ctx context.Context) (*uptime.Report, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read source tables: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	rep, err := uptime.Generate(ToInput(snap), uptime.Options{
		DefaultTimezone: s.cfg.DefaultTimezone,
		FailFast:        s.cfg.FailFast,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Computed %d store rows (%d skipped) in %s, reference time %s",
		len(rep.Rows), len(rep.Skipped), time.Since(started).Round(time.Millisecond), rep.ReferenceTime.Format(time.RFC3339))
	return rep, nil
}

// Generate builds the report and writes it to <output_dir>/<reportID>.csv,
// plus a Parquet copy when enabled. It returns the CSV path.
func (s *Service) Generate(ctx context.Context, reportID string) (string, error) {
	rep, err := s.Build(ctx)
	if err != nil {
		return "", err
	}

	path := s.CSVPath(reportID)
	if err := export.WriteCSVFile(path, rep.Rows); err != nil {
		return "", err
	}
	if s.cfg.WriteParquet {
		pq := filepath.Join(s.cfg.OutputDir, reportID+".parquet")
		if err := export.WriteParquetFile(pq, rep.Rows); err != nil {
			return "", err
		}
	}
	return path, nil
}

// CSVPath is where the CSV of a report is written.
func (s *Service) CSVPath(reportID string) string {
	return filepath.Join(s.cfg.OutputDir, reportID+".csv")
}

// ToInput converts stored rows to the computation input.
func ToInput(snap *store.Snapshot) uptime.Input {
	in := uptime.Input{
		Statuses:  make([]uptime.StatusRow, len(snap.Statuses)),
		Hours:     make([]uptime.BusinessHourRow, len(snap.Hours)),
		Timezones: make([]uptime.TimezoneRow, len(snap.Timezones)),
	}
	for i, r := range snap.Statuses {
		in.Statuses[i] = uptime.StatusRow{StoreID: r.StoreID, TimestampUTC: r.TimestampUTC, Status: r.Status}
	}
	for i, r := range snap.Hours {
		in.Hours[i] = uptime.BusinessHourRow{
			StoreID:        r.StoreID,
			DayOfWeek:      r.DayOfWeek,
			StartTimeLocal: r.StartTimeLocal,
			EndTimeLocal:   r.EndTimeLocal,
		}
	}
	for i, r := range snap.Timezones {
		in.Timezones[i] = uptime.TimezoneRow{StoreID: r.StoreID, TimezoneName: r.TimezoneStr}
	}
	return in
}
