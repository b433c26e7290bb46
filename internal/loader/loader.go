package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"store-monitor-backend/config"
	"store-monitor-backend/internal/model"
	"store-monitor-backend/internal/parse"
	"store-monitor-backend/internal/store"
)

// Source file names inside the data directory.
const (
	StatusFile        = "store_status.csv"
	BusinessHoursFile = "business_hours.csv"
	TimezoneFile      = "timezone.csv"
)

// ErrNoValidRows is returned when a non-empty file has no usable row. The
// table is left untouched in that case.
var ErrNoValidRows = errors.New("no valid rows")

// Summary holds the per-file results of one load. A nil entry means the
// file was absent and its table was left as it was.
type Summary struct {
	Statuses  *Result `json:"store_status,omitempty"`
	Hours     *Result `json:"business_hours,omitempty"`
	Timezones *Result `json:"timezone,omitempty"`
}

// Service loads the CSV source files into the store.
type Service struct {
	cfg   *config.LoaderConfig
	store store.Store
}

// NewService creates a loader for the configured data directory.
func NewService(cfg *config.LoaderConfig, store store.Store) *Service {
	return &Service{cfg: cfg, store: store}
}

// Run loads on start when configured and then reloads on every interval
// until ctx is cancelled. With no interval it returns after the first load.
func (s *Service) Run(ctx context.Context) {
	if s.cfg.LoadOnStart {
		s.LoadOnce(ctx)
	}
	s.Poll(ctx)
}

// Poll reloads the data directory on every interval until ctx is
// cancelled. It returns at once when no interval is configured.
func (s *Service) Poll(ctx context.Context) {
	if s.cfg.Interval <= 0 {
		return
	}
	log.Printf("Reloading %s every %s", s.cfg.DataDir, s.cfg.Interval)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Loader shutting down.")
			return
		case <-timer.C:
			s.LoadOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

// LoadOnce performs one load of the data directory and logs the outcome.
func (s *Service) LoadOnce(ctx context.Context) {
	log.Printf("Loading CSV data from %s...", s.cfg.DataDir)
	sum, err := s.LoadDir(ctx, s.cfg.DataDir)
	if err != nil {
		log.Printf("Error loading data: %v", err)
		return
	}
	for _, r := range []*Result{sum.Statuses, sum.Hours, sum.Timezones} {
		if r == nil {
			continue
		}
		log.Printf("Loaded %s: %d rows, %d skipped", r.File, r.Success, r.Failed)
		for _, e := range r.Errors {
			log.Printf("  %s %v", r.File, e)
		}
	}
}

// LoadDir loads the three source files found in dir. Each present file
// replaces its table with the rows that parsed; files are processed in
// order and the first file-level failure stops the load.
func (s *Service) LoadDir(ctx context.Context, dir string) (*Summary, error) {
	var sum Summary
	var err error

	if sum.Timezones, err = loadFile(ctx, filepath.Join(dir, TimezoneFile), s.loadTimezones); err != nil {
		return &sum, err
	}
	if sum.Hours, err = loadFile(ctx, filepath.Join(dir, BusinessHoursFile), s.loadHours); err != nil {
		return &sum, err
	}
	if sum.Statuses, err = loadFile(ctx, filepath.Join(dir, StatusFile), s.loadStatuses); err != nil {
		return &sum, err
	}
	return &sum, nil
}

func loadFile(ctx context.Context, path string, load func(ctx context.Context, f *os.File) (*Result, error)) (*Result, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("%s not found; keeping existing rows", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return load(ctx, f)
}

func (s *Service) loadStatuses(ctx context.Context, f *os.File) (*Result, error) {
	var rows []model.StoreStatus
	res, err := readCSV(StatusFile, f, [][]string{{"store_id"}, {"status"}, {"timestamp_utc"}}, func(r row) error {
		id := r.get("store_id")
		if id == "" {
			return errors.New("store_id is empty")
		}
		status := r.get("status")
		if status == "" {
			return errors.New("status is empty")
		}
		ts, err := parse.Timestamp(r.get("timestamp_utc"))
		if err != nil {
			return err
		}
		rows = append(rows, model.StoreStatus{StoreID: id, Status: status, TimestampUTC: ts})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := checkUsable(res); err != nil {
		return res, err
	}
	if err := s.store.ReplaceStatuses(ctx, rows); err != nil {
		return res, fmt.Errorf("failed to store %s: %w", StatusFile, err)
	}
	return res, nil
}

func (s *Service) loadHours(ctx context.Context, f *os.File) (*Result, error) {
	var rows []model.BusinessHour
	required := [][]string{{"store_id"}, {"dayofweek", "day_of_week"}, {"start_time_local"}, {"end_time_local"}}
	res, err := readCSV(BusinessHoursFile, f, required, func(r row) error {
		id := r.get("store_id")
		if id == "" {
			return errors.New("store_id is empty")
		}
		d, err := parse.DayOfWeek(r.get("dayofweek", "day_of_week"))
		if err != nil {
			return err
		}
		rows = append(rows, model.BusinessHour{
			StoreID:        id,
			DayOfWeek:      d,
			StartTimeLocal: r.get("start_time_local"),
			EndTimeLocal:   r.get("end_time_local"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := checkUsable(res); err != nil {
		return res, err
	}
	if err := s.store.ReplaceBusinessHours(ctx, rows); err != nil {
		return res, fmt.Errorf("failed to store %s: %w", BusinessHoursFile, err)
	}
	return res, nil
}

func (s *Service) loadTimezones(ctx context.Context, f *os.File) (*Result, error) {
	var rows []model.StoreTimezone
	res, err := readCSV(TimezoneFile, f, [][]string{{"store_id"}, {"timezone_str"}}, func(r row) error {
		id := r.get("store_id")
		if id == "" {
			return errors.New("store_id is empty")
		}
		rows = append(rows, model.StoreTimezone{StoreID: id, TimezoneStr: r.get("timezone_str")})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := checkUsable(res); err != nil {
		return res, err
	}
	if err := s.store.ReplaceTimezones(ctx, rows); err != nil {
		return res, fmt.Errorf("failed to store %s: %w", TimezoneFile, err)
	}
	return res, nil
}

func checkUsable(res *Result) error {
	if res.Total > 0 && res.Success == 0 {
		return fmt.Errorf("%s: %w (%d rows rejected)", res.File, ErrNoValidRows, res.Failed)
	}
	return nil
}
