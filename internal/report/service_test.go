package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-monitor-backend/config"
	"store-monitor-backend/internal/model"
	"store-monitor-backend/internal/store"
	"store-monitor-backend/internal/uptime"
)

type snapshotStore struct {
	store.Store
	snap *store.Snapshot
	err  error
}

func (s *snapshotStore) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	return s.snap, s.err
}

func testSnapshot() *store.Snapshot {
	ref := time.Date(2023, 1, 25, 12, 0, 0, 0, time.UTC)
	return &store.Snapshot{
		Statuses: []model.StoreStatus{
			{StoreID: "s1", Status: "active", TimestampUTC: ref.Add(-2 * time.Hour)},
			{StoreID: "s1", Status: "inactive", TimestampUTC: ref.Add(-30 * time.Minute)},
			{StoreID: "s1", Status: "inactive", TimestampUTC: ref},
		},
		Timezones: []model.StoreTimezone{{StoreID: "s1", TimezoneStr: "UTC"}},
	}
}

func TestService_Generate(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(&config.ReportConfig{OutputDir: dir, WriteParquet: true}, &snapshotStore{snap: testSnapshot()})

	path, err := svc.Generate(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "r1.csv"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "s1,0.00,1.50,1.50,60.00,22.50,166.50", lines[1])

	_, err = os.Stat(filepath.Join(dir, "r1.parquet"))
	assert.NoError(t, err)
}

func TestService_GenerateErrors(t *testing.T) {
	t.Run("Snapshot failure", func(t *testing.T) {
		svc := NewService(&config.ReportConfig{OutputDir: t.TempDir()}, &snapshotStore{err: errors.New("db down")})
		_, err := svc.Generate(context.Background(), "r1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("No status data", func(t *testing.T) {
		svc := NewService(&config.ReportConfig{OutputDir: t.TempDir()}, &snapshotStore{snap: &store.Snapshot{}})
		_, err := svc.Generate(context.Background(), "r1")
		assert.ErrorIs(t, err, uptime.ErrMissingReferenceTime)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		svc := NewService(&config.ReportConfig{OutputDir: t.TempDir()}, &snapshotStore{snap: testSnapshot()})
		_, err := svc.Generate(ctx, "r1")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestToInput(t *testing.T) {
	in := ToInput(&store.Snapshot{
		Statuses:  []model.StoreStatus{{StoreID: "a", Status: "active"}},
		Hours:     []model.BusinessHour{{StoreID: "a", DayOfWeek: 3, StartTimeLocal: "09:00", EndTimeLocal: "17:00"}},
		Timezones: []model.StoreTimezone{{StoreID: "a", TimezoneStr: "Asia/Tokyo"}},
	})
	assert.Equal(t, []uptime.BusinessHourRow{{StoreID: "a", DayOfWeek: 3, StartTimeLocal: "09:00", EndTimeLocal: "17:00"}}, in.Hours)
	assert.Equal(t, []uptime.TimezoneRow{{StoreID: "a", TimezoneName: "Asia/Tokyo"}}, in.Timezones)
	assert.Equal(t, "active", in.Statuses[0].Status)
}
