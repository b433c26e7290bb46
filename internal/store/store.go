package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"store-monitor-backend/internal/model"
)

const defaultBatchSize = 1000

// Store defines the interface for all database operations.
type Store interface {
	ReplaceStatuses(ctx context.Context, rows []model.StoreStatus) error
	ReplaceBusinessHours(ctx context.Context, rows []model.BusinessHour) error
	ReplaceTimezones(ctx context.Context, rows []model.StoreTimezone) error
	Snapshot(ctx context.Context) (*Snapshot, error)
	StoreSummaries(ctx context.Context) ([]StoreSummary, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db        *gorm.DB
	batchSize int
}

// NewGormStore creates a new GORM-backed store. A batchSize of zero or less
// uses the default insert batch size.
func NewGormStore(db *gorm.DB, batchSize int) Store {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &gormStore{db: db, batchSize: batchSize}
}

// ReplaceStatuses swaps the whole store_status table for rows in one transaction.
func (s *gormStore) ReplaceStatuses(ctx context.Context, rows []model.StoreStatus) error {
	return replaceTable(ctx, s.db, &model.StoreStatus{}, rows, s.batchSize)
}

// ReplaceBusinessHours swaps the whole business_hours table for rows.
func (s *gormStore) ReplaceBusinessHours(ctx context.Context, rows []model.BusinessHour) error {
	return replaceTable(ctx, s.db, &model.BusinessHour{}, rows, s.batchSize)
}

// ReplaceTimezones swaps the whole timezone table. Duplicate store ids keep
// the last row.
func (s *gormStore) ReplaceTimezones(ctx context.Context, rows []model.StoreTimezone) error {
	return replaceTable(ctx, s.db, &model.StoreTimezone{}, dedupeTimezones(rows), s.batchSize)
}

func replaceTable[T schema.Tabler](ctx context.Context, db *gorm.DB, table *T, rows []T, batchSize int) error {
	name := (*table).TableName()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", name, err)
		}
		if len(rows) == 0 {
			return nil
		}
		log.Printf("Batch inserting %d rows into %s...", len(rows), name)
		if err := tx.CreateInBatches(&rows, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert into %s: %w", name, err)
		}
		return nil
	})
}

func dedupeTimezones(rows []model.StoreTimezone) []model.StoreTimezone {
	pos := make(map[string]int, len(rows))
	out := make([]model.StoreTimezone, 0, len(rows))
	for _, r := range rows {
		if i, ok := pos[r.StoreID]; ok {
			out[i] = r
			continue
		}
		pos[r.StoreID] = len(out)
		out = append(out, r)
	}
	return out
}

// Snapshot reads all three tables inside one transaction.
func (s *gormStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id").Find(&snap.Statuses).Error; err != nil {
			return fmt.Errorf("failed to read store_status: %w", err)
		}
		if err := tx.Order("id").Find(&snap.Hours).Error; err != nil {
			return fmt.Errorf("failed to read business_hours: %w", err)
		}
		if err := tx.Order("store_id").Find(&snap.Timezones).Error; err != nil {
			return fmt.Errorf("failed to read timezone: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// StoreSummaries returns poll counts and the observed time span per store,
// ordered by store id.
func (s *gormStore) StoreSummaries(ctx context.Context) ([]StoreSummary, error) {
	var rows []summaryRow
	err := s.db.WithContext(ctx).
		Model(&model.StoreStatus{}).
		Select("store_status.store_id AS store_id, COUNT(*) AS observations, " +
			"MIN(store_status.timestamp_utc) AS first_seen, MAX(store_status.timestamp_utc) AS last_seen, " +
			"COALESCE(timezone.timezone_str, '') AS timezone").
		Joins("LEFT JOIN timezone ON timezone.store_id = store_status.store_id").
		Group("store_status.store_id, timezone.timezone_str").
		Order("store_status.store_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarise stores: %w", err)
	}

	out := make([]StoreSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, StoreSummary{
			StoreID:      r.StoreID,
			Observations: r.Observations,
			FirstSeen:    r.FirstSeen.Time,
			LastSeen:     r.LastSeen.Time,
			Timezone:     r.Timezone,
		})
	}
	return out, nil
}
