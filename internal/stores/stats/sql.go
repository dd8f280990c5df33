package stats

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/ethanbaker/refbot/pkg/stats"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// totalDay is the day value of the row holding a destination's total
const totalDay = ""

// CounterRow is one counter in the database. The row with an empty Day holds the total
type CounterRow struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Destination string `gorm:"uniqueIndex:idx_destination_day;not null;size:191"`
	Day         string `gorm:"uniqueIndex:idx_destination_day;not null;size:10"`
	Count       int    `gorm:"not null;default:0"`
}

// TableName sets the table name for GORM
func (CounterRow) TableName() string {
	return "reference_counters"
}

// SqlStore keeps counters in MySQL through GORM
type SqlStore struct {
	db    *gorm.DB
	names []string
}

// NewSqlStore opens the database and migrates the counter table
func NewSqlStore(dsn string, names []string) (*SqlStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewSqlStoreFromDB(db, names)
}

// NewSqlStoreFromDB wraps an existing GORM connection
func NewSqlStoreFromDB(db *gorm.DB, names []string) (*SqlStore, error) {
	if err := db.AutoMigrate(&CounterRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return &SqlStore{db: db, names: append([]string(nil), names...)}, nil
}

// Load reads every counter row. Query failures yield zero counters
func (s *SqlStore) Load(ctx context.Context) stats.Counters {
	var rows []CounterRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		log.Printf("[SQL-STORE]: error loading counters: %v", err)
		return stats.NewCounters(s.names)
	}

	return rowsToCounters(rows, s.names)
}

// Save upserts every counter in a single transaction. Failures are logged
func (s *SqlStore) Save(ctx context.Context, counters stats.Counters) {
	rows := countersToRows(counters)
	if len(rows) == 0 {
		return
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "destination"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"count"}),
		}).Create(&rows).Error
	})
	if err != nil {
		log.Printf("[SQL-STORE]: error saving counters: %v", err)
	}
}

// rowsToCounters folds rows into counters and backfills the configured names
func rowsToCounters(rows []CounterRow, names []string) stats.Counters {
	counters := stats.NewCounters(names)
	for _, row := range rows {
		entry := counters[row.Destination]
		if entry == nil {
			entry = &stats.Entry{Daily: map[string]int{}}
			counters[row.Destination] = entry
		}

		if row.Day == totalDay {
			entry.Total = row.Count
		} else {
			entry.Daily[row.Day] = row.Count
		}
	}
	return counters
}

// countersToRows flattens counters into rows, sorted for stable writes
func countersToRows(counters stats.Counters) []CounterRow {
	var rows []CounterRow
	for name, entry := range counters {
		if entry == nil {
			continue
		}

		rows = append(rows, CounterRow{Destination: name, Day: totalDay, Count: entry.Total})
		for day, n := range entry.Daily {
			rows = append(rows, CounterRow{Destination: name, Day: day, Count: n})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Destination != rows[j].Destination {
			return rows[i].Destination < rows[j].Destination
		}
		return rows[i].Day < rows[j].Day
	})
	return rows
}
