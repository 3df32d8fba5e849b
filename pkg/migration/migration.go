// Package migration tracks schema changes in batches, Laravel-style.
//
// Each migration registers itself under a sortable timestamped name:
//
//	func init() {
//	    migration.Register("0001_create_users", &createUsers{})
//	}
//
// The CLI drives the runner: `villageangel migrate` applies pending
// migrations as one batch, `migrate:rollback` reverses the latest
// batch, `migrate:status` prints the ledger.
package migration

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/villageangel/pkg/logger"
)

// Migration mutates the schema in both directions.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "migrations" }

var registry = map[string]Migration{}

// Register adds a migration under name. Names sort lexicographically to
// give the run order, so prefix them with a sequence or timestamp.
func Register(name string, m Migration) {
	registry[name] = m
}

// Runner applies registered migrations against one database.
type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// Run applies every pending migration as a single new batch.
func (r *Runner) Run() error {
	applied, err := r.applied()
	if err != nil {
		return err
	}

	var pending []string
	for name := range registry {
		if _, ok := applied[name]; !ok {
			pending = append(pending, name)
		}
	}
	sort.Strings(pending)

	if len(pending) == 0 {
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch := r.lastBatch() + 1
	for _, name := range pending {
		logger.Info("migration: applying", "name", name, "batch", batch)
		fmt.Printf("  Migrating: %s\n", name)

		if err := registry[name].Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", name, err)
		}
		if err := r.db.Create(&record{Name: name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", name, err)
		}

		fmt.Printf("  Migrated:  %s\n", name)
	}
	return nil
}

// Rollback reverses the most recent batch, newest migration first.
func (r *Runner) Rollback() error {
	if _, err := r.applied(); err != nil {
		return err
	}

	last := r.lastBatch()
	if last == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	var records []record
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	for _, rec := range records {
		m, ok := registry[rec.Name]
		if !ok {
			return fmt.Errorf("migration: %s is in the ledger but not registered", rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		fmt.Printf("  Rolling back: %s\n", rec.Name)

		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return err
		}

		fmt.Printf("  Rolled back:  %s\n", rec.Name)
	}
	return nil
}

// Status prints every known migration with its batch, or "Pending".
func (r *Runner) Status() error {
	applied, err := r.applied()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Println(strings.Repeat("-", 80))
	for _, name := range names {
		if rec, ok := applied[name]; ok {
			fmt.Printf("%-60s  %-8s  %d\n", name, "Ran", rec.Batch)
		} else {
			fmt.Printf("%-60s  %-8s  -\n", name, "Pending")
		}
	}
	return nil
}

// applied ensures the ledger table exists and loads it keyed by name.
func (r *Runner) applied() (map[string]record, error) {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migration: ledger table: %w", err)
	}

	var records []record
	if err := r.db.Find(&records).Error; err != nil {
		return nil, err
	}

	out := make(map[string]record, len(records))
	for _, rec := range records {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch() int {
	var row struct{ Max int }
	r.db.Model(&record{}).Select("MAX(batch) as max").Scan(&row)
	return row.Max
}
