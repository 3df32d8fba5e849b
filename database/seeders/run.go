// Package seeders holds the database seed functions. Each seeder file
// registers itself from init, and the seed CLI command runs them all
// in registration order.
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/villageangel/pkg/logger"
)

// SeederFunc populates one slice of reference or demo data.
type SeederFunc func(db *gorm.DB) error

var (
	mu    sync.Mutex
	names []string
	funcs = map[string]SeederFunc{}
)

// Register adds a seeder under a unique name. Duplicate names panic;
// a silently shadowed seeder would be a debugging trap.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := funcs[name]; dup {
		panic(fmt.Sprintf("seeders: %q registered twice", name))
	}
	names = append(names, name)
	funcs[name] = fn
}

// RunAll executes every registered seeder in registration order,
// stopping at the first failure.
func RunAll(db *gorm.DB) error {
	mu.Lock()
	order := append([]string(nil), names...)
	mu.Unlock()

	if len(order) == 0 {
		logger.Warn("seeders: nothing registered")
		return nil
	}

	for _, name := range order {
		if err := funcs[name](db); err != nil {
			return fmt.Errorf("seeder %q: %w", name, err)
		}
		logger.Info("seeders: done", "seeder", name)
	}
	return nil
}
