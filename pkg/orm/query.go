// Package orm is a thin fluent wrapper over the shared gorm handle.
//
// Repositories chain conditions and finish with Get/First/Create/Save, e.g.
//
//	err := orm.DB().Model(&models.Product{}).
//	    Where("category_id = ?", id).
//	    Get(&products)
//
// Read queries can opt into a Redis read-through with Cache().
package orm

import (
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/cache"
	"github.com/shashiranjanraj/villageangel/pkg/database"
	"gorm.io/gorm"
)

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

// WithDB wraps an explicit gorm handle (tests use this with a throwaway
// sqlite database).
func WithDB(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Preload(association string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(association, args...)}
}

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row. Returns gorm.ErrRecordNotFound when
// nothing matches.
func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Count returns the number of matching rows.
func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Create inserts v.
func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

// Save upserts v by primary key.
func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Updates applies a column map to all matching rows and reports how many
// changed.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// Delete removes matching rows (soft delete for gorm.Model types).
func (q *Query) Delete(v interface{}) error {
	return q.db.Delete(v).Error
}

// GetWithPagination loads one page into dest and returns page metadata.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * limit
	if err := q.db.Offset(offset).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

// Cache is a read-through: serve dest from Redis under key when present,
// otherwise run the query and populate the cache for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	err := q.db.Find(dest).Error
	if err != nil {
		return err
	}

	cache.Set(key, dest, ttl) //nolint:errcheck
	return nil
}

// Forget drops a cached read-through entry, typically after a write.
func Forget(key string) {
	cache.Forget(key)
}
