package queue

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/villageangel/pkg/logger"
)

// Failure is a job that exhausted its retries.
type Failure struct {
	Job      Job
	Err      error
	Attempts int
	FailedAt time.Time
}

// FailedJobRecord is the database row behind a Failure, kept so ops can
// inspect and requeue dead jobs after a restart.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

var failureDB *gorm.DB

// UseDB persists failures to the database. Call once after the
// database connects; without it failures live only in memory.
func UseDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&FailedJobRecord{}); err != nil {
		return err
	}
	failureDB = db
	return nil
}

// FailedJobs snapshots the in-memory failure list.
func FailedJobs() []Failure {
	std.mu.RLock()
	defer std.mu.RUnlock()
	out := make([]Failure, len(std.failed))
	copy(out, std.failed)
	return out
}

func (m *manager) recordFailure(job Job, typeName string, cause error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, Failure{
		Job: job, Err: cause, Attempts: attempts, FailedAt: time.Now(),
	})
	m.mu.Unlock()

	if failureDB == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(`{}`)
	}
	record := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    cause.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}
	if err := failureDB.Create(&record).Error; err != nil {
		logger.Error("queue: could not persist failure", "type", typeName, "error", err)
	}
}
