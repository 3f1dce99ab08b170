package orm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/va6996/agenttools/tools"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Invocation is one audited tool call
type Invocation struct {
	ID         uint   `gorm:"primaryKey"`
	RequestID  string `gorm:"index"`
	Tool       string `gorm:"index"`
	Parameters string
	Outcome    string
	Error      string
	DurationMS int64
	CreatedAt  time.Time `gorm:"index"`
}

// Open connects to the audit database. driver is "sqlite" or "postgres".
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported audit driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.AutoMigrate(&Invocation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit schema: %w", err)
	}
	return db, nil
}

// InvocationStore persists tool invocations. It satisfies tools.Recorder.
type InvocationStore struct {
	db *gorm.DB
}

var _ tools.Recorder = (*InvocationStore)(nil)

func NewInvocationStore(db *gorm.DB) *InvocationStore {
	return &InvocationStore{db: db}
}

// Record inserts one row for inv. Credentials never reach this point: only
// the tool parameters are stored.
func (s *InvocationStore) Record(ctx context.Context, inv tools.Invocation) error {
	params, err := json.Marshal(inv.Args)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}

	row := Invocation{
		RequestID:  inv.RequestID,
		Tool:       inv.Tool,
		Parameters: string(params),
		Outcome:    OutcomeOK,
		DurationMS: inv.Duration.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if inv.Err != nil {
		row.Outcome = OutcomeError
		row.Error = inv.Err.Error()
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// ListInvocations returns the most recent invocations, newest first. An
// empty tool matches every tool.
func (s *InvocationStore) ListInvocations(ctx context.Context, tool string, limit int) ([]Invocation, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if tool != "" {
		q = q.Where("tool = ?", tool)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []Invocation
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CleanupInvocations removes rows older than the retention window
func (s *InvocationStore) CleanupInvocations(ctx context.Context, olderThan time.Duration) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", time.Now().Add(-olderThan)).Delete(&Invocation{})
	return res.RowsAffected, res.Error
}
