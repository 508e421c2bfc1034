package audit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/finclear/settlement-engine/pkg/models"
)

// Sink is a durable destination for audit records. Append must be
// idempotent on the record id so the worker can retry safely.
type Sink interface {
	Append(ctx context.Context, record models.AuditRecord) error
}

// storedRecord is the persisted audit row. Rows are insert-only: no update
// or delete path exists anywhere in the engine.
type storedRecord struct {
	Sequence       uint64    `gorm:"primaryKey;autoIncrement"`
	RecordID       string    `gorm:"uniqueIndex;size:36"`
	TradeID        string    `gorm:"index;size:64"`
	SourceInstant  time.Time `gorm:"not null"`
	SourceTimezone string    `gorm:"size:64"`
	ResultDate     string    `gorm:"size:10"`
	TargetTimezone string    `gorm:"size:64"`
	Resolution     string    `gorm:"size:32"`
	CalculatedAt   time.Time `gorm:"not null"`
}

func (storedRecord) TableName() string { return "audit_records" }

// Store persists audit records to SQLite via GORM.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) the audit database and migrates the schema.
func NewStore(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := db.AutoMigrate(&storedRecord{}); err != nil {
		return nil, fmt.Errorf("migrate audit schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append inserts one record. A duplicate record id (a retried write that
// already landed) is treated as success.
func (s *Store) Append(ctx context.Context, record models.AuditRecord) error {
	row := storedRecord{
		RecordID:       record.RecordID,
		TradeID:        record.TradeID,
		SourceInstant:  record.SourceInstant.UTC(),
		SourceTimezone: record.SourceTimezone,
		ResultDate:     record.ResultDate.String(),
		TargetTimezone: record.TargetTimezone,
		Resolution:     string(record.Resolution),
		CalculatedAt:   record.CalculatedAt.UTC(),
	}
	err := s.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		var existing int64
		if countErr := s.db.WithContext(ctx).Model(&storedRecord{}).
			Where("record_id = ?", record.RecordID).Count(&existing).Error; countErr == nil && existing > 0 {
			return nil
		}
		return fmt.Errorf("insert audit record %s: %w", record.RecordID, err)
	}
	return nil
}

// ByTradeID loads the persisted records for a trade id in append order.
func (s *Store) ByTradeID(ctx context.Context, tradeID string) ([]models.AuditRecord, error) {
	var rows []storedRecord
	if err := s.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Order("sequence asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load audit records for trade %s: %w", tradeID, err)
	}

	records := make([]models.AuditRecord, 0, len(rows))
	for _, row := range rows {
		resultDate, err := models.ParseDate(row.ResultDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt result date in record %s: %w", row.RecordID, err)
		}
		records = append(records, models.AuditRecord{
			RecordID:       row.RecordID,
			TradeID:        row.TradeID,
			SourceInstant:  row.SourceInstant.UTC(),
			SourceTimezone: row.SourceTimezone,
			ResultDate:     resultDate,
			TargetTimezone: row.TargetTimezone,
			Resolution:     models.ResolutionMethod(row.Resolution),
			CalculatedAt:   row.CalculatedAt.UTC(),
		})
	}
	return records, nil
}
