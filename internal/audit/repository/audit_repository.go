package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// AuditRecord one append-only audit row; rows are never updated or deleted
type AuditRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Action     string    `gorm:"size:64;index" json:"action"`
	ShipmentID string    `gorm:"size:64;index" json:"shipment_id"`
	ActorID    string    `gorm:"size:64;index" json:"actor_id"`
	Details    string    `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName fixed table name for the audit trail
func (AuditRecord) TableName() string {
	return "audit_records"
}

// AuditRepository append-only audit persistence
type AuditRepository interface {
	Create(ctx context.Context, record *AuditRecord) error
	FindByShipment(ctx context.Context, shipmentID string, limit int) ([]AuditRecord, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository create an AuditRepository and migrate its table
func NewAuditRepository(db *gorm.DB) (AuditRepository, error) {
	if err := db.AutoMigrate(&AuditRecord{}); err != nil {
		return nil, err
	}
	return &auditRepository{db: db}, nil
}

func (r *auditRepository) Create(ctx context.Context, record *AuditRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *auditRepository) FindByShipment(ctx context.Context, shipmentID string, limit int) ([]AuditRecord, error) {
	var records []AuditRecord
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
