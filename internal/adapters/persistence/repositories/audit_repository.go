package repositories

import (
	"context"

	"kamulog-stk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// AuditRepository handles governance audit trail data access
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List lists audit entries, newest first, optionally for one entity
func (r *AuditRepository) List(ctx context.Context, orgID, entityType, entityID string, offset, limit int) ([]*models.AuditEntry, int64, error) {
	var entries []*models.AuditEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AuditEntry{}).Where("organization_id = ?", orgID)
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}
