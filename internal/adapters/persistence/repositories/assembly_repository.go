package repositories

import (
	"context"
	"time"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/core/domain"

	"gorm.io/gorm"
)

// AssemblyRepository handles general assembly data access
type AssemblyRepository struct {
	db *gorm.DB
}

// NewAssemblyRepository creates a new assembly repository
func NewAssemblyRepository(db *gorm.DB) *AssemblyRepository {
	return &AssemblyRepository{db: db}
}

// Create creates an assembly together with its agenda items
func (r *AssemblyRepository) Create(ctx context.Context, assembly *models.Assembly) error {
	return r.db.WithContext(ctx).Create(assembly).Error
}

// GetByID gets an assembly with its agenda in position order
func (r *AssemblyRepository) GetByID(ctx context.Context, orgID, id string) (*models.Assembly, error) {
	var assembly models.Assembly
	err := r.db.WithContext(ctx).
		Preload("Agenda", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&assembly).Error
	if err != nil {
		return nil, err
	}
	return &assembly, nil
}

// GetForUpdate gets an assembly row (without agenda) and locks it
func (r *AssemblyRepository) GetForUpdate(ctx context.Context, orgID, id string) (*models.Assembly, error) {
	var assembly models.Assembly
	err := forUpdate(r.db.WithContext(ctx)).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&assembly).Error
	if err != nil {
		return nil, err
	}
	return &assembly, nil
}

// Exists checks if an assembly exists inside an organization
func (r *AssemblyRepository) Exists(ctx context.Context, orgID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Assembly{}).
		Where("organization_id = ? AND id = ?", orgID, id).
		Count(&count).Error
	return count > 0, err
}

// List lists assemblies, latest date first, optionally by status
func (r *AssemblyRepository) List(ctx context.Context, orgID string, status domain.AssemblyStatus, offset, limit int) ([]*models.Assembly, int64, error) {
	var assemblies []*models.Assembly
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Assembly{}).Where("organization_id = ?", orgID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("date DESC, number DESC").
		Offset(offset).
		Limit(limit).
		Find(&assemblies).Error
	return assemblies, total, err
}

// UpdateIn applies updates only while the assembly is in one of statuses.
// It reports false when no row matched.
func (r *AssemblyRepository) UpdateIn(ctx context.Context, orgID, id string, statuses []domain.AssemblyStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Assembly{}).
		Where("organization_id = ? AND id = ? AND status IN ?", orgID, id, statuses).
		Updates(updates)
	return result.RowsAffected > 0, result.Error
}

// Delete deletes an assembly with its agenda, attendees and proxies.
// Call it inside a transaction.
func (r *AssemblyRepository) Delete(ctx context.Context, orgID, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("assembly_id = ?", id).Delete(&models.AgendaItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("organization_id = ? AND assembly_id = ?", orgID, id).Delete(&models.Attendee{}).Error; err != nil {
		return err
	}
	if err := db.Where("organization_id = ? AND assembly_id = ?", orgID, id).Delete(&models.Proxy{}).Error; err != nil {
		return err
	}
	return db.Where("organization_id = ? AND id = ?", orgID, id).Delete(&models.Assembly{}).Error
}

// ListPlannedBefore lists PLANNED assemblies of every organization whose date
// is before t
func (r *AssemblyRepository) ListPlannedBefore(ctx context.Context, t time.Time) ([]*models.Assembly, error) {
	var assemblies []*models.Assembly
	err := r.db.WithContext(ctx).
		Where("status = ? AND date < ?", domain.AssemblyPlanned, t).
		Order("organization_id ASC, date ASC").
		Find(&assemblies).Error
	return assemblies, err
}
