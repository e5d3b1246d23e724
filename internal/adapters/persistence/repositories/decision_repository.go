package repositories

import (
	"context"
	"time"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/core/domain"

	"gorm.io/gorm"
)

// DecisionRepository handles board decision data access
type DecisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Create creates a new decision
func (r *DecisionRepository) Create(ctx context.Context, decision *models.Decision) error {
	return r.db.WithContext(ctx).Create(decision).Error
}

// GetByID gets a decision inside an organization
func (r *DecisionRepository) GetByID(ctx context.Context, orgID, id string) (*models.Decision, error) {
	var decision models.Decision
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&decision).Error
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// GetWithLinks gets a decision with its member links and their members
func (r *DecisionRepository) GetWithLinks(ctx context.Context, orgID, id string) (*models.Decision, error) {
	var decision models.Decision
	err := r.db.WithContext(ctx).
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Links.Member").
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&decision).Error
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// GetForUpdate gets a decision and locks the row until the transaction ends
func (r *DecisionRepository) GetForUpdate(ctx context.Context, orgID, id string) (*models.Decision, error) {
	var decision models.Decision
	err := forUpdate(r.db.WithContext(ctx)).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&decision).Error
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// List lists decisions, newest first, optionally by status
func (r *DecisionRepository) List(ctx context.Context, orgID string, status domain.DecisionStatus, offset, limit int) ([]*models.Decision, int64, error) {
	var decisions []*models.Decision
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Decision{}).Where("organization_id = ?", orgID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("decision_date DESC, number DESC").
		Offset(offset).
		Limit(limit).
		Find(&decisions).Error
	return decisions, total, err
}

// UpdateDraft applies updates only while the decision is a draft.
// It reports false when no draft row matched.
func (r *DecisionRepository) UpdateDraft(ctx context.Context, orgID, id string, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Decision{}).
		Where("organization_id = ? AND id = ? AND status = ?", orgID, id, domain.DecisionDraft).
		Updates(updates)
	return result.RowsAffected > 0, result.Error
}

// Finalize moves a draft to FINALIZED. It reports false when the decision
// was not a draft anymore (or does not exist).
func (r *DecisionRepository) Finalize(ctx context.Context, orgID, id string, at time.Time) (bool, error) {
	return r.UpdateDraft(ctx, orgID, id, map[string]interface{}{
		"status":       domain.DecisionFinalized,
		"finalized_at": at,
	})
}

// DeleteDraft deletes a decision only while it is a draft
func (r *DecisionRepository) DeleteDraft(ctx context.Context, orgID, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ? AND status = ?", orgID, id, domain.DecisionDraft).
		Delete(&models.Decision{})
	return result.RowsAffected > 0, result.Error
}
