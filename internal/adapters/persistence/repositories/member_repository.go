package repositories

import (
	"context"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/pkg/textsearch"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create inserts a member
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member inside an organization
func (r *memberRepository) GetByID(ctx context.Context, orgID, id string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetForUpdate gets a member and locks the row until the transaction ends
func (r *memberRepository) GetForUpdate(ctx context.Context, orgID, id string) (*models.Member, error) {
	var member models.Member
	err := forUpdate(r.db.WithContext(ctx)).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Exists checks if a member exists inside an organization
func (r *memberRepository) Exists(ctx context.Context, orgID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("organization_id = ? AND id = ?", orgID, id).
		Count(&count).Error
	return count > 0, err
}

// List lists members with optional status and search filters
func (r *memberRepository) List(ctx context.Context, orgID string, filter MemberFilter, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Member{}).Where("organization_id = ?", orgID)
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if search := textsearch.Fold(filter.Search); search != "" {
		query = query.Where("search_key LIKE ? ESCAPE '"+textsearch.LikeEscape+"'", textsearch.LikePattern(search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("last_name ASC, first_name ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error
	return members, total, err
}

// CountByStatus counts members per status. Every requested status is present
// in the result, with zero when no member has it.
func (r *memberRepository) CountByStatus(ctx context.Context, orgID string, statuses []domain.MemberStatus) (map[domain.MemberStatus]int64, error) {
	var rows []struct {
		Status domain.MemberStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Select("status, COUNT(*) AS total").
		Where("organization_id = ? AND status IN ?", orgID, statuses).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.MemberStatus]int64, len(statuses))
	for _, s := range statuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountPerOrganization counts members in status for every organization that has any
func (r *memberRepository) CountPerOrganization(ctx context.Context, status domain.MemberStatus) (map[string]int64, error) {
	var rows []struct {
		OrganizationID string
		Total          int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Select("organization_id, COUNT(*) AS total").
		Where("status = ?", status).
		Group("organization_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.OrganizationID] = row.Total
	}
	return counts, nil
}

// UpdateStatus applies updates only while the member is still in status from.
// It reports false when no row matched.
func (r *memberRepository) UpdateStatus(ctx context.Context, orgID, id string, from domain.MemberStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("organization_id = ? AND id = ? AND status = ?", orgID, id, from).
		Updates(updates)
	return result.RowsAffected > 0, result.Error
}
