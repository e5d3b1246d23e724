package repositories

import (
	"context"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/core/domain"

	"gorm.io/gorm"
)

// MemberLinkRepository handles decision-member link data access
type MemberLinkRepository struct {
	db *gorm.DB
}

// NewMemberLinkRepository creates a new member link repository
func NewMemberLinkRepository(db *gorm.DB) *MemberLinkRepository {
	return &MemberLinkRepository{db: db}
}

// Create creates a new link
func (r *MemberLinkRepository) Create(ctx context.Context, link *models.MemberLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// GetByID gets a link inside an organization
func (r *MemberLinkRepository) GetByID(ctx context.Context, orgID, id string) (*models.MemberLink, error) {
	var link models.MemberLink
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Find gets the link of the given type between a decision and a member,
// with its decision loaded
func (r *MemberLinkRepository) Find(ctx context.Context, orgID, decisionID, memberID string, linkType domain.LinkType) (*models.MemberLink, error) {
	var link models.MemberLink
	err := r.db.WithContext(ctx).
		Preload("Decision").
		Where("organization_id = ? AND decision_id = ? AND member_id = ? AND link_type = ?",
			orgID, decisionID, memberID, linkType).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListByDecision lists the links of a decision in creation order
func (r *MemberLinkRepository) ListByDecision(ctx context.Context, orgID, decisionID string) ([]*models.MemberLink, error) {
	var links []*models.MemberLink
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("organization_id = ? AND decision_id = ?", orgID, decisionID).
		Order("created_at ASC, id ASC").
		Find(&links).Error
	return links, err
}

// ListByMember lists the links of a member in creation order, with decisions
func (r *MemberLinkRepository) ListByMember(ctx context.Context, orgID, memberID string) ([]*models.MemberLink, error) {
	var links []*models.MemberLink
	err := r.db.WithContext(ctx).
		Preload("Decision").
		Where("organization_id = ? AND member_id = ?", orgID, memberID).
		Order("created_at ASC, id ASC").
		Find(&links).Error
	return links, err
}

// Delete deletes a link
func (r *MemberLinkRepository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.MemberLink{}).Error
}

// DeleteByDecision deletes every link of a decision
func (r *MemberLinkRepository) DeleteByDecision(ctx context.Context, orgID, decisionID string) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND decision_id = ?", orgID, decisionID).
		Delete(&models.MemberLink{}).Error
}
