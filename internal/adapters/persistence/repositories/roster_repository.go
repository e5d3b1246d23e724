package repositories

import (
	"context"
	"time"

	"kamulog-stk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ============================================================
// Attendees (hazirun)
// ============================================================

// AttendeeRepository handles assembly attendee data access
type AttendeeRepository struct {
	db *gorm.DB
}

// NewAttendeeRepository creates a new attendee repository
func NewAttendeeRepository(db *gorm.DB) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// Create checks a member in
func (r *AttendeeRepository) Create(ctx context.Context, attendee *models.Attendee) error {
	return r.db.WithContext(ctx).Create(attendee).Error
}

// GetByID gets an attendee of an assembly, with its member
func (r *AttendeeRepository) GetByID(ctx context.Context, orgID, assemblyID, id string) (*models.Attendee, error) {
	var attendee models.Attendee
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("organization_id = ? AND assembly_id = ? AND id = ?", orgID, assemblyID, id).
		First(&attendee).Error
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

// ListByAssembly lists attendees in check-in order
func (r *AttendeeRepository) ListByAssembly(ctx context.Context, orgID, assemblyID string) ([]*models.Attendee, error) {
	var attendees []*models.Attendee
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("organization_id = ? AND assembly_id = ?", orgID, assemblyID).
		Order("checked_in_at ASC, id ASC").
		Find(&attendees).Error
	return attendees, err
}

// ExistsMember checks whether a member is checked in to an assembly
func (r *AttendeeRepository) ExistsMember(ctx context.Context, orgID, assemblyID, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attendee{}).
		Where("organization_id = ? AND assembly_id = ? AND member_id = ?", orgID, assemblyID, memberID).
		Count(&count).Error
	return count > 0, err
}

// SetSigned sets the signature flag of an attendee
func (r *AttendeeRepository) SetSigned(ctx context.Context, orgID, id string, signed bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Attendee{}).
		Where("organization_id = ? AND id = ?", orgID, id).
		Update("signed", signed).Error
}

// Delete deletes an attendee
func (r *AttendeeRepository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.Attendee{}).Error
}

// ============================================================
// Proxies (vekalet)
// ============================================================

// ProxyRepository handles assembly proxy data access
type ProxyRepository struct {
	db *gorm.DB
}

// NewProxyRepository creates a new proxy repository
func NewProxyRepository(db *gorm.DB) *ProxyRepository {
	return &ProxyRepository{db: db}
}

// Create records a proxy
func (r *ProxyRepository) Create(ctx context.Context, proxy *models.Proxy) error {
	return r.db.WithContext(ctx).Create(proxy).Error
}

// GetByID gets a proxy of an assembly, with giver and receiver
func (r *ProxyRepository) GetByID(ctx context.Context, orgID, assemblyID, id string) (*models.Proxy, error) {
	var proxy models.Proxy
	err := r.db.WithContext(ctx).
		Preload("Giver").
		Preload("Receiver").
		Where("organization_id = ? AND assembly_id = ? AND id = ?", orgID, assemblyID, id).
		First(&proxy).Error
	if err != nil {
		return nil, err
	}
	return &proxy, nil
}

// ListByAssembly lists proxies in creation order
func (r *ProxyRepository) ListByAssembly(ctx context.Context, orgID, assemblyID string) ([]*models.Proxy, error) {
	var proxies []*models.Proxy
	err := r.db.WithContext(ctx).
		Preload("Giver").
		Preload("Receiver").
		Where("organization_id = ? AND assembly_id = ?", orgID, assemblyID).
		Order("created_at ASC, id ASC").
		Find(&proxies).Error
	return proxies, err
}

// ExistsGiver checks whether a member has granted a proxy for an assembly
func (r *ProxyRepository) ExistsGiver(ctx context.Context, orgID, assemblyID, giverID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Proxy{}).
		Where("organization_id = ? AND assembly_id = ? AND giver_id = ?", orgID, assemblyID, giverID).
		Count(&count).Error
	return count > 0, err
}

// CountByReceiver counts proxies held by a receiver for an assembly
func (r *ProxyRepository) CountByReceiver(ctx context.Context, orgID, assemblyID, receiverID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Proxy{}).
		Where("organization_id = ? AND assembly_id = ? AND receiver_id = ?", orgID, assemblyID, receiverID).
		Count(&count).Error
	return count, err
}

// SetApproval sets or clears the approval of a proxy
func (r *ProxyRepository) SetApproval(ctx context.Context, orgID, id string, approved bool, at time.Time) error {
	updates := map[string]interface{}{
		"approved":    approved,
		"approved_at": nil,
	}
	if approved {
		updates["approved_at"] = at
	}
	return r.db.WithContext(ctx).
		Model(&models.Proxy{}).
		Where("organization_id = ? AND id = ?", orgID, id).
		Updates(updates).Error
}

// Delete deletes a proxy
func (r *ProxyRepository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.Proxy{}).Error
}
