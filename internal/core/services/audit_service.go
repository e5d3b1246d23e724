package services

import (
	"context"
	"fmt"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/adapters/persistence/repositories"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/pkg/pagination"
)

// recordAudit appends an audit entry through tx, so it commits or rolls back
// together with the mutation it describes
func recordAudit(ctx context.Context, tx *repositories.Store, orgID string, actor domain.Actor, entityType, entityID, action, description string) error {
	entry := &models.AuditEntry{
		OrganizationID: orgID,
		EntityType:     entityType,
		EntityID:       entityID,
		Action:         action,
		Description:    description,
		PerformedBy:    actor.UserID,
		IPAddress:      actor.IPAddress,
	}
	if err := tx.Audit.Create(ctx, entry); err != nil {
		return fmt.Errorf("record audit %s %s: %w", entityType, action, err)
	}
	return nil
}

// notFoundAs maps a missing row to sentinel and passes other errors through
func notFoundAs(err, sentinel error) error {
	if repositories.IsNotFound(err) {
		return sentinel
	}
	return err
}

// AuditService exposes the governance audit trail
type AuditService struct {
	store *repositories.Store
}

// NewAuditService creates a new audit service
func NewAuditService(store *repositories.Store) *AuditService {
	return &AuditService{store: store}
}

// ListAuditInput represents list audit input
type ListAuditInput struct {
	EntityType string
	EntityID   string
	Page       int
	Limit      int
}

// ListAuditOutput represents list audit output
type ListAuditOutput struct {
	Entries []*models.AuditEntry `json:"entries"`
	pagination.Meta
}

// List lists audit entries of an organization, newest first
func (s *AuditService) List(ctx context.Context, orgID string, input *ListAuditInput) (*ListAuditOutput, error) {
	if orgID == "" {
		return nil, domain.ErrOrganizationRequired
	}

	params := pagination.New(input.Page, input.Limit)
	entries, total, err := s.store.Audit.List(ctx, orgID, input.EntityType, input.EntityID, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	return &ListAuditOutput{
		Entries: entries,
		Meta:    pagination.GetMeta(params, total),
	}, nil
}
