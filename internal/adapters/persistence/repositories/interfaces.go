package repositories

import (
	"context"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/core/domain"
)

// MemberFilter narrows member listings
type MemberFilter struct {
	Statuses []domain.MemberStatus
	Search   string
}

// MemberRepository defines member repository interface.
// The members table is shared with the wider admin app; this service only
// registers members and moves them through governance statuses.
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, orgID, id string) (*models.Member, error)
	GetForUpdate(ctx context.Context, orgID, id string) (*models.Member, error)
	Exists(ctx context.Context, orgID, id string) (bool, error)
	List(ctx context.Context, orgID string, filter MemberFilter, offset, limit int) ([]*models.Member, int64, error)
	CountByStatus(ctx context.Context, orgID string, statuses []domain.MemberStatus) (map[domain.MemberStatus]int64, error)
	CountPerOrganization(ctx context.Context, status domain.MemberStatus) (map[string]int64, error)
	UpdateStatus(ctx context.Context, orgID, id string, from domain.MemberStatus, updates map[string]interface{}) (bool, error)
}
