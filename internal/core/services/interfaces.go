package services

import (
	"context"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/core/domain"
)

// Note: implementations live next to their inputs, one file per component.
// Handlers depend on these interfaces only.

// DecisionLedger defines board decision and member link operations
type DecisionLedger interface {
	CreateDraft(ctx context.Context, orgID string, actor domain.Actor, input *CreateDecisionInput) (*models.Decision, error)
	UpdateDraft(ctx context.Context, orgID string, actor domain.Actor, id string, input *UpdateDecisionInput) (*models.Decision, error)
	Finalize(ctx context.Context, orgID string, actor domain.Actor, id string, links []LinkInput) (*models.Decision, error)
	Delete(ctx context.Context, orgID string, actor domain.Actor, id string) error
	Get(ctx context.Context, orgID, id string) (*models.Decision, error)
	List(ctx context.Context, orgID string, input *ListDecisionsInput) (*ListDecisionsOutput, error)

	Link(ctx context.Context, orgID string, actor domain.Actor, decisionID, memberID string, linkType domain.LinkType) (*models.MemberLink, error)
	Unlink(ctx context.Context, orgID string, actor domain.Actor, decisionID, linkID string) error
	ListForDecision(ctx context.Context, orgID, decisionID string) ([]*models.MemberLink, error)
	ListForMember(ctx context.Context, orgID, memberID string) ([]*models.MemberLink, error)
}

// MembershipLifecycle defines member registration and status transitions
type MembershipLifecycle interface {
	Register(ctx context.Context, orgID string, actor domain.Actor, input *RegisterMemberInput) (*models.Member, error)
	Get(ctx context.Context, orgID, id string) (*models.Member, error)
	List(ctx context.Context, orgID string, input *ListMembersInput) (*ListMembersOutput, error)

	RequestResignation(ctx context.Context, orgID string, actor domain.Actor, memberID, reason string) (*models.Member, error)
	WithdrawResignation(ctx context.Context, orgID string, actor domain.Actor, memberID string) (*models.Member, error)
	ConfirmResignation(ctx context.Context, orgID string, actor domain.Actor, memberID, decisionID string) (*models.Member, error)
	ConfirmAdmission(ctx context.Context, orgID string, actor domain.Actor, memberID, decisionID string) (*models.Member, error)
	ConfirmExpulsion(ctx context.Context, orgID string, actor domain.Actor, memberID, decisionID string) (*models.Member, error)

	ListResignations(ctx context.Context, orgID string, input *ListMembersInput) (*ListResignationsOutput, error)
	ResignationDetail(ctx context.Context, orgID, memberID string) (*ResignationDetailOutput, error)
}

// AssemblyRegistry defines general assembly operations
type AssemblyRegistry interface {
	Create(ctx context.Context, orgID string, actor domain.Actor, input *CreateAssemblyInput) (*models.Assembly, error)
	Update(ctx context.Context, orgID string, actor domain.Actor, id string, input *UpdateAssemblyInput) (*models.Assembly, error)
	AdvanceStatus(ctx context.Context, orgID string, actor domain.Actor, id string, target domain.AssemblyStatus) (*models.Assembly, error)
	Delete(ctx context.Context, orgID string, actor domain.Actor, id string) error
	Get(ctx context.Context, orgID, id string) (*models.Assembly, error)
	List(ctx context.Context, orgID string, input *ListAssembliesInput) (*ListAssembliesOutput, error)
	Quorum(ctx context.Context, orgID, id string) (*domain.Quorum, error)
}

// AssemblyRoster defines attendee and proxy operations
type AssemblyRoster interface {
	CheckIn(ctx context.Context, orgID string, actor domain.Actor, assemblyID, memberID string, attendType domain.AttendType) (*models.Attendee, error)
	ToggleSignature(ctx context.Context, orgID string, actor domain.Actor, assemblyID, attendeeID string, signed bool) (*models.Attendee, error)
	RemoveAttendee(ctx context.Context, orgID string, actor domain.Actor, assemblyID, attendeeID string) error
	ListAttendees(ctx context.Context, orgID, assemblyID string) ([]*models.Attendee, error)

	GrantProxy(ctx context.Context, orgID string, actor domain.Actor, assemblyID string, input *GrantProxyInput) (*models.Proxy, error)
	SetApproval(ctx context.Context, orgID string, actor domain.Actor, assemblyID, proxyID string, approved bool) (*models.Proxy, error)
	RemoveProxy(ctx context.Context, orgID string, actor domain.Actor, assemblyID, proxyID string) error
	ListProxies(ctx context.Context, orgID, assemblyID string) ([]*models.Proxy, error)
}

// AuditTrail defines audit listing
type AuditTrail interface {
	List(ctx context.Context, orgID string, input *ListAuditInput) (*ListAuditOutput, error)
}

var (
	_ DecisionLedger      = (*DecisionService)(nil)
	_ MembershipLifecycle = (*MembershipService)(nil)
	_ AssemblyRegistry    = (*AssemblyService)(nil)
	_ AssemblyRoster      = (*RosterService)(nil)
	_ AuditTrail          = (*AuditService)(nil)
)
