package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/adapters/persistence/repositories"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/pkg/metrics"
	"kamulog-stk/internal/pkg/pagination"
)

// resignationStatuses are the statuses listed on the resignation screen
var resignationStatuses = []domain.MemberStatus{domain.MemberResignationReq, domain.MemberResigned}

// MembershipService moves members through their lifecycle. Every move that
// carries legal effect requires a FINALIZED decision linked to the member.
type MembershipService struct {
	store   *repositories.Store
	metrics *metrics.Metrics
}

// NewMembershipService creates a new membership service
func NewMembershipService(store *repositories.Store, m *metrics.Metrics) *MembershipService {
	return &MembershipService{
		store:   store,
		metrics: m,
	}
}

// RegisterMemberInput represents register member input
type RegisterMemberInput struct {
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	MemberNumber string              `json:"member_number"`
	Status       domain.MemberStatus `json:"status"`
}

// ListMembersInput represents list members input
type ListMembersInput struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// ListMembersOutput represents list members output
type ListMembersOutput struct {
	Members []*models.MemberResponse `json:"members"`
	pagination.Meta
}

// ListResignationsOutput represents the resignation screen: the page of
// members plus the per-status totals of the whole organization
type ListResignationsOutput struct {
	Members []*models.MemberResponse      `json:"members"`
	Counts  map[domain.MemberStatus]int64 `json:"counts"`
	pagination.Meta
}

// ResignationDetailOutput is a member with its decision links
type ResignationDetailOutput struct {
	Member *models.MemberResponse `json:"member"`
	Links  []*models.MemberLink   `json:"links"`
}

// Register adds a member to the roster as PENDING (default) or ACTIVE
func (s *MembershipService) Register(ctx context.Context, orgID string, actor domain.Actor, input *RegisterMemberInput) (*models.Member, error) {
	if orgID == "" {
		return nil, domain.ErrOrganizationRequired
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, domain.ErrMemberNameRequired
	}

	status := input.Status
	if status == "" {
		status = domain.MemberPending
	}
	if status != domain.MemberPending && status != domain.MemberActive {
		return nil, fmt.Errorf("%w (%q, new members are PENDING or ACTIVE)", domain.ErrInvalidMemberStatus, input.Status)
	}

	member := &models.Member{
		OrganizationID: orgID,
		FirstName:      firstName,
		LastName:       lastName,
		Status:         status,
	}
	if number := strings.TrimSpace(input.MemberNumber); number != "" {
		member.MemberNumber = &number
	}
	if status == domain.MemberActive {
		now := time.Now().UTC()
		member.JoinedAt = &now
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Members.Create(ctx, member); err != nil {
			if repositories.IsDuplicateKey(err) {
				return fmt.Errorf("%w (%s)", domain.ErrMemberNumberExists, input.MemberNumber)
			}
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityMember, member.ID, domain.ActionCreate,
			fmt.Sprintf("üye kaydı: %s (%s)", member.FullName(), status))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityMember, domain.ActionCreate)
	return s.Get(ctx, orgID, member.ID)
}

// Get gets a member
func (s *MembershipService) Get(ctx context.Context, orgID, id string) (*models.Member, error) {
	member, err := s.store.Members.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrMemberNotFound)
	}
	return member, nil
}

// List lists members, optionally by status and a name/number search
func (s *MembershipService) List(ctx context.Context, orgID string, input *ListMembersInput) (*ListMembersOutput, error) {
	if orgID == "" {
		return nil, domain.ErrOrganizationRequired
	}

	filter := repositories.MemberFilter{Search: input.Search}
	if input.Status != "" {
		status := domain.MemberStatus(strings.ToUpper(input.Status))
		if !status.Valid() {
			return nil, fmt.Errorf("%w (%q)", domain.ErrInvalidMemberStatus, input.Status)
		}
		filter.Statuses = []domain.MemberStatus{status}
	}

	params := pagination.New(input.Page, input.Limit)
	members, total, err := s.store.Members.List(ctx, orgID, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	return &ListMembersOutput{
		Members: toMemberResponses(members),
		Meta:    pagination.GetMeta(params, total),
	}, nil
}

// RequestResignation records a member's resignation request (istifa talebi)
func (s *MembershipService) RequestResignation(ctx context.Context, orgID string, actor domain.Actor, memberID, reason string) (*models.Member, error) {
	return s.transition(ctx, orgID, actor, memberID, memberMove{
		from:   []domain.MemberStatus{domain.MemberActive, domain.MemberPassive},
		target: domain.MemberResignationReq,
		apply: func(updates map[string]interface{}, now time.Time) {
			updates["resignation_reason"] = strings.TrimSpace(reason)
			updates["resignation_requested_at"] = now
		},
	})
}

// WithdrawResignation cancels a pending resignation request
func (s *MembershipService) WithdrawResignation(ctx context.Context, orgID string, actor domain.Actor, memberID string) (*models.Member, error) {
	return s.transition(ctx, orgID, actor, memberID, memberMove{
		from:   []domain.MemberStatus{domain.MemberResignationReq},
		target: domain.MemberActive,
		apply: func(updates map[string]interface{}, _ time.Time) {
			updates["resignation_reason"] = ""
			updates["resignation_requested_at"] = nil
		},
	})
}

// ConfirmResignation ends the membership of a member who asked to resign,
// backed by a FINALIZED decision with a RESIGNATION_ACCEPT link
func (s *MembershipService) ConfirmResignation(ctx context.Context, orgID string, actor domain.Actor, memberID, decisionID string) (*models.Member, error) {
	return s.transition(ctx, orgID, actor, memberID, memberMove{
		from:       []domain.MemberStatus{domain.MemberResignationReq},
		target:     domain.MemberResigned,
		decisionID: decisionID,
		apply: func(updates map[string]interface{}, now time.Time) {
			updates["left_at"] = now
		},
	})
}

// ConfirmAdmission activates a PENDING member, backed by a FINALIZED decision
// with a MEMBERSHIP_ACCEPT link
func (s *MembershipService) ConfirmAdmission(ctx context.Context, orgID string, actor domain.Actor, memberID, decisionID string) (*models.Member, error) {
	return s.transition(ctx, orgID, actor, memberID, memberMove{
		from:       []domain.MemberStatus{domain.MemberPending},
		target:     domain.MemberActive,
		decisionID: decisionID,
		apply: func(updates map[string]interface{}, now time.Time) {
			updates["joined_at"] = now
		},
	})
}

// ConfirmExpulsion expels a member, backed by a FINALIZED decision with an
// EXPULSION link
func (s *MembershipService) ConfirmExpulsion(ctx context.Context, orgID string, actor domain.Actor, memberID, decisionID string) (*models.Member, error) {
	return s.transition(ctx, orgID, actor, memberID, memberMove{
		from:       []domain.MemberStatus{domain.MemberActive, domain.MemberPassive, domain.MemberResignationReq},
		target:     domain.MemberExpelled,
		decisionID: decisionID,
		apply: func(updates map[string]interface{}, now time.Time) {
			updates["left_at"] = now
		},
	})
}

// ListResignations lists members with a pending or confirmed resignation
func (s *MembershipService) ListResignations(ctx context.Context, orgID string, input *ListMembersInput) (*ListResignationsOutput, error) {
	if orgID == "" {
		return nil, domain.ErrOrganizationRequired
	}

	filter := repositories.MemberFilter{Statuses: resignationStatuses, Search: input.Search}
	if input.Status != "" {
		status := domain.MemberStatus(strings.ToUpper(input.Status))
		if !slices.Contains(resignationStatuses, status) {
			return nil, fmt.Errorf("%w (%q, use RESIGNATION_REQ or RESIGNED)", domain.ErrInvalidMemberStatus, input.Status)
		}
		filter.Statuses = []domain.MemberStatus{status}
	}

	params := pagination.New(input.Page, input.Limit)
	members, total, err := s.store.Members.List(ctx, orgID, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Members.CountByStatus(ctx, orgID, resignationStatuses)
	if err != nil {
		return nil, err
	}

	return &ListResignationsOutput{
		Members: toMemberResponses(members),
		Counts:  counts,
		Meta:    pagination.GetMeta(params, total),
	}, nil
}

// ResignationDetail returns a member with every decision linked to it
func (s *MembershipService) ResignationDetail(ctx context.Context, orgID, memberID string) (*ResignationDetailOutput, error) {
	member, err := s.Get(ctx, orgID, memberID)
	if err != nil {
		return nil, err
	}
	links, err := s.store.Links.ListByMember(ctx, orgID, memberID)
	if err != nil {
		return nil, err
	}

	return &ResignationDetailOutput{
		Member: member.ToResponse(),
		Links:  links,
	}, nil
}

// memberMove describes one lifecycle operation
type memberMove struct {
	from       []domain.MemberStatus
	target     domain.MemberStatus
	decisionID string
	apply      func(updates map[string]interface{}, now time.Time)
}

// transition locks the member, checks the move against the transition table
// and its decision gate, then applies it with a conditional update
func (s *MembershipService) transition(ctx context.Context, orgID string, actor domain.Actor, memberID string, move memberMove) (*models.Member, error) {
	var linkType domain.LinkType
	gated := false
	for _, from := range move.from {
		if linkType, gated = from.RequiredLink(move.target); gated {
			break
		}
	}
	if gated && strings.TrimSpace(move.decisionID) == "" {
		return nil, domain.ErrDecisionIDRequired
	}

	var from domain.MemberStatus
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		member, err := tx.Members.GetForUpdate(ctx, orgID, memberID)
		if err != nil {
			return notFoundAs(err, domain.ErrMemberNotFound)
		}
		from = member.Status
		if !slices.Contains(move.from, from) || !from.CanTransition(move.target) {
			return fmt.Errorf("%w (member %s: %s -> %s)", domain.ErrMemberTransition, memberID, from, move.target)
		}

		if lt, ok := from.RequiredLink(move.target); ok {
			if err := requireFinalizedLink(ctx, tx, orgID, move.decisionID, memberID, lt); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{"status": move.target}
		if move.apply != nil {
			move.apply(updates, now)
		}

		ok, err := tx.Members.UpdateStatus(ctx, orgID, memberID, from, updates)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w (member %s changed concurrently)", domain.ErrMemberTransition, memberID)
		}

		description := fmt.Sprintf("%s -> %s", from, move.target)
		if gated {
			description += fmt.Sprintf(" (karar %s, %s)", move.decisionID, linkType)
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityMember, memberID, domain.ActionStatusChange, description)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityMember, domain.ActionStatusChange)
	return s.Get(ctx, orgID, memberID)
}

// requireFinalizedLink fails with a precondition error unless the decision
// is linked to the member with linkType and is FINALIZED
func requireFinalizedLink(ctx context.Context, tx *repositories.Store, orgID, decisionID, memberID string, linkType domain.LinkType) error {
	link, err := tx.Links.Find(ctx, orgID, decisionID, memberID, linkType)
	if repositories.IsNotFound(err) {
		return fmt.Errorf("%w (decision %s, member %s, required link %s)", domain.ErrDecisionLinkMissing, decisionID, memberID, linkType)
	}
	if err != nil {
		return err
	}
	if link.Decision == nil || !link.Decision.IsFinalized() {
		return fmt.Errorf("%w (decision %s, member %s, required link %s)", domain.ErrDecisionNotFinalized, decisionID, memberID, linkType)
	}
	return nil
}

func toMemberResponses(members []*models.Member) []*models.MemberResponse {
	responses := make([]*models.MemberResponse, len(members))
	for i, m := range members {
		responses[i] = m.ToResponse()
	}
	return responses
}
