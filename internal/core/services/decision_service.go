package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/adapters/persistence/repositories"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/pkg/metrics"
	"kamulog-stk/internal/pkg/pagination"
)

// DecisionService keeps the board decision ledger and the links from
// decisions to members
type DecisionService struct {
	store   *repositories.Store
	metrics *metrics.Metrics
}

// NewDecisionService creates a new decision service
func NewDecisionService(store *repositories.Store, m *metrics.Metrics) *DecisionService {
	return &DecisionService{
		store:   store,
		metrics: m,
	}
}

// CreateDecisionInput represents create decision input
type CreateDecisionInput struct {
	Number       string
	DecisionDate time.Time
	Subject      string
	Content      string
	Description  string
}

// UpdateDecisionInput represents update decision input. Nil fields are left
// unchanged; the number cannot be changed.
type UpdateDecisionInput struct {
	DecisionDate *time.Time
	Subject      *string
	Content      *string
	Description  *string
}

// LinkInput names a member and the meaning of its link to a decision
type LinkInput struct {
	MemberID string          `json:"member_id"`
	LinkType domain.LinkType `json:"link_type"`
}

// ListDecisionsInput represents list decisions input
type ListDecisionsInput struct {
	Status string
	Page   int
	Limit  int
}

// ListDecisionsOutput represents list decisions output
type ListDecisionsOutput struct {
	Decisions []*models.Decision `json:"decisions"`
	pagination.Meta
}

// CreateDraft records a new DRAFT decision
func (s *DecisionService) CreateDraft(ctx context.Context, orgID string, actor domain.Actor, input *CreateDecisionInput) (*models.Decision, error) {
	if orgID == "" {
		return nil, domain.ErrOrganizationRequired
	}
	number := strings.TrimSpace(input.Number)
	subject := strings.TrimSpace(input.Subject)
	switch {
	case number == "":
		return nil, domain.ErrDecisionNumberRequired
	case subject == "":
		return nil, domain.ErrDecisionSubjectRequired
	case input.DecisionDate.IsZero():
		return nil, domain.ErrDecisionDateRequired
	}

	decision := &models.Decision{
		OrganizationID: orgID,
		Number:         number,
		DecisionDate:   dateOnly(input.DecisionDate),
		Subject:        subject,
		Content:        input.Content,
		Description:    input.Description,
		Status:         domain.DecisionDraft,
		CreatedBy:      actor.UserID,
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Decisions.Create(ctx, decision); err != nil {
			if repositories.IsDuplicateKey(err) {
				return fmt.Errorf("%w (number %s)", domain.ErrDecisionNumberExists, number)
			}
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityDecision, decision.ID, domain.ActionCreate,
			fmt.Sprintf("karar %s taslak olarak oluşturuldu: %s", number, subject))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityDecision, domain.ActionCreate)
	return s.Get(ctx, orgID, decision.ID)
}

// UpdateDraft changes the editable fields of a DRAFT decision
func (s *DecisionService) UpdateDraft(ctx context.Context, orgID string, actor domain.Actor, id string, input *UpdateDecisionInput) (*models.Decision, error) {
	updates := map[string]interface{}{}
	if input.DecisionDate != nil {
		if input.DecisionDate.IsZero() {
			return nil, domain.ErrDecisionDateRequired
		}
		updates["decision_date"] = dateOnly(*input.DecisionDate)
	}
	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, domain.ErrDecisionSubjectRequired
		}
		updates["subject"] = subject
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		decision, err := lockDraft(ctx, tx, orgID, id)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		ok, err := tx.Decisions.UpdateDraft(ctx, orgID, id, updates)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w (decision %s)", domain.ErrDecisionFinalized, decision.Number)
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityDecision, id, domain.ActionUpdate,
			fmt.Sprintf("karar %s güncellendi", decision.Number))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityDecision, domain.ActionUpdate)
	return s.Get(ctx, orgID, id)
}

// Finalize moves a DRAFT decision to FINALIZED, irreversibly. links are
// recorded in the same transaction; any failure leaves the decision a draft.
func (s *DecisionService) Finalize(ctx context.Context, orgID string, actor domain.Actor, id string, links []LinkInput) (*models.Decision, error) {
	for _, l := range links {
		if !l.LinkType.Valid() {
			return nil, fmt.Errorf("%w (%q)", domain.ErrInvalidLinkType, l.LinkType)
		}
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		decision, err := lockDraft(ctx, tx, orgID, id)
		if err != nil {
			return err
		}

		for _, l := range links {
			link, err := insertLink(ctx, tx, decision, l.MemberID, l.LinkType)
			if err != nil {
				return err
			}
			if err := recordAudit(ctx, tx, orgID, actor, domain.EntityMemberLink, link.ID, domain.ActionLink,
				linkDescription(decision, l.MemberID, l.LinkType)); err != nil {
				return err
			}
		}

		ok, err := tx.Decisions.Finalize(ctx, orgID, id, time.Now().UTC())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w (decision %s)", domain.ErrDecisionFinalized, decision.Number)
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityDecision, id, domain.ActionFinalize,
			fmt.Sprintf("karar %s kesinleşti", decision.Number))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityDecision, domain.ActionFinalize)
	return s.Get(ctx, orgID, id)
}

// Delete removes a DRAFT decision and its links
func (s *DecisionService) Delete(ctx context.Context, orgID string, actor domain.Actor, id string) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		decision, err := lockDraft(ctx, tx, orgID, id)
		if err != nil {
			return err
		}

		if err := tx.Links.DeleteByDecision(ctx, orgID, id); err != nil {
			return err
		}
		ok, err := tx.Decisions.DeleteDraft(ctx, orgID, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w (decision %s)", domain.ErrDecisionFinalized, decision.Number)
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityDecision, id, domain.ActionDelete,
			fmt.Sprintf("taslak karar %s silindi", decision.Number))
	})
	if err != nil {
		return err
	}

	s.metrics.GovernanceEvent(domain.EntityDecision, domain.ActionDelete)
	return nil
}

// Get gets a decision with its links
func (s *DecisionService) Get(ctx context.Context, orgID, id string) (*models.Decision, error) {
	decision, err := s.store.Decisions.GetWithLinks(ctx, orgID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrDecisionNotFound)
	}
	return decision, nil
}

// List lists decisions of an organization
func (s *DecisionService) List(ctx context.Context, orgID string, input *ListDecisionsInput) (*ListDecisionsOutput, error) {
	if orgID == "" {
		return nil, domain.ErrOrganizationRequired
	}
	status := domain.DecisionStatus(strings.ToUpper(input.Status))
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w (%q)", domain.ErrInvalidDecisionStatus, input.Status)
	}

	params := pagination.New(input.Page, input.Limit)
	decisions, total, err := s.store.Decisions.List(ctx, orgID, status, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	return &ListDecisionsOutput{
		Decisions: decisions,
		Meta:      pagination.GetMeta(params, total),
	}, nil
}

// ============================================================
// Member links
// ============================================================

// Link links a member to a DRAFT decision
func (s *DecisionService) Link(ctx context.Context, orgID string, actor domain.Actor, decisionID, memberID string, linkType domain.LinkType) (*models.MemberLink, error) {
	if !linkType.Valid() {
		return nil, fmt.Errorf("%w (%q)", domain.ErrInvalidLinkType, linkType)
	}

	var link *models.MemberLink
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		decision, err := lockDraft(ctx, tx, orgID, decisionID)
		if err != nil {
			return err
		}

		link, err = insertLink(ctx, tx, decision, memberID, linkType)
		if err != nil {
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityMemberLink, link.ID, domain.ActionLink,
			linkDescription(decision, memberID, linkType))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityMemberLink, domain.ActionLink)
	fresh, err := s.store.Links.GetByID(ctx, orgID, link.ID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrLinkNotFound)
	}
	return fresh, nil
}

// Unlink removes a link while its decision is still a DRAFT
func (s *DecisionService) Unlink(ctx context.Context, orgID string, actor domain.Actor, decisionID, linkID string) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		link, err := tx.Links.GetByID(ctx, orgID, linkID)
		if err != nil {
			return notFoundAs(err, domain.ErrLinkNotFound)
		}
		if link.DecisionID != decisionID {
			return domain.ErrLinkNotFound
		}

		decision, err := lockDraft(ctx, tx, orgID, link.DecisionID)
		if err != nil {
			return err
		}
		if err := tx.Links.Delete(ctx, orgID, linkID); err != nil {
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityMemberLink, linkID, domain.ActionUnlink,
			linkDescription(decision, link.MemberID, link.LinkType))
	})
	if err != nil {
		return err
	}

	s.metrics.GovernanceEvent(domain.EntityMemberLink, domain.ActionUnlink)
	return nil
}

// ListForDecision lists the links of a decision with their members
func (s *DecisionService) ListForDecision(ctx context.Context, orgID, decisionID string) ([]*models.MemberLink, error) {
	if _, err := s.store.Decisions.GetByID(ctx, orgID, decisionID); err != nil {
		return nil, notFoundAs(err, domain.ErrDecisionNotFound)
	}
	return s.store.Links.ListByDecision(ctx, orgID, decisionID)
}

// ListForMember lists the links of a member with their decisions
func (s *DecisionService) ListForMember(ctx context.Context, orgID, memberID string) ([]*models.MemberLink, error) {
	exists, err := s.store.Members.Exists(ctx, orgID, memberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrMemberNotFound
	}
	return s.store.Links.ListByMember(ctx, orgID, memberID)
}

// lockDraft locks a decision row and fails unless it is still a DRAFT
func lockDraft(ctx context.Context, tx *repositories.Store, orgID, id string) (*models.Decision, error) {
	decision, err := tx.Decisions.GetForUpdate(ctx, orgID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrDecisionNotFound)
	}
	if !decision.Status.CanTransition(domain.DecisionFinalized) {
		return nil, fmt.Errorf("%w (decision %s)", domain.ErrDecisionFinalized, decision.Number)
	}
	return decision, nil
}

// insertLink links a member of the decision's organization to the decision
func insertLink(ctx context.Context, tx *repositories.Store, decision *models.Decision, memberID string, linkType domain.LinkType) (*models.MemberLink, error) {
	exists, err := tx.Members.Exists(ctx, decision.OrganizationID, memberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w (member %s)", domain.ErrMemberNotFound, memberID)
	}

	link := &models.MemberLink{
		OrganizationID: decision.OrganizationID,
		DecisionID:     decision.ID,
		MemberID:       memberID,
		LinkType:       linkType,
	}
	if err := tx.Links.Create(ctx, link); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w (decision %s, member %s, type %s)", domain.ErrLinkExists, decision.Number, memberID, linkType)
		}
		return nil, err
	}
	return link, nil
}

func linkDescription(decision *models.Decision, memberID string, linkType domain.LinkType) string {
	return fmt.Sprintf("karar %s - üye %s (%s)", decision.Number, memberID, linkType)
}

// dateOnly truncates t to its calendar day in UTC
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
