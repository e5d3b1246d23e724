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

// openStatuses are the assembly statuses in which details may still change
var openStatuses = []domain.AssemblyStatus{domain.AssemblyPlanned, domain.AssemblyInProgress}

// AssemblyService keeps the general assembly (genel kurul) registry
type AssemblyService struct {
	store   *repositories.Store
	metrics *metrics.Metrics
}

// NewAssemblyService creates a new assembly service
func NewAssemblyService(store *repositories.Store, m *metrics.Metrics) *AssemblyService {
	return &AssemblyService{
		store:   store,
		metrics: m,
	}
}

// AgendaItemInput is one agenda item (gündem maddesi)
type AgendaItemInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	DecisionText string `json:"decision_text"`
}

// CreateAssemblyInput represents create assembly input
type CreateAssemblyInput struct {
	Type           domain.AssemblyType
	Number         string
	Date           time.Time
	Location       string
	QuorumRequired int
	Agenda         []AgendaItemInput
}

// UpdateAssemblyInput represents update assembly input. Nil fields are left
// unchanged; type, number, quorum and agenda are fixed at creation.
type UpdateAssemblyInput struct {
	Date     *time.Time
	Location *string
}

// ListAssembliesInput represents list assemblies input
type ListAssembliesInput struct {
	Status string
	Page   int
	Limit  int
}

// ListAssembliesOutput represents list assemblies output
type ListAssembliesOutput struct {
	Assemblies []*models.Assembly `json:"assemblies"`
	pagination.Meta
}

// Create plans a new assembly with its agenda
func (s *AssemblyService) Create(ctx context.Context, orgID string, actor domain.Actor, input *CreateAssemblyInput) (*models.Assembly, error) {
	if orgID == "" {
		return nil, domain.ErrOrganizationRequired
	}
	number := strings.TrimSpace(input.Number)
	switch {
	case !input.Type.Valid():
		return nil, fmt.Errorf("%w (%q)", domain.ErrInvalidAssemblyType, input.Type)
	case number == "":
		return nil, domain.ErrAssemblyNumberRequired
	case input.Date.IsZero():
		return nil, domain.ErrAssemblyDateRequired
	case input.QuorumRequired <= 0:
		return nil, domain.ErrInvalidQuorum
	}

	agenda := make([]models.AgendaItem, len(input.Agenda))
	for i, item := range input.Agenda {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return nil, fmt.Errorf("%w (item %d)", domain.ErrAgendaTitleRequired, i+1)
		}
		agenda[i] = models.AgendaItem{
			Position:     i,
			Title:        title,
			Description:  item.Description,
			DecisionText: item.DecisionText,
		}
	}

	assembly := &models.Assembly{
		OrganizationID: orgID,
		Type:           input.Type,
		Number:         number,
		Date:           input.Date.UTC(),
		Location:       strings.TrimSpace(input.Location),
		QuorumRequired: input.QuorumRequired,
		Status:         domain.AssemblyPlanned,
		CreatedBy:      actor.UserID,
		Agenda:         agenda,
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Assemblies.Create(ctx, assembly); err != nil {
			if repositories.IsDuplicateKey(err) {
				return fmt.Errorf("%w (number %s)", domain.ErrAssemblyNumberExists, number)
			}
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityAssembly, assembly.ID, domain.ActionCreate,
			fmt.Sprintf("%s genel kurul %s planlandı", assembly.Type, number))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityAssembly, domain.ActionCreate)
	return s.Get(ctx, orgID, assembly.ID)
}

// Update changes the date or location of an assembly that is not closed
func (s *AssemblyService) Update(ctx context.Context, orgID string, actor domain.Actor, id string, input *UpdateAssemblyInput) (*models.Assembly, error) {
	updates := map[string]interface{}{}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, domain.ErrAssemblyDateRequired
		}
		updates["date"] = input.Date.UTC()
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		assembly, err := lockOpenAssembly(ctx, tx, orgID, id)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		ok, err := tx.Assemblies.UpdateIn(ctx, orgID, id, openStatuses, updates)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w (assembly %s)", domain.ErrAssemblyClosed, assembly.Number)
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityAssembly, id, domain.ActionUpdate,
			fmt.Sprintf("genel kurul %s güncellendi", assembly.Number))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityAssembly, domain.ActionUpdate)
	return s.Get(ctx, orgID, id)
}

// AdvanceStatus moves an assembly along its lifecycle
func (s *AssemblyService) AdvanceStatus(ctx context.Context, orgID string, actor domain.Actor, id string, target domain.AssemblyStatus) (*models.Assembly, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w (%q)", domain.ErrInvalidAssemblyStatus, target)
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		assembly, err := tx.Assemblies.GetForUpdate(ctx, orgID, id)
		if err != nil {
			return notFoundAs(err, domain.ErrAssemblyNotFound)
		}
		from := assembly.Status
		if !from.CanTransition(target) {
			return fmt.Errorf("%w (assembly %s: %s -> %s)", domain.ErrAssemblyTransition, assembly.Number, from, target)
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{"status": target}
		switch target {
		case domain.AssemblyInProgress:
			updates["started_at"] = now
		case domain.AssemblyCompleted:
			updates["completed_at"] = now
		case domain.AssemblyCancelled:
			updates["cancelled_at"] = now
		}

		ok, err := tx.Assemblies.UpdateIn(ctx, orgID, id, []domain.AssemblyStatus{from}, updates)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w (assembly %s changed concurrently)", domain.ErrAssemblyTransition, assembly.Number)
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityAssembly, id, domain.ActionStatusChange,
			fmt.Sprintf("genel kurul %s: %s -> %s", assembly.Number, from, target))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityAssembly, domain.ActionStatusChange)
	return s.Get(ctx, orgID, id)
}

// Delete removes an assembly with its agenda and rosters unless it is COMPLETED
func (s *AssemblyService) Delete(ctx context.Context, orgID string, actor domain.Actor, id string) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		assembly, err := tx.Assemblies.GetForUpdate(ctx, orgID, id)
		if err != nil {
			return notFoundAs(err, domain.ErrAssemblyNotFound)
		}
		if assembly.Status == domain.AssemblyCompleted {
			return fmt.Errorf("%w (assembly %s)", domain.ErrAssemblyCompleted, assembly.Number)
		}

		if err := tx.Assemblies.Delete(ctx, orgID, id); err != nil {
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityAssembly, id, domain.ActionDelete,
			fmt.Sprintf("genel kurul %s silindi", assembly.Number))
	})
	if err != nil {
		return err
	}

	s.metrics.GovernanceEvent(domain.EntityAssembly, domain.ActionDelete)
	return nil
}

// Get gets an assembly with its agenda
func (s *AssemblyService) Get(ctx context.Context, orgID, id string) (*models.Assembly, error) {
	assembly, err := s.store.Assemblies.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrAssemblyNotFound)
	}
	return assembly, nil
}

// List lists assemblies of an organization
func (s *AssemblyService) List(ctx context.Context, orgID string, input *ListAssembliesInput) (*ListAssembliesOutput, error) {
	if orgID == "" {
		return nil, domain.ErrOrganizationRequired
	}
	status := domain.AssemblyStatus(strings.ToUpper(input.Status))
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w (%q)", domain.ErrInvalidAssemblyStatus, input.Status)
	}

	params := pagination.New(input.Page, input.Limit)
	assemblies, total, err := s.store.Assemblies.List(ctx, orgID, status, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	return &ListAssembliesOutput{
		Assemblies: assemblies,
		Meta:       pagination.GetMeta(params, total),
	}, nil
}

// Quorum recomputes the quorum of an assembly from its current rosters
func (s *AssemblyService) Quorum(ctx context.Context, orgID, id string) (*domain.Quorum, error) {
	assembly, err := s.store.Assemblies.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrAssemblyNotFound)
	}
	attendees, err := s.store.Attendees.ListByAssembly(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	proxies, err := s.store.Proxies.ListByAssembly(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	quorum := QuorumStatus(assembly, attendees, proxies)
	return &quorum, nil
}

// lockOpenAssembly locks an assembly row and fails once it is closed
func lockOpenAssembly(ctx context.Context, tx *repositories.Store, orgID, id string) (*models.Assembly, error) {
	assembly, err := tx.Assemblies.GetForUpdate(ctx, orgID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrAssemblyNotFound)
	}
	if assembly.Status.IsTerminal() {
		return nil, fmt.Errorf("%w (assembly %s is %s)", domain.ErrAssemblyClosed, assembly.Number, assembly.Status)
	}
	return assembly, nil
}
