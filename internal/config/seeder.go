package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kamulog-stk/internal/adapters/persistence/repositories"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/core/services"
	"kamulog-stk/internal/pkg/logger"

	"gorm.io/gorm"
)

// DemoOrganizationID is the organization the dev seeder fills
const DemoOrganizationID = "demo-dernek"

// Seeder handles database seeding
type Seeder struct {
	store *repositories.Store
	orgID string
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{store: repositories.NewStore(db), orgID: DemoOrganizationID}
}

var demoMembers = [][2]string{
	{"Ayşe", "Yılmaz"},
	{"Mehmet", "Demir"},
	{"Fatma", "Kaya"},
	{"Ali", "Çelik"},
	{"Zeynep", "Şahin"},
	{"Mustafa", "Öztürk"},
	{"Elif", "Aydın"},
	{"Hüseyin", "Arslan"},
}

// Run seeds a demo organization: members, a finalized admission decision
// and a planned general assembly. Seeding is skipped when the organization
// already has members.
func (s *Seeder) Run(ctx context.Context) error {
	logger.SLog.Infow("running database seeders", "organization", s.orgID)

	_, total, err := s.store.Members.List(ctx, s.orgID, repositories.MemberFilter{}, 0, 1)
	if err != nil {
		return err
	}
	if total > 0 {
		logger.SLog.Infow("demo organization already seeded, skipping", "members", total)
		return nil
	}

	actor := domain.Actor{UserID: "seeder"}
	members := services.NewMembershipService(s.store, nil)
	decisions := services.NewDecisionService(s.store, nil)
	assemblies := services.NewAssemblyService(s.store, nil)

	for i, name := range demoMembers {
		_, err := members.Register(ctx, s.orgID, actor, &services.RegisterMemberInput{
			FirstName:    name[0],
			LastName:     name[1],
			MemberNumber: fmt.Sprintf("%04d", i+1),
			Status:       domain.MemberActive,
		})
		if err != nil {
			return fmt.Errorf("seed member %s %s: %w", name[0], name[1], err)
		}
	}

	applicant, err := members.Register(ctx, s.orgID, actor, &services.RegisterMemberInput{
		FirstName:    "Emre",
		LastName:     "Koç",
		MemberNumber: fmt.Sprintf("%04d", len(demoMembers)+1),
	})
	if err != nil {
		return fmt.Errorf("seed applicant: %w", err)
	}

	decision, err := decisions.CreateDraft(ctx, s.orgID, actor, &services.CreateDecisionInput{
		Number:       "2026/001",
		DecisionDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Subject:      "Üyelik kabulü",
		Content:      "Emre Koç'un derneğe üyelik başvurusu oybirliği ile kabul edilmiştir.",
	})
	if err != nil {
		return fmt.Errorf("seed decision: %w", err)
	}
	if _, err := decisions.Finalize(ctx, s.orgID, actor, decision.ID, []services.LinkInput{
		{MemberID: applicant.ID, LinkType: domain.LinkMembershipAccept},
	}); err != nil {
		return fmt.Errorf("finalize seed decision: %w", err)
	}
	if _, err := members.ConfirmAdmission(ctx, s.orgID, actor, applicant.ID, decision.ID); err != nil {
		return fmt.Errorf("admit seed applicant: %w", err)
	}

	_, err = assemblies.Create(ctx, s.orgID, actor, &services.CreateAssemblyInput{
		Type:           domain.AssemblyOrdinary,
		Number:         "OGK-2026",
		Date:           time.Date(2026, 3, 28, 10, 0, 0, 0, time.UTC),
		Location:       "Dernek Merkezi",
		QuorumRequired: len(demoMembers)/2 + 1,
		Agenda: []services.AgendaItemInput{
			{Title: "Açılış ve divan seçimi"},
			{Title: "Faaliyet raporunun okunması"},
			{Title: "Yönetim kurulunun ibrası"},
		},
	})
	if err != nil && !errors.Is(err, domain.ErrAssemblyNumberExists) {
		return fmt.Errorf("seed assembly: %w", err)
	}

	logger.SLog.Infow("database seeding completed", "members", len(demoMembers)+1)
	return nil
}
