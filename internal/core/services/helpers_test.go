package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/adapters/persistence/repositories"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/testutil"

	"github.com/stretchr/testify/require"
)

const (
	orgA = "org-a"
	orgB = "org-b"
)

var officer = domain.Actor{UserID: "officer-1", IPAddress: "127.0.0.1"}

type fixture struct {
	store      *repositories.Store
	decisions  *DecisionService
	members    *MembershipService
	assemblies *AssemblyService
	roster     *RosterService
	audit      *AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithCap(t, 1)
}

func newFixtureWithCap(t *testing.T, maxProxiesPerReceiver int) *fixture {
	t.Helper()

	store := repositories.NewStore(testutil.NewDB(t))
	return &fixture{
		store:      store,
		decisions:  NewDecisionService(store, nil),
		members:    NewMembershipService(store, nil),
		assemblies: NewAssemblyService(store, nil),
		roster:     NewRosterService(store, nil, maxProxiesPerReceiver),
		audit:      NewAuditService(store),
	}
}

// memberIn inserts a member in any status, bypassing registration rules
func (f *fixture) memberIn(t *testing.T, orgID, first, last string, status domain.MemberStatus) *models.Member {
	t.Helper()

	m := &models.Member{
		OrganizationID: orgID,
		FirstName:      first,
		LastName:       last,
		Status:         status,
	}
	require.NoError(t, f.store.Members.Create(context.Background(), m))
	return m
}

// members inserts n ACTIVE members named "<prefix> <i>"
func (f *fixture) activeMembers(t *testing.T, orgID, prefix string, n int) []*models.Member {
	t.Helper()

	out := make([]*models.Member, n)
	for i := range out {
		out[i] = f.memberIn(t, orgID, prefix, fmt.Sprintf("Üye%02d", i+1), domain.MemberActive)
	}
	return out
}

func (f *fixture) draft(t *testing.T, orgID, number, subject string) *models.Decision {
	t.Helper()

	d, err := f.decisions.CreateDraft(context.Background(), orgID, officer, &CreateDecisionInput{
		Number:       number,
		DecisionDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Subject:      subject,
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) assembly(t *testing.T, orgID, number string, quorum int) *models.Assembly {
	t.Helper()

	a, err := f.assemblies.Create(context.Background(), orgID, officer, &CreateAssemblyInput{
		Type:           domain.AssemblyOrdinary,
		Number:         number,
		Date:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Location:       "Dernek Merkezi",
		QuorumRequired: quorum,
		Agenda: []AgendaItemInput{
			{Title: "Açılış ve divan seçimi"},
			{Title: "Faaliyet raporu"},
		},
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) advance(t *testing.T, orgID, id string, targets ...domain.AssemblyStatus) {
	t.Helper()

	for _, target := range targets {
		_, err := f.assemblies.AdvanceStatus(context.Background(), orgID, officer, id, target)
		require.NoError(t, err)
	}
}
