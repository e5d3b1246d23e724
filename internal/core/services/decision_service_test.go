package services

import (
	"context"
	"testing"
	"time"

	"kamulog-stk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCreateDraftValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input CreateDecisionInput
		want  error
	}{
		{"blank number", CreateDecisionInput{Number: "  ", Subject: "Bütçe", DecisionDate: date}, domain.ErrDecisionNumberRequired},
		{"blank subject", CreateDecisionInput{Number: "2026/010", Subject: "", DecisionDate: date}, domain.ErrDecisionSubjectRequired},
		{"missing date", CreateDecisionInput{Number: "2026/010", Subject: "Bütçe"}, domain.ErrDecisionDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.decisions.CreateDraft(ctx, orgA, officer, &tt.input)
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err := f.decisions.CreateDraft(ctx, "", officer, &CreateDecisionInput{Number: "1", Subject: "x", DecisionDate: date})
	assert.ErrorIs(t, err, domain.ErrOrganizationRequired)
}

func TestCreateDraftDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.draft(t, orgA, "2026/001", "Üyelik kabulü")
	assert.Equal(t, domain.DecisionDraft, d.Status)
	assert.Equal(t, "officer-1", d.CreatedBy)

	_, err := f.decisions.CreateDraft(ctx, orgA, officer, &CreateDecisionInput{
		Number:       "2026/001",
		DecisionDate: time.Now(),
		Subject:      "Başka konu",
	})
	require.ErrorIs(t, err, domain.ErrDecisionNumberExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// numbers are unique per organization only
	other := f.draft(t, orgB, "2026/001", "Üyelik kabulü")
	assert.NotEqual(t, d.ID, other.ID)
}

func TestUpdateDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.draft(t, orgA, "2026/002", "Aidat")

	subject := "Aidat artışı"
	content := "Yıllık aidat 600 TL olarak belirlendi."
	updated, err := f.decisions.UpdateDraft(ctx, orgA, officer, d.ID, &UpdateDecisionInput{
		Subject: &subject,
		Content: &content,
	})
	require.NoError(t, err)
	assert.Equal(t, subject, updated.Subject)
	assert.Equal(t, content, updated.Content)
	assert.Equal(t, "2026/002", updated.Number)

	blank := " "
	_, err = f.decisions.UpdateDraft(ctx, orgA, officer, d.ID, &UpdateDecisionInput{Subject: &blank})
	assert.ErrorIs(t, err, domain.ErrDecisionSubjectRequired)

	_, err = f.decisions.UpdateDraft(ctx, orgB, officer, d.ID, &UpdateDecisionInput{Subject: &subject})
	assert.ErrorIs(t, err, domain.ErrDecisionNotFound)
}

func TestFinalizeIsIrreversible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.draft(t, orgA, "2026/003", "Yönetim kurulu görev dağılımı")

	finalized, err := f.decisions.Finalize(ctx, orgA, officer, d.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionFinalized, finalized.Status)
	require.NotNil(t, finalized.FinalizedAt)

	subject := "değişiklik"
	_, err = f.decisions.UpdateDraft(ctx, orgA, officer, d.ID, &UpdateDecisionInput{Subject: &subject})
	assert.ErrorIs(t, err, domain.ErrDecisionFinalized)
	assert.ErrorIs(t, err, domain.ErrState)

	err = f.decisions.Delete(ctx, orgA, officer, d.ID)
	assert.ErrorIs(t, err, domain.ErrState)

	_, err = f.decisions.Finalize(ctx, orgA, officer, d.ID, nil)
	assert.ErrorIs(t, err, domain.ErrDecisionFinalized)

	got, err := f.decisions.Get(ctx, orgA, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yönetim kurulu görev dağılımı", got.Subject)
}

func TestFinalizeWithLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.memberIn(t, orgA, "Ayşe", "Yılmaz", domain.MemberPending)
	m2 := f.memberIn(t, orgA, "Mehmet", "Kaya", domain.MemberPending)
	d := f.draft(t, orgA, "2026/004", "Üyelik kabulü")

	finalized, err := f.decisions.Finalize(ctx, orgA, officer, d.ID, []LinkInput{
		{MemberID: m1.ID, LinkType: domain.LinkMembershipAccept},
		{MemberID: m2.ID, LinkType: domain.LinkMembershipAccept},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionFinalized, finalized.Status)
	require.Len(t, finalized.Links, 2)
	assert.Equal(t, m1.ID, finalized.Links[0].MemberID)
	require.NotNil(t, finalized.Links[0].Member)
}

func TestFinalizeRollsBackOnBadLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.memberIn(t, orgA, "Ayşe", "Yılmaz", domain.MemberPending)
	foreign := f.memberIn(t, orgB, "Ali", "Demir", domain.MemberPending)
	d := f.draft(t, orgA, "2026/005", "Üyelik kabulü")

	_, err := f.decisions.Finalize(ctx, orgA, officer, d.ID, []LinkInput{
		{MemberID: m1.ID, LinkType: domain.LinkMembershipAccept},
		{MemberID: foreign.ID, LinkType: domain.LinkMembershipAccept},
	})
	require.ErrorIs(t, err, domain.ErrMemberNotFound)

	got, err := f.decisions.Get(ctx, orgA, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionDraft, got.Status)
	assert.Empty(t, got.Links)

	_, err = f.decisions.Finalize(ctx, orgA, officer, d.ID, []LinkInput{{MemberID: m1.ID, LinkType: "BOGUS"}})
	assert.ErrorIs(t, err, domain.ErrInvalidLinkType)
}

func TestLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.memberIn(t, orgA, "Zeynep", "Şahin", domain.MemberActive)
	d := f.draft(t, orgA, "2026/006", "İhraç")

	link, err := f.decisions.Link(ctx, orgA, officer, d.ID, m.ID, domain.LinkExpulsion)
	require.NoError(t, err)
	assert.Equal(t, d.ID, link.DecisionID)
	assert.Equal(t, domain.LinkExpulsion, link.LinkType)

	// same member, different type is a different link
	_, err = f.decisions.Link(ctx, orgA, officer, d.ID, m.ID, domain.LinkOther)
	require.NoError(t, err)

	_, err = f.decisions.Link(ctx, orgA, officer, d.ID, m.ID, domain.LinkExpulsion)
	assert.ErrorIs(t, err, domain.ErrLinkExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.decisions.Link(ctx, orgA, officer, d.ID, m.ID, "UNKNOWN")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.decisions.Link(ctx, orgA, officer, d.ID, "missing", domain.LinkOther)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	_, err = f.decisions.Link(ctx, orgB, officer, d.ID, m.ID, domain.LinkOther)
	assert.ErrorIs(t, err, domain.ErrDecisionNotFound)

	_, err = f.decisions.Finalize(ctx, orgA, officer, d.ID, nil)
	require.NoError(t, err)

	other := f.memberIn(t, orgA, "Can", "Öztürk", domain.MemberActive)
	_, err = f.decisions.Link(ctx, orgA, officer, d.ID, other.ID, domain.LinkExpulsion)
	assert.ErrorIs(t, err, domain.ErrDecisionFinalized)

	links, err := f.decisions.ListForDecision(ctx, orgA, d.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestUnlink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.memberIn(t, orgA, "Elif", "Arslan", domain.MemberActive)
	d := f.draft(t, orgA, "2026/007", "Temsilci ataması")

	link, err := f.decisions.Link(ctx, orgA, officer, d.ID, m.ID, domain.LinkOther)
	require.NoError(t, err)

	err = f.decisions.Unlink(ctx, orgA, officer, "another-decision", link.ID)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	require.NoError(t, f.decisions.Unlink(ctx, orgA, officer, d.ID, link.ID))
	err = f.decisions.Unlink(ctx, orgA, officer, d.ID, link.ID)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	link, err = f.decisions.Link(ctx, orgA, officer, d.ID, m.ID, domain.LinkOther)
	require.NoError(t, err)
	_, err = f.decisions.Finalize(ctx, orgA, officer, d.ID, nil)
	require.NoError(t, err)

	err = f.decisions.Unlink(ctx, orgA, officer, d.ID, link.ID)
	assert.ErrorIs(t, err, domain.ErrDecisionFinalized)
}

func TestDeleteDraftRemovesLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.memberIn(t, orgA, "Elif", "Arslan", domain.MemberActive)
	d := f.draft(t, orgA, "2026/008", "Taslak")

	_, err := f.decisions.Link(ctx, orgA, officer, d.ID, m.ID, domain.LinkOther)
	require.NoError(t, err)

	require.NoError(t, f.decisions.Delete(ctx, orgA, officer, d.ID))

	_, err = f.decisions.Get(ctx, orgA, d.ID)
	assert.ErrorIs(t, err, domain.ErrDecisionNotFound)

	links, err := f.decisions.ListForMember(ctx, orgA, m.ID)
	require.NoError(t, err)
	assert.Empty(t, links)

	// the number is free again
	f.draft(t, orgA, "2026/008", "Yeniden")
}

func TestListDecisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d1 := f.draft(t, orgA, "2026/001", "Bir")
	f.draft(t, orgA, "2026/002", "İki")
	f.draft(t, orgB, "2026/003", "Başka dernek")
	_, err := f.decisions.Finalize(ctx, orgA, officer, d1.ID, nil)
	require.NoError(t, err)

	all, err := f.decisions.List(ctx, orgA, &ListDecisionsInput{})
	require.NoError(t, err)
	assert.Len(t, all.Decisions, 2)
	assert.EqualValues(t, 2, all.Total)

	finalized, err := f.decisions.List(ctx, orgA, &ListDecisionsInput{Status: "finalized"})
	require.NoError(t, err)
	require.Len(t, finalized.Decisions, 1)
	assert.Equal(t, d1.ID, finalized.Decisions[0].ID)

	_, err = f.decisions.List(ctx, orgA, &ListDecisionsInput{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, domain.ErrInvalidDecisionStatus)
}

func TestConcurrentFinalize(t *testing.T) {
	f := newFixture(t)
	d := f.draft(t, orgA, "2026/009", "Eşzamanlı")

	const callers = 4
	errs := make([]error, callers)
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		i := i
		g.Go(func() error {
			_, errs[i] = f.decisions.Finalize(context.Background(), orgA, officer, d.ID, nil)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrState)
	}
	assert.Equal(t, 1, succeeded)
}

func TestDecisionAuditTrail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.draft(t, orgA, "2026/011", "Denetim")
	_, err := f.decisions.Finalize(ctx, orgA, officer, d.ID, nil)
	require.NoError(t, err)

	out, err := f.audit.List(ctx, orgA, &ListAuditInput{EntityType: domain.EntityDecision, EntityID: d.ID})
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)

	actions := []string{out.Entries[0].Action, out.Entries[1].Action}
	assert.ElementsMatch(t, []string{domain.ActionCreate, domain.ActionFinalize}, actions)
	assert.Equal(t, "officer-1", out.Entries[0].PerformedBy)

	other, err := f.audit.List(ctx, orgB, &ListAuditInput{})
	require.NoError(t, err)
	assert.Empty(t, other.Entries)
}
