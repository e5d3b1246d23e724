package services

import (
	"context"
	"testing"

	"kamulog-stk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.memberIn(t, orgA, "Ayşe", "Yılmaz", domain.MemberActive)
	a := f.assembly(t, orgA, "GK-1", 10)

	attendee, err := f.roster.CheckIn(ctx, orgA, officer, a.ID, m.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.AttendInPerson, attendee.AttendType)
	assert.False(t, attendee.Signed)
	require.NotNil(t, attendee.Member)
	assert.Equal(t, "Ayşe", attendee.Member.FirstName)

	_, err = f.roster.CheckIn(ctx, orgA, officer, a.ID, m.ID, domain.AttendInPerson)
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.roster.CheckIn(ctx, orgA, officer, a.ID, m.ID, "ONLINE")
	assert.ErrorIs(t, err, domain.ErrInvalidAttendType)

	_, err = f.roster.CheckIn(ctx, orgA, officer, a.ID, "missing", "")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	foreign := f.memberIn(t, orgB, "Ali", "Demir", domain.MemberActive)
	_, err = f.roster.CheckIn(ctx, orgA, officer, a.ID, foreign.ID, "")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	signed, err := f.roster.ToggleSignature(ctx, orgA, officer, a.ID, attendee.ID, true)
	require.NoError(t, err)
	assert.True(t, signed.Signed)

	unsigned, err := f.roster.ToggleSignature(ctx, orgA, officer, a.ID, attendee.ID, false)
	require.NoError(t, err)
	assert.False(t, unsigned.Signed)

	_, err = f.roster.ToggleSignature(ctx, orgA, officer, a.ID, "missing", true)
	assert.ErrorIs(t, err, domain.ErrAttendeeNotFound)

	require.NoError(t, f.roster.RemoveAttendee(ctx, orgA, officer, a.ID, attendee.ID))
	attendees, err := f.roster.ListAttendees(ctx, orgA, a.ID)
	require.NoError(t, err)
	assert.Empty(t, attendees)

	// removal frees the member to check in again
	_, err = f.roster.CheckIn(ctx, orgA, officer, a.ID, m.ID, domain.AttendByProxy)
	require.NoError(t, err)
}

func TestCheckInClosedAssembly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.memberIn(t, orgA, "Ayşe", "Yılmaz", domain.MemberActive)
	cancelled := f.assembly(t, orgA, "GK-1", 10)
	f.advance(t, orgA, cancelled.ID, domain.AssemblyCancelled)

	_, err := f.roster.CheckIn(ctx, orgA, officer, cancelled.ID, m.ID, "")
	assert.ErrorIs(t, err, domain.ErrAssemblyClosed)

	_, err = f.roster.CheckIn(ctx, orgB, officer, cancelled.ID, m.ID, "")
	assert.ErrorIs(t, err, domain.ErrAssemblyNotFound)
}

func TestGrantProxy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ms := f.activeMembers(t, orgA, "Vekalet", 4)
	giver, receiver, third, fourth := ms[0], ms[1], ms[2], ms[3]
	a := f.assembly(t, orgA, "GK-1", 10)

	_, err := f.roster.GrantProxy(ctx, orgA, officer, a.ID, &GrantProxyInput{GiverID: giver.ID, ReceiverID: giver.ID})
	assert.ErrorIs(t, err, domain.ErrProxySelf)
	assert.ErrorIs(t, err, domain.ErrValidation)

	ref := "docs/vekalet-001.pdf"
	proxy, err := f.roster.GrantProxy(ctx, orgA, officer, a.ID, &GrantProxyInput{GiverID: giver.ID, ReceiverID: receiver.ID, DocumentRef: &ref})
	require.NoError(t, err)
	assert.False(t, proxy.Approved)
	assert.Nil(t, proxy.ApprovedAt)
	require.NotNil(t, proxy.DocumentRef)
	assert.Equal(t, ref, *proxy.DocumentRef)
	require.NotNil(t, proxy.Giver)
	require.NotNil(t, proxy.Receiver)

	_, err = f.roster.GrantProxy(ctx, orgA, officer, a.ID, &GrantProxyInput{GiverID: giver.ID, ReceiverID: third.ID})
	assert.ErrorIs(t, err, domain.ErrProxyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// receiver already holds one proxy, the default cap
	_, err = f.roster.GrantProxy(ctx, orgA, officer, a.ID, &GrantProxyInput{GiverID: third.ID, ReceiverID: receiver.ID})
	assert.ErrorIs(t, err, domain.ErrReceiverLimitReached)

	// a giver may not check in, a checked-in member may not give
	_, err = f.roster.CheckIn(ctx, orgA, officer, a.ID, giver.ID, "")
	assert.ErrorIs(t, err, domain.ErrGiverHasProxy)

	_, err = f.roster.CheckIn(ctx, orgA, officer, a.ID, fourth.ID, "")
	require.NoError(t, err)
	_, err = f.roster.GrantProxy(ctx, orgA, officer, a.ID, &GrantProxyInput{GiverID: fourth.ID, ReceiverID: third.ID})
	assert.ErrorIs(t, err, domain.ErrGiverCheckedIn)

	approved, err := f.roster.SetApproval(ctx, orgA, officer, a.ID, proxy.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.Approved)
	assert.NotNil(t, approved.ApprovedAt)

	revoked, err := f.roster.SetApproval(ctx, orgA, officer, a.ID, proxy.ID, false)
	require.NoError(t, err)
	assert.False(t, revoked.Approved)
	assert.Nil(t, revoked.ApprovedAt)

	// removal is a hard delete, so the giver may grant again
	require.NoError(t, f.roster.RemoveProxy(ctx, orgA, officer, a.ID, proxy.ID))
	_, err = f.roster.GrantProxy(ctx, orgA, officer, a.ID, &GrantProxyInput{GiverID: giver.ID, ReceiverID: third.ID})
	require.NoError(t, err)

	err = f.roster.RemoveProxy(ctx, orgA, officer, a.ID, proxy.ID)
	assert.ErrorIs(t, err, domain.ErrProxyNotFound)
}

func TestUnlimitedReceiverCap(t *testing.T) {
	f := newFixtureWithCap(t, 0)
	ctx := context.Background()
	ms := f.activeMembers(t, orgA, "Vekalet", 4)
	a := f.assembly(t, orgA, "GK-1", 10)

	for _, giver := range ms[1:] {
		_, err := f.roster.GrantProxy(ctx, orgA, officer, a.ID, &GrantProxyInput{GiverID: giver.ID, ReceiverID: ms[0].ID})
		require.NoError(t, err)
	}

	proxies, err := f.roster.ListProxies(ctx, orgA, a.ID)
	require.NoError(t, err)
	assert.Len(t, proxies, 3)
}

func TestConcurrentGrantProxy(t *testing.T) {
	f := newFixtureWithCap(t, 0)
	ms := f.activeMembers(t, orgA, "Vekalet", 6)
	a := f.assembly(t, orgA, "GK-1", 10)
	giver := ms[0]

	errs := make([]error, len(ms)-1)
	var g errgroup.Group
	for i, receiver := range ms[1:] {
		i, receiver := i, receiver
		g.Go(func() error {
			_, errs[i] = f.roster.GrantProxy(context.Background(), orgA, officer, a.ID,
				&GrantProxyInput{GiverID: giver.ID, ReceiverID: receiver.ID})
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
		assert.ErrorIs(t, err, domain.ErrProxyExists)
	}
	assert.Equal(t, 1, succeeded)

	proxies, err := f.roster.ListProxies(context.Background(), orgA, a.ID)
	require.NoError(t, err)
	assert.Len(t, proxies, 1)
}

// 30 attendees plus approved proxies against a quorum of 50.
func TestQuorumWithProxies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	attendees := f.activeMembers(t, orgA, "Hazirun", 30)
	givers := f.activeMembers(t, orgA, "Veren", 25)
	a := f.assembly(t, orgA, "GK-2026", 50)
	f.advance(t, orgA, a.ID, domain.AssemblyInProgress)

	for _, m := range attendees {
		_, err := f.roster.CheckIn(ctx, orgA, officer, a.ID, m.ID, "")
		require.NoError(t, err)
	}
	proxyIDs := make([]string, len(givers))
	for i, giver := range givers {
		p, err := f.roster.GrantProxy(ctx, orgA, officer, a.ID, &GrantProxyInput{GiverID: giver.ID, ReceiverID: attendees[i].ID})
		require.NoError(t, err)
		proxyIDs[i] = p.ID
	}

	q, err := f.assemblies.Quorum(ctx, orgA, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Quorum{VotingCount: 30, Required: 50, Met: false}, *q)

	for _, id := range proxyIDs[:15] {
		_, err := f.roster.SetApproval(ctx, orgA, officer, a.ID, id, true)
		require.NoError(t, err)
	}
	q, err = f.assemblies.Quorum(ctx, orgA, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Quorum{VotingCount: 45, Required: 50, Met: false}, *q)

	for _, id := range proxyIDs[15:20] {
		_, err := f.roster.SetApproval(ctx, orgA, officer, a.ID, id, true)
		require.NoError(t, err)
	}
	q, err = f.assemblies.Quorum(ctx, orgA, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Quorum{VotingCount: 50, Required: 50, Met: true}, *q)

	_, err = f.assemblies.Quorum(ctx, orgB, a.ID)
	assert.ErrorIs(t, err, domain.ErrAssemblyNotFound)
}

// A completed assembly is frozen.
func TestCompletedAssemblyIsFrozen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ms := f.activeMembers(t, orgA, "Üye", 3)
	a := f.assembly(t, orgA, "GK-1", 2)
	f.advance(t, orgA, a.ID, domain.AssemblyInProgress)

	attendee, err := f.roster.CheckIn(ctx, orgA, officer, a.ID, ms[0].ID, "")
	require.NoError(t, err)
	proxy, err := f.roster.GrantProxy(ctx, orgA, officer, a.ID, &GrantProxyInput{GiverID: ms[1].ID, ReceiverID: ms[0].ID})
	require.NoError(t, err)

	f.advance(t, orgA, a.ID, domain.AssemblyCompleted)

	err = f.roster.RemoveAttendee(ctx, orgA, officer, a.ID, attendee.ID)
	assert.ErrorIs(t, err, domain.ErrState)

	_, err = f.assemblies.AdvanceStatus(ctx, orgA, officer, a.ID, domain.AssemblyInProgress)
	assert.ErrorIs(t, err, domain.ErrState)

	err = f.roster.RemoveProxy(ctx, orgA, officer, a.ID, proxy.ID)
	assert.ErrorIs(t, err, domain.ErrAssemblyCompleted)

	_, err = f.roster.CheckIn(ctx, orgA, officer, a.ID, ms[2].ID, "")
	assert.ErrorIs(t, err, domain.ErrAssemblyClosed)

	_, err = f.roster.SetApproval(ctx, orgA, officer, a.ID, proxy.ID, true)
	assert.ErrorIs(t, err, domain.ErrAssemblyClosed)

	attendees, err := f.roster.ListAttendees(ctx, orgA, a.ID)
	require.NoError(t, err)
	assert.Len(t, attendees, 1)
}

func TestQuorumStatus(t *testing.T) {
	f := newFixture(t)
	a := f.assembly(t, orgA, "GK-1", 3)
	proxies, err := f.roster.ListProxies(context.Background(), orgA, a.ID)
	require.NoError(t, err)

	q := QuorumStatus(a, nil, proxies)
	assert.Equal(t, domain.Quorum{VotingCount: 0, Required: 3, Met: false}, q)
}
