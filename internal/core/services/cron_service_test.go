package services

import (
	"context"
	"testing"
	"time"

	"kamulog-stk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRunDigest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.memberIn(t, orgA, "Ali", "Demir", domain.MemberResignationReq)
	f.memberIn(t, orgA, "Veli", "Çelik", domain.MemberResignationReq)
	f.memberIn(t, orgB, "Ayşe", "Kaya", domain.MemberResignationReq)
	f.memberIn(t, orgB, "Aktif", "Üye", domain.MemberActive)

	overdue := f.assembly(t, orgA, "GK-1", 10) // dated 2026-03-01
	started := f.assembly(t, orgA, "GK-2", 10)
	f.advance(t, orgA, started.ID, domain.AssemblyInProgress)

	c, err := NewCronService(f.store, "@daily")
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) }

	digest, err := c.RunDigest(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{orgA: 2, orgB: 1}, digest.PendingResignations)
	assert.Equal(t, map[string]int{orgA: 1}, digest.OverdueAssemblies)

	c.now = func() time.Time { return overdue.Date.Add(-time.Hour) }
	digest, err = c.RunDigest(ctx)
	require.NoError(t, err)
	assert.Empty(t, digest.OverdueAssemblies)
}

func TestCronServiceStops(t *testing.T) {
	f := newFixture(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, err := NewCronService(f.store, "@every 1h")
	require.NoError(t, err)
	c.Start()
	c.Stop()
}

func TestCronServiceRejectsBadSchedule(t *testing.T) {
	f := newFixture(t)

	_, err := NewCronService(f.store, "every tuesday")
	assert.Error(t, err)
}
