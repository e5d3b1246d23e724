package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberTransitions(t *testing.T) {
	tests := []struct {
		from, to MemberStatus
		allowed  bool
		link     LinkType
	}{
		{MemberPending, MemberActive, true, LinkMembershipAccept},
		{MemberActive, MemberResignationReq, true, ""},
		{MemberPassive, MemberResignationReq, true, ""},
		{MemberResignationReq, MemberActive, true, ""},
		{MemberResignationReq, MemberResigned, true, LinkResignationAccept},
		{MemberActive, MemberExpelled, true, LinkExpulsion},
		{MemberPassive, MemberExpelled, true, LinkExpulsion},
		{MemberResignationReq, MemberExpelled, true, LinkExpulsion},

		{MemberActive, MemberResigned, false, ""},
		{MemberPending, MemberResignationReq, false, ""},
		{MemberResigned, MemberActive, false, ""},
		{MemberExpelled, MemberActive, false, ""},
		{MemberActive, MemberPassive, false, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
			link, gated := tt.from.RequiredLink(tt.to)
			assert.Equal(t, tt.link, link)
			assert.Equal(t, tt.link != "", gated)
		})
	}
}

func TestAssemblyTransitions(t *testing.T) {
	allowed := map[AssemblyStatus][]AssemblyStatus{
		AssemblyPlanned:    {AssemblyInProgress, AssemblyCancelled},
		AssemblyInProgress: {AssemblyCompleted, AssemblyCancelled},
	}
	all := []AssemblyStatus{AssemblyPlanned, AssemblyInProgress, AssemblyCompleted, AssemblyCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				want = want || s == to
			}
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}

	assert.True(t, AssemblyCompleted.IsTerminal())
	assert.True(t, AssemblyCancelled.IsTerminal())
	assert.False(t, AssemblyInProgress.IsTerminal())
}

func TestDecisionTransitions(t *testing.T) {
	assert.True(t, DecisionDraft.CanTransition(DecisionFinalized))
	assert.False(t, DecisionFinalized.CanTransition(DecisionFinalized))
	assert.False(t, DecisionFinalized.CanTransition(DecisionDraft))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, LinkOther.Valid())
	assert.False(t, LinkType("ADMISSION").Valid())
	assert.True(t, MemberPassive.Valid())
	assert.False(t, MemberStatus("DECEASED").Valid())
	assert.True(t, AssemblyExtraordinary.Valid())
	assert.False(t, AssemblyType("ANNUAL").Valid())
	assert.True(t, AttendByProxy.Valid())
	assert.False(t, AttendType("").Valid())
	assert.True(t, RoleOfficer.Valid())
	assert.False(t, Role("TREASURER").Valid())
}
