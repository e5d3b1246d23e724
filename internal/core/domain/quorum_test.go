package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeQuorum(t *testing.T) {
	approvals := func(approved, pending int) []bool {
		out := make([]bool, 0, approved+pending)
		for i := 0; i < approved; i++ {
			out = append(out, true)
		}
		for i := 0; i < pending; i++ {
			out = append(out, false)
		}
		return out
	}

	tests := []struct {
		name      string
		required  int
		attendees int
		proxies   []bool
		want      Quorum
	}{
		{"nobody", 1, 0, nil, Quorum{VotingCount: 0, Required: 1, Met: false}},
		{"attendees only", 10, 10, nil, Quorum{VotingCount: 10, Required: 10, Met: true}},
		{"unapproved proxies count zero", 50, 30, approvals(0, 25), Quorum{VotingCount: 30, Required: 50}},
		{"fifteen approved", 50, 30, approvals(15, 10), Quorum{VotingCount: 45, Required: 50}},
		{"twenty approved", 50, 30, approvals(20, 5), Quorum{VotingCount: 50, Required: 50, Met: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeQuorum(tt.required, tt.attendees, tt.proxies))
		})
	}
}

func TestApprovalNeverLowersVotingCount(t *testing.T) {
	proxies := make([]bool, 8)
	prev := ComputeQuorum(5, 3, proxies).VotingCount
	for i := range proxies {
		proxies[i] = true
		next := ComputeQuorum(5, 3, proxies).VotingCount
		assert.Equal(t, prev+1, next)
		prev = next
	}
}
