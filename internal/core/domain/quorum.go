package domain

// Quorum is the verdict for a general assembly
type Quorum struct {
	VotingCount int  `json:"voting_count"`
	Required    int  `json:"required"`
	Met         bool `json:"met"`
}

// ComputeQuorum counts every attendee plus every approved proxy.
// Unapproved proxies contribute nothing.
func ComputeQuorum(required, attendees int, proxyApprovals []bool) Quorum {
	count := attendees
	for _, approved := range proxyApprovals {
		if approved {
			count++
		}
	}
	return Quorum{
		VotingCount: count,
		Required:    required,
		Met:         count >= required,
	}
}
