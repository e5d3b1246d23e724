package services

import (
	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/core/domain"
)

// QuorumStatus computes the quorum of an assembly from its current attendee
// and proxy rows
func QuorumStatus(assembly *models.Assembly, attendees []*models.Attendee, proxies []*models.Proxy) domain.Quorum {
	approvals := make([]bool, len(proxies))
	for i, p := range proxies {
		approvals[i] = p.Approved
	}
	return domain.ComputeQuorum(assembly.QuorumRequired, len(attendees), approvals)
}
