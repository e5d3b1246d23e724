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
)

// RosterService keeps the attendee list (hazirun) and the proxies (vekalet)
// of general assemblies
type RosterService struct {
	store   *repositories.Store
	metrics *metrics.Metrics

	// maxProxiesPerReceiver caps the proxies one member may hold for an
	// assembly; 0 means unlimited
	maxProxiesPerReceiver int
}

// NewRosterService creates a new roster service
func NewRosterService(store *repositories.Store, m *metrics.Metrics, maxProxiesPerReceiver int) *RosterService {
	return &RosterService{
		store:                 store,
		metrics:               m,
		maxProxiesPerReceiver: maxProxiesPerReceiver,
	}
}

// GrantProxyInput represents grant proxy input
type GrantProxyInput struct {
	GiverID     string  `json:"giver_id"`
	ReceiverID  string  `json:"receiver_id"`
	DocumentRef *string `json:"document_ref"`
}

// ============================================================
// Attendees
// ============================================================

// CheckIn adds a member to the attendee list of an open assembly
func (s *RosterService) CheckIn(ctx context.Context, orgID string, actor domain.Actor, assemblyID, memberID string, attendType domain.AttendType) (*models.Attendee, error) {
	if attendType == "" {
		attendType = domain.AttendInPerson
	}
	if !attendType.Valid() {
		return nil, fmt.Errorf("%w (%q)", domain.ErrInvalidAttendType, attendType)
	}

	var attendee *models.Attendee
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		assembly, err := lockOpenAssembly(ctx, tx, orgID, assemblyID)
		if err != nil {
			return err
		}
		member, err := tx.Members.GetByID(ctx, orgID, memberID)
		if err != nil {
			return notFoundAs(err, domain.ErrMemberNotFound)
		}

		granted, err := tx.Proxies.ExistsGiver(ctx, orgID, assemblyID, memberID)
		if err != nil {
			return err
		}
		if granted {
			return fmt.Errorf("%w (member %s, assembly %s)", domain.ErrGiverHasProxy, member.FullName(), assembly.Number)
		}

		attendee = &models.Attendee{
			OrganizationID: orgID,
			AssemblyID:     assemblyID,
			MemberID:       memberID,
			AttendType:     attendType,
			CheckedInAt:    time.Now().UTC(),
		}
		if err := tx.Attendees.Create(ctx, attendee); err != nil {
			if repositories.IsDuplicateKey(err) {
				return fmt.Errorf("%w (member %s, assembly %s)", domain.ErrAlreadyCheckedIn, member.FullName(), assembly.Number)
			}
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityAttendee, attendee.ID, domain.ActionCheckIn,
			fmt.Sprintf("genel kurul %s: %s (%s)", assembly.Number, member.FullName(), attendType))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityAttendee, domain.ActionCheckIn)
	return s.getAttendee(ctx, orgID, assemblyID, attendee.ID)
}

// ToggleSignature records whether an attendee signed the attendee list
func (s *RosterService) ToggleSignature(ctx context.Context, orgID string, actor domain.Actor, assemblyID, attendeeID string, signed bool) (*models.Attendee, error) {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		assembly, err := tx.Assemblies.GetForUpdate(ctx, orgID, assemblyID)
		if err != nil {
			return notFoundAs(err, domain.ErrAssemblyNotFound)
		}
		if _, err := tx.Attendees.GetByID(ctx, orgID, assemblyID, attendeeID); err != nil {
			return notFoundAs(err, domain.ErrAttendeeNotFound)
		}

		if err := tx.Attendees.SetSigned(ctx, orgID, attendeeID, signed); err != nil {
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityAttendee, attendeeID, domain.ActionSignature,
			fmt.Sprintf("genel kurul %s: imza=%t", assembly.Number, signed))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityAttendee, domain.ActionSignature)
	return s.getAttendee(ctx, orgID, assemblyID, attendeeID)
}

// RemoveAttendee removes an attendee unless the assembly is COMPLETED
func (s *RosterService) RemoveAttendee(ctx context.Context, orgID string, actor domain.Actor, assemblyID, attendeeID string) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		assembly, err := lockNotCompleted(ctx, tx, orgID, assemblyID)
		if err != nil {
			return err
		}
		attendee, err := tx.Attendees.GetByID(ctx, orgID, assemblyID, attendeeID)
		if err != nil {
			return notFoundAs(err, domain.ErrAttendeeNotFound)
		}

		if err := tx.Attendees.Delete(ctx, orgID, attendeeID); err != nil {
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityAttendee, attendeeID, domain.ActionDelete,
			fmt.Sprintf("genel kurul %s: üye %s hazirundan çıkarıldı", assembly.Number, attendee.MemberID))
	})
	if err != nil {
		return err
	}

	s.metrics.GovernanceEvent(domain.EntityAttendee, domain.ActionDelete)
	return nil
}

// ListAttendees lists the attendees of an assembly in check-in order
func (s *RosterService) ListAttendees(ctx context.Context, orgID, assemblyID string) ([]*models.Attendee, error) {
	if err := s.requireAssembly(ctx, orgID, assemblyID); err != nil {
		return nil, err
	}
	return s.store.Attendees.ListByAssembly(ctx, orgID, assemblyID)
}

// ============================================================
// Proxies
// ============================================================

// GrantProxy records that giver hands their vote to receiver for an assembly
func (s *RosterService) GrantProxy(ctx context.Context, orgID string, actor domain.Actor, assemblyID string, input *GrantProxyInput) (*models.Proxy, error) {
	giverID := strings.TrimSpace(input.GiverID)
	receiverID := strings.TrimSpace(input.ReceiverID)
	if giverID == receiverID {
		return nil, domain.ErrProxySelf
	}

	var proxy *models.Proxy
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		assembly, err := lockOpenAssembly(ctx, tx, orgID, assemblyID)
		if err != nil {
			return err
		}
		giver, err := tx.Members.GetByID(ctx, orgID, giverID)
		if err != nil {
			return notFoundAs(err, fmt.Errorf("%w (giver %s)", domain.ErrMemberNotFound, giverID))
		}
		receiver, err := tx.Members.GetByID(ctx, orgID, receiverID)
		if err != nil {
			return notFoundAs(err, fmt.Errorf("%w (receiver %s)", domain.ErrMemberNotFound, receiverID))
		}

		checkedIn, err := tx.Attendees.ExistsMember(ctx, orgID, assemblyID, giverID)
		if err != nil {
			return err
		}
		if checkedIn {
			return fmt.Errorf("%w (giver %s, assembly %s)", domain.ErrGiverCheckedIn, giver.FullName(), assembly.Number)
		}

		granted, err := tx.Proxies.ExistsGiver(ctx, orgID, assemblyID, giverID)
		if err != nil {
			return err
		}
		if granted {
			return fmt.Errorf("%w (giver %s, assembly %s)", domain.ErrProxyExists, giver.FullName(), assembly.Number)
		}

		if s.maxProxiesPerReceiver > 0 {
			held, err := tx.Proxies.CountByReceiver(ctx, orgID, assemblyID, receiverID)
			if err != nil {
				return err
			}
			if held >= int64(s.maxProxiesPerReceiver) {
				return fmt.Errorf("%w (receiver %s holds %d of %d)", domain.ErrReceiverLimitReached, receiver.FullName(), held, s.maxProxiesPerReceiver)
			}
		}

		proxy = &models.Proxy{
			OrganizationID: orgID,
			AssemblyID:     assemblyID,
			GiverID:        giverID,
			ReceiverID:     receiverID,
			DocumentRef:    input.DocumentRef,
		}
		if err := tx.Proxies.Create(ctx, proxy); err != nil {
			if repositories.IsDuplicateKey(err) {
				return fmt.Errorf("%w (giver %s, assembly %s)", domain.ErrProxyExists, giver.FullName(), assembly.Number)
			}
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityProxy, proxy.ID, domain.ActionCreate,
			fmt.Sprintf("genel kurul %s: %s -> %s vekalet", assembly.Number, giver.FullName(), receiver.FullName()))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityProxy, domain.ActionCreate)
	return s.getProxy(ctx, orgID, assemblyID, proxy.ID)
}

// SetApproval approves or un-approves a proxy. Only approved proxies count
// toward quorum.
func (s *RosterService) SetApproval(ctx context.Context, orgID string, actor domain.Actor, assemblyID, proxyID string, approved bool) (*models.Proxy, error) {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		assembly, err := lockOpenAssembly(ctx, tx, orgID, assemblyID)
		if err != nil {
			return err
		}
		if _, err := tx.Proxies.GetByID(ctx, orgID, assemblyID, proxyID); err != nil {
			return notFoundAs(err, domain.ErrProxyNotFound)
		}

		if err := tx.Proxies.SetApproval(ctx, orgID, proxyID, approved, time.Now().UTC()); err != nil {
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityProxy, proxyID, domain.ActionApproval,
			fmt.Sprintf("genel kurul %s: onay=%t", assembly.Number, approved))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GovernanceEvent(domain.EntityProxy, domain.ActionApproval)
	return s.getProxy(ctx, orgID, assemblyID, proxyID)
}

// RemoveProxy removes a proxy unless the assembly is COMPLETED. The giver may
// grant again afterwards.
func (s *RosterService) RemoveProxy(ctx context.Context, orgID string, actor domain.Actor, assemblyID, proxyID string) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		assembly, err := lockNotCompleted(ctx, tx, orgID, assemblyID)
		if err != nil {
			return err
		}
		proxy, err := tx.Proxies.GetByID(ctx, orgID, assemblyID, proxyID)
		if err != nil {
			return notFoundAs(err, domain.ErrProxyNotFound)
		}

		if err := tx.Proxies.Delete(ctx, orgID, proxyID); err != nil {
			return err
		}
		return recordAudit(ctx, tx, orgID, actor, domain.EntityProxy, proxyID, domain.ActionDelete,
			fmt.Sprintf("genel kurul %s: üye %s vekaleti kaldırıldı", assembly.Number, proxy.GiverID))
	})
	if err != nil {
		return err
	}

	s.metrics.GovernanceEvent(domain.EntityProxy, domain.ActionDelete)
	return nil
}

// ListProxies lists the proxies of an assembly in creation order
func (s *RosterService) ListProxies(ctx context.Context, orgID, assemblyID string) ([]*models.Proxy, error) {
	if err := s.requireAssembly(ctx, orgID, assemblyID); err != nil {
		return nil, err
	}
	return s.store.Proxies.ListByAssembly(ctx, orgID, assemblyID)
}

func (s *RosterService) requireAssembly(ctx context.Context, orgID, assemblyID string) error {
	exists, err := s.store.Assemblies.Exists(ctx, orgID, assemblyID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrAssemblyNotFound
	}
	return nil
}

func (s *RosterService) getAttendee(ctx context.Context, orgID, assemblyID, id string) (*models.Attendee, error) {
	attendee, err := s.store.Attendees.GetByID(ctx, orgID, assemblyID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrAttendeeNotFound)
	}
	return attendee, nil
}

func (s *RosterService) getProxy(ctx context.Context, orgID, assemblyID, id string) (*models.Proxy, error) {
	proxy, err := s.store.Proxies.GetByID(ctx, orgID, assemblyID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrProxyNotFound)
	}
	return proxy, nil
}

// lockNotCompleted locks an assembly row and fails once it is COMPLETED
func lockNotCompleted(ctx context.Context, tx *repositories.Store, orgID, id string) (*models.Assembly, error) {
	assembly, err := tx.Assemblies.GetForUpdate(ctx, orgID, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrAssemblyNotFound)
	}
	if assembly.Status == domain.AssemblyCompleted {
		return nil, fmt.Errorf("%w (assembly %s)", domain.ErrAssemblyCompleted, assembly.Number)
	}
	return assembly, nil
}
