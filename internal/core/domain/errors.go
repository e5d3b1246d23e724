package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrState        = errors.New("invalid state")
	ErrPrecondition = errors.New("precondition failed")
	ErrNotFound     = errors.New("resource not found")
)

// Common domain errors
var (
	ErrOrganizationRequired = fmt.Errorf("%w: organization is required", ErrValidation)
	ErrInvalidDate          = fmt.Errorf("%w: invalid date, use YYYY-MM-DD or RFC 3339", ErrValidation)
)

// Decision errors
var (
	ErrDecisionNotFound        = fmt.Errorf("%w: decision not found", ErrNotFound)
	ErrDecisionNumberRequired  = fmt.Errorf("%w: decision number is required", ErrValidation)
	ErrDecisionSubjectRequired = fmt.Errorf("%w: decision subject is required", ErrValidation)
	ErrDecisionDateRequired    = fmt.Errorf("%w: decision date is required", ErrValidation)
	ErrDecisionNumberExists    = fmt.Errorf("%w: decision number already exists", ErrConflict)
	ErrDecisionFinalized       = fmt.Errorf("%w: decision is finalized", ErrState)
	ErrInvalidDecisionStatus   = fmt.Errorf("%w: invalid decision status", ErrValidation)
)

// Member link errors
var (
	ErrLinkNotFound    = fmt.Errorf("%w: member link not found", ErrNotFound)
	ErrInvalidLinkType = fmt.Errorf("%w: invalid link type", ErrValidation)
	ErrLinkExists      = fmt.Errorf("%w: member is already linked to this decision with this type", ErrConflict)
)

// Member errors
var (
	ErrMemberNotFound       = fmt.Errorf("%w: member not found", ErrNotFound)
	ErrMemberNameRequired   = fmt.Errorf("%w: member first and last name are required", ErrValidation)
	ErrMemberNumberExists   = fmt.Errorf("%w: member number already exists", ErrConflict)
	ErrInvalidMemberStatus  = fmt.Errorf("%w: invalid member status", ErrValidation)
	ErrMemberTransition     = fmt.Errorf("%w: member status transition not allowed", ErrState)
	ErrDecisionIDRequired   = fmt.Errorf("%w: decision id is required", ErrValidation)
	ErrDecisionLinkMissing  = fmt.Errorf("%w: no matching decision link", ErrPrecondition)
	ErrDecisionNotFinalized = fmt.Errorf("%w: linked decision is not finalized", ErrPrecondition)
)

// Assembly errors
var (
	ErrAssemblyNotFound       = fmt.Errorf("%w: assembly not found", ErrNotFound)
	ErrAssemblyNumberRequired = fmt.Errorf("%w: assembly number is required", ErrValidation)
	ErrAssemblyDateRequired   = fmt.Errorf("%w: assembly date is required", ErrValidation)
	ErrAssemblyNumberExists   = fmt.Errorf("%w: assembly number already exists", ErrConflict)
	ErrInvalidAssemblyType    = fmt.Errorf("%w: invalid assembly type", ErrValidation)
	ErrInvalidAssemblyStatus  = fmt.Errorf("%w: invalid assembly status", ErrValidation)
	ErrInvalidQuorum          = fmt.Errorf("%w: required quorum must be greater than 0", ErrValidation)
	ErrAgendaTitleRequired    = fmt.Errorf("%w: agenda item title is required", ErrValidation)
	ErrAssemblyTransition     = fmt.Errorf("%w: assembly status transition not allowed", ErrState)
	ErrAssemblyCompleted      = fmt.Errorf("%w: assembly is completed", ErrState)
	ErrAssemblyClosed         = fmt.Errorf("%w: assembly is completed or cancelled", ErrState)
)

// Roster errors
var (
	ErrAttendeeNotFound     = fmt.Errorf("%w: attendee not found", ErrNotFound)
	ErrAlreadyCheckedIn     = fmt.Errorf("%w: member already checked in", ErrConflict)
	ErrInvalidAttendType    = fmt.Errorf("%w: invalid attendance type", ErrValidation)
	ErrGiverHasProxy        = fmt.Errorf("%w: member has granted a proxy for this assembly", ErrConflict)
	ErrProxyNotFound        = fmt.Errorf("%w: proxy not found", ErrNotFound)
	ErrProxySelf            = fmt.Errorf("%w: proxy giver and receiver must differ", ErrValidation)
	ErrProxyExists          = fmt.Errorf("%w: giver already has a proxy for this assembly", ErrConflict)
	ErrGiverCheckedIn       = fmt.Errorf("%w: giver is checked in as an attendee", ErrConflict)
	ErrReceiverLimitReached = fmt.Errorf("%w: receiver holds the maximum number of proxies", ErrConflict)
)

// Kind returns a stable machine-readable label for the error kind of err
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrState):
		return "STATE"
	case errors.Is(err, ErrPrecondition):
		return "PRECONDITION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}
