package domain

// Role represents the caller's role inside an organization
type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleOfficer Role = "OFFICER"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

// DecisionStatus is the lifecycle state of a board decision (karar)
type DecisionStatus string

const (
	DecisionDraft     DecisionStatus = "DRAFT"
	DecisionFinalized DecisionStatus = "FINALIZED"
)

// Valid reports whether s is a known decision status
func (s DecisionStatus) Valid() bool {
	return s == DecisionDraft || s == DecisionFinalized
}

// CanTransition reports whether a decision may move from s to target.
// The only move is DRAFT -> FINALIZED and it happens once.
func (s DecisionStatus) CanTransition(target DecisionStatus) bool {
	return s == DecisionDraft && target == DecisionFinalized
}

// LinkType is the semantic meaning of a decision-member link
type LinkType string

const (
	LinkMembershipAccept  LinkType = "MEMBERSHIP_ACCEPT"
	LinkResignationAccept LinkType = "RESIGNATION_ACCEPT"
	LinkExpulsion         LinkType = "EXPULSION"
	LinkOther             LinkType = "OTHER"
)

// Valid reports whether t is a known link type
func (t LinkType) Valid() bool {
	switch t {
	case LinkMembershipAccept, LinkResignationAccept, LinkExpulsion, LinkOther:
		return true
	default:
		return false
	}
}

// MemberStatus is the membership state of a member. Only the statuses this
// service moves between are listed; others are owned elsewhere.
type MemberStatus string

const (
	MemberPending        MemberStatus = "PENDING"
	MemberActive         MemberStatus = "ACTIVE"
	MemberPassive        MemberStatus = "PASSIVE"
	MemberResignationReq MemberStatus = "RESIGNATION_REQ"
	MemberResigned       MemberStatus = "RESIGNED"
	MemberExpelled       MemberStatus = "EXPELLED"
)

// Valid reports whether s is a known member status
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberPending, MemberActive, MemberPassive, MemberResignationReq, MemberResigned, MemberExpelled:
		return true
	default:
		return false
	}
}

// memberTransitions lists every member status move this service performs
// and the decision link that has to back it (empty when none is needed).
var memberTransitions = map[MemberStatus]map[MemberStatus]LinkType{
	MemberPending: {
		MemberActive: LinkMembershipAccept,
	},
	MemberActive: {
		MemberResignationReq: "",
		MemberExpelled:       LinkExpulsion,
	},
	MemberPassive: {
		MemberResignationReq: "",
		MemberExpelled:       LinkExpulsion,
	},
	MemberResignationReq: {
		MemberActive:   "",
		MemberResigned: LinkResignationAccept,
		MemberExpelled: LinkExpulsion,
	},
}

// CanTransition reports whether a member may move from s to target
func (s MemberStatus) CanTransition(target MemberStatus) bool {
	_, ok := memberTransitions[s][target]
	return ok
}

// RequiredLink returns the decision link type that must back the move from
// s to target. ok is false when the move needs no decision.
func (s MemberStatus) RequiredLink(target MemberStatus) (LinkType, bool) {
	link := memberTransitions[s][target]
	return link, link != ""
}

// AssemblyType distinguishes ordinary and extraordinary general assemblies
type AssemblyType string

const (
	AssemblyOrdinary      AssemblyType = "OLAGAN"
	AssemblyExtraordinary AssemblyType = "OLAGANUSTU"
)

// Valid reports whether t is a known assembly type
func (t AssemblyType) Valid() bool {
	return t == AssemblyOrdinary || t == AssemblyExtraordinary
}

// AssemblyStatus is the lifecycle state of a general assembly (genel kurul)
type AssemblyStatus string

const (
	AssemblyPlanned    AssemblyStatus = "PLANNED"
	AssemblyInProgress AssemblyStatus = "IN_PROGRESS"
	AssemblyCompleted  AssemblyStatus = "COMPLETED"
	AssemblyCancelled  AssemblyStatus = "CANCELLED"
)

// Valid reports whether s is a known assembly status
func (s AssemblyStatus) Valid() bool {
	switch s {
	case AssemblyPlanned, AssemblyInProgress, AssemblyCompleted, AssemblyCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s
func (s AssemblyStatus) IsTerminal() bool {
	return s == AssemblyCompleted || s == AssemblyCancelled
}

// CanTransition reports whether an assembly may move from s to target
func (s AssemblyStatus) CanTransition(target AssemblyStatus) bool {
	switch s {
	case AssemblyPlanned:
		return target == AssemblyInProgress || target == AssemblyCancelled
	case AssemblyInProgress:
		return target == AssemblyCompleted || target == AssemblyCancelled
	default:
		return false
	}
}

// AttendType is how a member attends an assembly
type AttendType string

const (
	AttendInPerson AttendType = "IN_PERSON"
	AttendByProxy  AttendType = "BY_PROXY"
)

// Valid reports whether t is a known attend type
func (t AttendType) Valid() bool {
	return t == AttendInPerson || t == AttendByProxy
}

// Audit entity types
const (
	EntityDecision   = "DECISION"
	EntityMemberLink = "MEMBER_LINK"
	EntityMember     = "MEMBER"
	EntityAssembly   = "ASSEMBLY"
	EntityAttendee   = "ATTENDEE"
	EntityProxy      = "PROXY"
)

// Audit actions
const (
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionFinalize     = "FINALIZE"
	ActionLink         = "LINK"
	ActionUnlink       = "UNLINK"
	ActionStatusChange = "STATUS_CHANGE"
	ActionCheckIn      = "CHECK_IN"
	ActionSignature    = "SIGNATURE"
	ActionApproval     = "APPROVAL"
)

// Actor identifies who performed a mutation, for the audit trail
type Actor struct {
	UserID    string
	IPAddress string
}
