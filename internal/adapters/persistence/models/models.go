package models

import (
	"time"

	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/pkg/textsearch"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID returns a fresh opaque identifier
func newID() string {
	return uuid.NewString()
}

// ============================================================
// Members (partial view used by the governance core)
// ============================================================

// Member represents members table
type Member struct {
	ID                     string              `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID         string              `gorm:"size:36;not null;index;uniqueIndex:idx_members_org_number" json:"organization_id"`
	FirstName              string              `gorm:"size:100;not null" json:"first_name"`
	LastName               string              `gorm:"size:100;not null" json:"last_name"`
	MemberNumber           *string             `gorm:"size:50;uniqueIndex:idx_members_org_number" json:"member_number"`
	Status                 domain.MemberStatus `gorm:"size:20;not null;index;default:'PENDING'" json:"status"`
	ResignationReason      string              `gorm:"type:text" json:"resignation_reason,omitempty"`
	ResignationRequestedAt *time.Time          `json:"resignation_requested_at,omitempty"`
	JoinedAt               *time.Time          `json:"joined_at,omitempty"`
	LeftAt                 *time.Time          `json:"left_at,omitempty"`
	SearchKey              string              `gorm:"size:255;index" json:"-"`
	CreatedAt              time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// BeforeCreate assigns the id and the folded search key (name and number)
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = newID()
	}
	key := m.FirstName + " " + m.LastName
	if m.MemberNumber != nil {
		key += " " + *m.MemberNumber
	}
	m.SearchKey = textsearch.Fold(key)
	return nil
}

// FullName returns "first last"
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// MemberResponse DTO
type MemberResponse struct {
	ID                     string              `json:"id"`
	FullName               string              `json:"full_name"`
	FirstName              string              `json:"first_name"`
	LastName               string              `json:"last_name"`
	MemberNumber           *string             `json:"member_number"`
	Status                 domain.MemberStatus `json:"status"`
	ResignationReason      string              `json:"resignation_reason,omitempty"`
	ResignationRequestedAt *time.Time          `json:"resignation_requested_at,omitempty"`
	JoinedAt               *time.Time          `json:"joined_at,omitempty"`
	LeftAt                 *time.Time          `json:"left_at,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:                     m.ID,
		FullName:               m.FullName(),
		FirstName:              m.FirstName,
		LastName:               m.LastName,
		MemberNumber:           m.MemberNumber,
		Status:                 m.Status,
		ResignationReason:      m.ResignationReason,
		ResignationRequestedAt: m.ResignationRequestedAt,
		JoinedAt:               m.JoinedAt,
		LeftAt:                 m.LeftAt,
		CreatedAt:              m.CreatedAt,
	}
}

// ============================================================
// Decisions (Yönetim Kurulu kararları)
// ============================================================

// Decision represents decisions table
type Decision struct {
	ID             string                `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string                `gorm:"size:36;not null;index;uniqueIndex:idx_decisions_org_number" json:"organization_id"`
	Number         string                `gorm:"size:50;not null;uniqueIndex:idx_decisions_org_number" json:"number"`
	DecisionDate   time.Time             `gorm:"type:date;not null" json:"decision_date"`
	Subject        string                `gorm:"size:255;not null" json:"subject"`
	Content        string                `gorm:"type:text" json:"content"`
	Description    string                `gorm:"type:text" json:"description"`
	Status         domain.DecisionStatus `gorm:"size:20;not null;index;default:'DRAFT'" json:"status"`
	FinalizedAt    *time.Time            `json:"finalized_at"`
	CreatedBy      string                `gorm:"size:36" json:"created_by"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Links []MemberLink `gorm:"foreignKey:DecisionID" json:"links,omitempty"`
}

func (Decision) TableName() string {
	return "decisions"
}

func (d *Decision) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = newID()
	}
	return nil
}

// IsFinalized reports whether the decision has taken legal effect
func (d *Decision) IsFinalized() bool {
	return d.Status == domain.DecisionFinalized
}

// MemberLink represents decision_member_links table
type MemberLink struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string          `gorm:"size:36;not null;index" json:"organization_id"`
	DecisionID     string          `gorm:"size:36;not null;uniqueIndex:idx_links_decision_member_type" json:"decision_id"`
	MemberID       string          `gorm:"size:36;not null;index;uniqueIndex:idx_links_decision_member_type" json:"member_id"`
	LinkType       domain.LinkType `gorm:"size:30;not null;uniqueIndex:idx_links_decision_member_type" json:"link_type"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Decision *Decision `gorm:"foreignKey:DecisionID" json:"decision,omitempty"`
	Member   *Member   `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (MemberLink) TableName() string {
	return "decision_member_links"
}

func (l *MemberLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = newID()
	}
	return nil
}

// ============================================================
// General assemblies (Genel Kurul)
// ============================================================

// Assembly represents assemblies table
type Assembly struct {
	ID             string                `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string                `gorm:"size:36;not null;index;uniqueIndex:idx_assemblies_org_number" json:"organization_id"`
	Type           domain.AssemblyType   `gorm:"size:20;not null" json:"type"`
	Number         string                `gorm:"size:50;not null;uniqueIndex:idx_assemblies_org_number" json:"number"`
	Date           time.Time             `gorm:"not null" json:"date"`
	Location       string                `gorm:"size:255" json:"location"`
	QuorumRequired int                   `gorm:"not null" json:"quorum_required"`
	Status         domain.AssemblyStatus `gorm:"size:20;not null;index;default:'PLANNED'" json:"status"`
	StartedAt      *time.Time            `json:"started_at"`
	CompletedAt    *time.Time            `json:"completed_at"`
	CancelledAt    *time.Time            `json:"cancelled_at"`
	CreatedBy      string                `gorm:"size:36" json:"created_by"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Agenda []AgendaItem `gorm:"foreignKey:AssemblyID" json:"agenda,omitempty"`
}

func (Assembly) TableName() string {
	return "assemblies"
}

func (a *Assembly) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}

// AgendaItem represents assembly_agenda_items table (gündem maddesi)
type AgendaItem struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	AssemblyID   string `gorm:"size:36;not null;index" json:"assembly_id"`
	Position     int    `gorm:"not null" json:"position"`
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	DecisionText string `gorm:"type:text" json:"decision_text,omitempty"`
}

func (AgendaItem) TableName() string {
	return "assembly_agenda_items"
}

func (i *AgendaItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return nil
}

// Attendee represents assembly_attendees table (hazirun)
type Attendee struct {
	ID             string            `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string            `gorm:"size:36;not null;index" json:"organization_id"`
	AssemblyID     string            `gorm:"size:36;not null;uniqueIndex:idx_attendees_assembly_member" json:"assembly_id"`
	MemberID       string            `gorm:"size:36;not null;uniqueIndex:idx_attendees_assembly_member" json:"member_id"`
	AttendType     domain.AttendType `gorm:"size:20;not null;default:'IN_PERSON'" json:"attend_type"`
	Signed         bool              `gorm:"default:false" json:"signed"`
	CheckedInAt    time.Time         `gorm:"not null" json:"checked_in_at"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Attendee) TableName() string {
	return "assembly_attendees"
}

func (a *Attendee) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}

// Proxy represents assembly_proxies table (vekalet)
type Proxy struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string     `gorm:"size:36;not null;index" json:"organization_id"`
	AssemblyID     string     `gorm:"size:36;not null;uniqueIndex:idx_proxies_assembly_giver" json:"assembly_id"`
	GiverID        string     `gorm:"size:36;not null;uniqueIndex:idx_proxies_assembly_giver" json:"giver_id"`
	ReceiverID     string     `gorm:"size:36;not null;index" json:"receiver_id"`
	DocumentRef    *string    `gorm:"size:500" json:"document_ref"`
	Approved       bool       `gorm:"not null;default:false" json:"approved"`
	ApprovedAt     *time.Time `json:"approved_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Giver    *Member `gorm:"foreignKey:GiverID" json:"giver,omitempty"`
	Receiver *Member `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

func (Proxy) TableName() string {
	return "assembly_proxies"
}

func (p *Proxy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}

// ============================================================
// Audit trail
// ============================================================

// AuditEntry represents governance_audit_log table
type AuditEntry struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string    `gorm:"size:36;not null;index" json:"organization_id"`
	EntityType     string    `gorm:"size:30;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID       string    `gorm:"size:36;not null;index:idx_audit_entity" json:"entity_id"`
	Action         string    `gorm:"size:30;not null" json:"action"`
	Description    string    `gorm:"type:text" json:"description"`
	PerformedBy    string    `gorm:"size:36" json:"performed_by"`
	IPAddress      string    `gorm:"size:50" json:"ip_address"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "governance_audit_log"
}

func (e *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	return nil
}

// ============================================================
// Auto Migration
// ============================================================

// MigrateModels lists every table owned by this service
var MigrateModels = []interface{}{
	&Member{},
	&Decision{},
	&MemberLink{},
	&Assembly{},
	&AgendaItem{},
	&Attendee{},
	&Proxy{},
	&AuditEntry{},
}

// AutoMigrate creates or updates all tables and their unique indexes
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(MigrateModels...)
}
