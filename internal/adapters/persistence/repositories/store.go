package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store groups every governance repository over one connection or transaction
type Store struct {
	db *gorm.DB

	Members    MemberRepository
	Decisions  *DecisionRepository
	Links      *MemberLinkRepository
	Assemblies *AssemblyRepository
	Attendees  *AttendeeRepository
	Proxies    *ProxyRepository
	Audit      *AuditRepository
}

// NewStore creates a store bound to db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Members:    NewMemberRepository(db),
		Decisions:  NewDecisionRepository(db),
		Links:      NewMemberLinkRepository(db),
		Assemblies: NewAssemblyRepository(db),
		Attendees:  NewAttendeeRepository(db),
		Proxies:    NewProxyRepository(db),
		Audit:      NewAuditRepository(db),
	}
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction runs fn with a store bound to a single database transaction.
// fn must only use the store it receives.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// forUpdate adds a row lock where the dialect has one
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
