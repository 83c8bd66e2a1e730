package safebox

import (
	"context"
	"time"
)

// CaseStatus is the stage a reported case is in.
type CaseStatus string

const (
	StatusReceived      CaseStatus = "received"
	StatusUnderReview   CaseStatus = "under_review"
	StatusInvestigating CaseStatus = "investigating"
	StatusResolved      CaseStatus = "resolved"
	StatusClosed        CaseStatus = "closed"
)

// StatusLabel returns the human-readable label for a case status.
func StatusLabel(status CaseStatus) string {
	switch status {
	case StatusReceived:
		return "Case Received"
	case StatusUnderReview:
		return "Under Review"
	case StatusInvestigating:
		return "Under Investigation"
	case StatusResolved:
		return "Resolved"
	case StatusClosed:
		return "Closed"
	default:
		return string(status)
	}
}

// Case is the tracker row for one filed report, keyed by its public case code.
type Case struct {
	Code       string
	Title      string
	CrimeType  string
	Status     CaseStatus
	Priority   string
	ReportedAt time.Time
	UpdatedAt  time.Time
}

// CaseUpdate is one entry in a case's status timeline.
type CaseUpdate struct {
	ID        string
	CaseCode  string
	Status    CaseStatus
	Message   string
	UpdatedBy string
	CreatedAt time.Time
}

// CaseDatabase persists the case tracker. Implementations are typically
// backed by a local SQLite database.
type CaseDatabase interface {
	// CreateCase inserts a new case row.
	CreateCase(ctx context.Context, c *Case) error

	// FindCase returns the case with the given code, or nil if unknown.
	FindCase(ctx context.Context, code string) (*Case, error)

	// ListCases returns all cases, most recently reported first.
	ListCases(ctx context.Context) ([]*Case, error)

	// AddUpdate appends a timeline entry and moves the case to its status.
	AddUpdate(ctx context.Context, update *CaseUpdate) error

	// ListUpdates returns a case's timeline, oldest first.
	ListUpdates(ctx context.Context, code string) ([]*CaseUpdate, error)

	Close() error
}
