package models

import "time"

// IssueStatus is the lifecycle state of a borrowing record.
type IssueStatus string

const (
	IssueStatusRequested IssueStatus = "requested"
	IssueStatusIssued    IssueStatus = "issued"
	IssueStatusReturned  IssueStatus = "returned"
	IssueStatusRevoked   IssueStatus = "revoked"
)

// CanTransitionTo reports whether a record in status s may move to next.
//
//	requested -> issued -> returned
//	requested -> revoked
//	issued    -> revoked
//
// Returned and revoked are terminal.
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	switch s {
	case IssueStatusRequested:
		return next == IssueStatusIssued || next == IssueStatusRevoked
	case IssueStatusIssued:
		return next == IssueStatusReturned || next == IssueStatusRevoked
	}
	return false
}

// IssueHistory records a user's request to borrow a book. The table exists
// in the schema; no request handler creates or transitions rows yet.
type IssueHistory struct {
	IssueID    int64       `json:"issue_id"`
	UserID     int64       `json:"user_id"`
	BookID     int64       `json:"book_id"`
	IssuedAt   time.Time   `json:"issued_at"`
	ReturnedAt *time.Time  `json:"returned_at,omitempty"`
	Status     IssueStatus `json:"status"`
}
