package auditlog

import (
	"fmt"
	"time"

	auditDatamodel "expense-approval/internal/core/datamodel/auditlog"

	"github.com/google/uuid"
)

const (
	ActionCreated           = "Created"
	ActionUpdated           = "Updated"
	ActionSubmitted         = "Submitted"
	ActionApproved          = "Approved"
	ActionRejected          = "Rejected"
	ActionDeleted           = "Deleted"
	ActionAttachmentAdded   = "AttachmentAdded"
	ActionAttachmentRemoved = "AttachmentRemoved"
)

// AuditLog is an immutable record of one state-changing operation on an
// expense request. Exactly one record is written per successful mutation, in
// the same transaction; records are never amended.
type AuditLog struct {
	ID             string    `json:"id"`
	ExpenseID      string    `json:"expense_id"`
	UserID         string    `json:"user_id"`
	Action         string    `json:"action"`
	PreviousStatus *string   `json:"previous_status,omitempty"`
	NewStatus      *string   `json:"new_status,omitempty"`
	Details        *string   `json:"details,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func newLog(expenseID, userID, action string, previous, next, details *string) *AuditLog {
	return &AuditLog{
		ID:             uuid.New().String(),
		ExpenseID:      expenseID,
		UserID:         userID,
		Action:         action,
		PreviousStatus: previous,
		NewStatus:      next,
		Details:        details,
		CreatedAt:      time.Now(),
	}
}

func strPtr(s string) *string { return &s }

func NewCreated(expenseID, userID, newStatus string) *AuditLog {
	return newLog(expenseID, userID, ActionCreated, nil, strPtr(newStatus), nil)
}

func NewUpdated(expenseID, userID, changeSummary string) *AuditLog {
	return newLog(expenseID, userID, ActionUpdated, nil, nil, strPtr(changeSummary))
}

func NewSubmitted(expenseID, userID, previousStatus, newStatus string) *AuditLog {
	return newLog(expenseID, userID, ActionSubmitted, strPtr(previousStatus), strPtr(newStatus), nil)
}

func NewApproved(expenseID, approverID, previousStatus, newStatus string) *AuditLog {
	return newLog(expenseID, approverID, ActionApproved, strPtr(previousStatus), strPtr(newStatus), nil)
}

func NewRejected(expenseID, rejecterID, previousStatus, newStatus, reason string) *AuditLog {
	return newLog(expenseID, rejecterID, ActionRejected, strPtr(previousStatus), strPtr(newStatus),
		strPtr(fmt.Sprintf("reason: %s", reason)))
}

func NewDeleted(expenseID, userID string) *AuditLog {
	return newLog(expenseID, userID, ActionDeleted, strPtr("draft"), nil, nil)
}

func NewAttachmentAdded(expenseID, userID, url string) *AuditLog {
	return newLog(expenseID, userID, ActionAttachmentAdded, nil, nil, strPtr(fmt.Sprintf("attachment: %s", url)))
}

func NewAttachmentRemoved(expenseID, userID, url string) *AuditLog {
	return newLog(expenseID, userID, ActionAttachmentRemoved, nil, nil, strPtr(fmt.Sprintf("attachment: %s", url)))
}

// Repository reads the audit trail; writes happen inside the expense unit of
// work so a mutation and its record commit together.
type Repository interface {
	ListByExpense(expenseID string) ([]*AuditLog, error)
}

func ToDataModel(l *AuditLog) *auditDatamodel.AuditLog {
	return &auditDatamodel.AuditLog{
		ID:             l.ID,
		ExpenseID:      l.ExpenseID,
		UserID:         l.UserID,
		Action:         l.Action,
		PreviousStatus: l.PreviousStatus,
		NewStatus:      l.NewStatus,
		Details:        l.Details,
		CreatedAt:      l.CreatedAt,
	}
}

func FromDataModel(m *auditDatamodel.AuditLog) *AuditLog {
	return &AuditLog{
		ID:             m.ID,
		ExpenseID:      m.ExpenseID,
		UserID:         m.UserID,
		Action:         m.Action,
		PreviousStatus: m.PreviousStatus,
		NewStatus:      m.NewStatus,
		Details:        m.Details,
		CreatedAt:      m.CreatedAt,
	}
}

func FromDataModelSlice(models []*auditDatamodel.AuditLog) []*AuditLog {
	result := make([]*AuditLog, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
