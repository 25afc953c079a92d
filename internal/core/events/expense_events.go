package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseSubmitted = "expense.submitted"
	EventTypeExpenseApproved  = "expense.approved"
	EventTypeExpenseRejected  = "expense.rejected"
)

// ExpenseSubmittedEvent is returned by the Submit mutator and published after
// the transition has been committed.
type ExpenseSubmittedEvent struct {
	BaseEvent
	ExpenseID string `json:"expense_id"`
	UserID    string `json:"user_id"`
	Amount    int64  `json:"amount"`
}

func NewExpenseSubmittedEvent(expenseID, userID string, amount int64) *ExpenseSubmittedEvent {
	return &ExpenseSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
				"user_id":    userID,
				"amount":     amount,
			},
		},
		ExpenseID: expenseID,
		UserID:    userID,
		Amount:    amount,
	}
}

type ExpenseApprovedEvent struct {
	BaseEvent
	ExpenseID  string `json:"expense_id"`
	ApproverID string `json:"approver_id"`
	Amount     int64  `json:"amount"`
}

func NewExpenseApprovedEvent(expenseID, approverID string, amount int64) *ExpenseApprovedEvent {
	return &ExpenseApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id":  expenseID,
				"approver_id": approverID,
				"amount":      amount,
			},
		},
		ExpenseID:  expenseID,
		ApproverID: approverID,
		Amount:     amount,
	}
}

type ExpenseRejectedEvent struct {
	BaseEvent
	ExpenseID  string `json:"expense_id"`
	RejecterID string `json:"rejecter_id"`
	Reason     string `json:"reason"`
}

func NewExpenseRejectedEvent(expenseID, rejecterID, reason string) *ExpenseRejectedEvent {
	return &ExpenseRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id":  expenseID,
				"rejecter_id": rejecterID,
				"reason":      reason,
			},
		},
		ExpenseID:  expenseID,
		RejecterID: rejecterID,
		Reason:     reason,
	}
}
