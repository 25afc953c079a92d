package expense

import (
	"fmt"
	"time"

	errors "expense-approval/internal"
	expenseDatamodel "expense-approval/internal/core/datamodel/expense"
	"expense-approval/internal/core/events"
	"expense-approval/internal/user"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

const (
	// ReceiptThreshold is the amount above which a request cannot be
	// submitted without at least one receipt attachment.
	ReceiptThreshold int64 = 100

	// ApprovalCeiling is the amount above which only an admin may approve.
	ApprovalCeiling int64 = 1000

	// MaxLookbackDays bounds how old an expense date may be at creation.
	MaxLookbackDays = 90
)

// ExpenseRequest is the approval workflow aggregate. All business rules live
// here so the same guarantees hold for any caller; mutators validate first and
// leave the entity untouched on failure.
type ExpenseRequest struct {
	ID              string     `json:"id"`
	CreatorID       string     `json:"creator_id"`
	CreatorRole     user.Role  `json:"creator_role"`
	CreatorName     string     `json:"creator_name,omitempty"`
	CategoryID      *string    `json:"category_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Amount          int64      `json:"amount"`
	ExpenseDate     time.Time  `json:"expense_date"`
	Status          Status     `json:"status"`
	Attachments     []string   `json:"attachments"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ProcessedBy     *string    `json:"processed_by,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewExpenseRequest creates a draft request for the given creator. The creator
// role is captured here and consulted later by the approval guards.
func NewExpenseRequest(creatorID string, creatorRole user.Role, title, description string, amount int64, expenseDate time.Time, categoryID *string) (*ExpenseRequest, error) {
	if err := validateDetails(title, amount); err != nil {
		return nil, err
	}
	if err := validateExpenseDate(expenseDate, time.Now()); err != nil {
		return nil, err
	}

	now := time.Now()
	return &ExpenseRequest{
		ID:          uuid.New().String(),
		CreatorID:   creatorID,
		CreatorRole: creatorRole,
		CategoryID:  categoryID,
		Title:       title,
		Description: description,
		Amount:      amount,
		ExpenseDate: expenseDate,
		Status:      StatusDraft,
		Attachments: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validateDetails(title string, amount int64) error {
	if title == "" {
		return errors.NewBusinessRuleError("title is required")
	}
	if amount <= 0 {
		return errors.NewBusinessRuleError("amount must be greater than zero")
	}
	return nil
}

func validateExpenseDate(expenseDate, now time.Time) error {
	if expenseDate.After(now) {
		return errors.NewBusinessRuleError("expense date cannot be in the future")
	}
	if expenseDate.Before(now.AddDate(0, 0, -MaxLookbackDays)) {
		return errors.NewBusinessRuleError(fmt.Sprintf("expense date cannot be older than %d days", MaxLookbackDays))
	}
	return nil
}

// SetCreatorRole refreshes the captured creator role. Only the orchestration
// layer calls this, once, before running approval guards.
func (e *ExpenseRequest) SetCreatorRole(role user.Role) {
	e.CreatorRole = role
}

// Update edits a draft in place and returns a summary of the changed fields
// for the audit trail.
func (e *ExpenseRequest) Update(userID, title, description string, amount int64, categoryID *string) (string, error) {
	if e.Status != StatusDraft {
		return "", errors.NewBusinessRuleError("only draft requests can be edited")
	}
	if userID != e.CreatorID {
		return "", errors.NewBusinessRuleError("only the creator can edit this expense request")
	}
	if err := validateDetails(title, amount); err != nil {
		return "", err
	}

	var changed []string
	if title != e.Title {
		changed = append(changed, "title")
	}
	if description != e.Description {
		changed = append(changed, "description")
	}
	if amount != e.Amount {
		changed = append(changed, fmt.Sprintf("amount %d -> %d", e.Amount, amount))
	}
	if !equalCategory(categoryID, e.CategoryID) {
		changed = append(changed, "category")
	}

	e.Title = title
	e.Description = description
	e.Amount = amount
	e.CategoryID = categoryID
	e.UpdatedAt = time.Now()

	return summarizeChanges(changed), nil
}

func equalCategory(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func summarizeChanges(changed []string) string {
	if len(changed) == 0 {
		return "no fields changed"
	}
	summary := "changed: " + changed[0]
	for _, c := range changed[1:] {
		summary += ", " + c
	}
	return summary
}

// Submit moves a draft to submitted. Requests over the receipt threshold must
// carry at least one attachment before they can be submitted.
func (e *ExpenseRequest) Submit(userID string) (*events.ExpenseSubmittedEvent, error) {
	if e.Status != StatusDraft {
		return nil, errors.NewBusinessRuleError("only draft requests can be submitted")
	}
	if userID != e.CreatorID {
		return nil, errors.NewBusinessRuleError("only the creator can submit this expense request")
	}
	if e.Amount > ReceiptThreshold && len(e.Attachments) == 0 {
		return nil, errors.NewBusinessRuleError(fmt.Sprintf("expense requests over %d require at least one receipt attachment", ReceiptThreshold))
	}

	now := time.Now()
	e.Status = StatusSubmitted
	e.SubmittedAt = &now
	e.UpdatedAt = now

	return events.NewExpenseSubmittedEvent(e.ID, userID, e.Amount), nil
}

// Approve transitions submitted to approved. Guards run in order; the first
// failure wins since callers key off the message text.
func (e *ExpenseRequest) Approve(actorID string, actorRole user.Role) (*events.ExpenseApprovedEvent, error) {
	if !actorRole.CanModerate() {
		return nil, errors.NewBusinessRuleError("only managers or admins can approve expense requests")
	}
	if e.Status != StatusSubmitted {
		return nil, errors.NewBusinessRuleError("only submitted requests can be approved")
	}
	if actorRole == user.RoleManager && actorID == e.CreatorID {
		return nil, errors.NewBusinessRuleError("managers cannot approve their own expense requests")
	}
	if actorRole == user.RoleManager && e.CreatorRole == user.RoleManager {
		return nil, errors.NewBusinessRuleError("only an admin can approve another manager's expense request")
	}
	if e.Amount > ApprovalCeiling && !actorRole.IsAdmin() {
		return nil, errors.NewBusinessRuleError(fmt.Sprintf("only an admin can approve expense requests above %d", ApprovalCeiling))
	}

	now := time.Now()
	e.Status = StatusApproved
	e.ProcessedAt = &now
	e.ProcessedBy = &actorID
	e.UpdatedAt = now

	return events.NewExpenseApprovedEvent(e.ID, actorID, e.Amount), nil
}

// Reject transitions submitted to rejected, storing the reason verbatim.
func (e *ExpenseRequest) Reject(actorID string, actorRole user.Role, reason string) (*events.ExpenseRejectedEvent, error) {
	if !actorRole.CanModerate() {
		return nil, errors.NewBusinessRuleError("only managers or admins can reject expense requests")
	}
	if e.Status != StatusSubmitted {
		return nil, errors.NewBusinessRuleError("only submitted requests can be rejected")
	}
	if reason == "" {
		return nil, errors.NewBusinessRuleError("rejection reason is required")
	}

	now := time.Now()
	e.Status = StatusRejected
	e.RejectionReason = &reason
	e.ProcessedAt = &now
	e.ProcessedBy = &actorID
	e.UpdatedAt = now

	return events.NewExpenseRejectedEvent(e.ID, actorID, reason), nil
}

// AddAttachment attaches a receipt URL. Attachments are mutable only while the
// request is a draft.
func (e *ExpenseRequest) AddAttachment(url string) error {
	if e.Status != StatusDraft {
		return errors.NewBusinessRuleError("attachments can only be added to draft requests")
	}
	if url == "" {
		return errors.NewBusinessRuleError("attachment url is required")
	}

	e.Attachments = append(e.Attachments, url)
	e.UpdatedAt = time.Now()
	return nil
}

func (e *ExpenseRequest) RemoveAttachment(url string) error {
	if e.Status != StatusDraft {
		return errors.NewBusinessRuleError("attachments can only be removed from draft requests")
	}

	for i, existing := range e.Attachments {
		if existing == url {
			e.Attachments = append(e.Attachments[:i], e.Attachments[i+1:]...)
			e.UpdatedAt = time.Now()
			return nil
		}
	}
	return errors.NewBusinessRuleError("attachment not found on this expense request")
}

// EnsureNotApproved lets collaborators fail fast before attempting a mutation
// on a terminal request.
func (e *ExpenseRequest) EnsureNotApproved() error {
	if e.Status == StatusApproved {
		return errors.NewBusinessRuleError("expense request is already approved")
	}
	return nil
}

func (e *ExpenseRequest) EnsureNotRejected() error {
	if e.Status == StatusRejected {
		return errors.NewBusinessRuleError("expense request is already rejected")
	}
	return nil
}

// EnsureDeletable guards the orchestration-level delete: draft only, creator only.
func (e *ExpenseRequest) EnsureDeletable(userID string) error {
	if e.Status != StatusDraft {
		return errors.NewBusinessRuleError("only draft requests can be deleted")
	}
	if userID != e.CreatorID {
		return errors.NewBusinessRuleError("only the creator can delete this expense request")
	}
	return nil
}

func (e *ExpenseRequest) IsTerminal() bool {
	return e.Status == StatusApproved || e.Status == StatusRejected
}

func ToDataModel(e *ExpenseRequest) *expenseDatamodel.ExpenseRequest {
	return &expenseDatamodel.ExpenseRequest{
		ID:              e.ID,
		CreatorID:       e.CreatorID,
		CreatorRole:     string(e.CreatorRole),
		CategoryID:      e.CategoryID,
		Title:           e.Title,
		Description:     e.Description,
		Amount:          e.Amount,
		ExpenseDate:     e.ExpenseDate,
		Status:          string(e.Status),
		Attachments:     append([]string{}, e.Attachments...),
		RejectionReason: e.RejectionReason,
		ProcessedBy:     e.ProcessedBy,
		SubmittedAt:     e.SubmittedAt,
		ProcessedAt:     e.ProcessedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// FromDataModel is the reconstruction path used only by the persistence
// adapter; it bypasses creation-time validation on purpose.
func FromDataModel(m *expenseDatamodel.ExpenseRequest) *ExpenseRequest {
	attachments := m.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &ExpenseRequest{
		ID:              m.ID,
		CreatorID:       m.CreatorID,
		CreatorRole:     user.Role(m.CreatorRole),
		CategoryID:      m.CategoryID,
		Title:           m.Title,
		Description:     m.Description,
		Amount:          m.Amount,
		ExpenseDate:     m.ExpenseDate,
		Status:          Status(m.Status),
		Attachments:     attachments,
		RejectionReason: m.RejectionReason,
		ProcessedBy:     m.ProcessedBy,
		SubmittedAt:     m.SubmittedAt,
		ProcessedAt:     m.ProcessedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*expenseDatamodel.ExpenseRequest) []*ExpenseRequest {
	result := make([]*ExpenseRequest, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
