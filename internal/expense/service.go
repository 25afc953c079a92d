package expense

import (
	"context"
	"log/slog"

	errors "expense-approval/internal"
	"expense-approval/internal/auditlog"
	"expense-approval/internal/core/events"
	"expense-approval/internal/user"
)

// Repository persists expense requests. The *WithAudit methods are the atomic
// unit of work: the mutation and its audit record commit together or not at all.
type Repository interface {
	CreateWithAudit(exp *ExpenseRequest, log *auditlog.AuditLog) error
	SaveWithAudit(exp *ExpenseRequest, log *auditlog.AuditLog) error
	DeleteWithAudit(exp *ExpenseRequest, log *auditlog.AuditLog) error
	GetByID(id string) (*ExpenseRequest, error)
	List(params ListParams) ([]*ExpenseRequest, int64, error)
}

// UserDirectory is the identity lookup consumed by the workflow; the entity
// itself has no access to user records.
type UserDirectory interface {
	RoleOf(userID string) (user.Role, error)
	DisplayNameOf(userID string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service orchestrates the expense workflow: load, mutate, build the matching
// audit record, persist both atomically, then publish the domain event.
type Service struct {
	repo      Repository
	auditRepo auditlog.Repository
	directory UserDirectory
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, auditRepo auditlog.Repository, directory UserDirectory, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		auditRepo: auditRepo,
		directory: directory,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) CreateExpense(creatorID string, creatorRole user.Role, dto CreateExpenseDTO) (*ExpenseRequest, error) {
	exp, err := NewExpenseRequest(creatorID, creatorRole, dto.Title, dto.Description, dto.Amount, dto.ExpenseDate, dto.CategoryID)
	if err != nil {
		s.logger.Warn("expense creation rejected", "error", err, "creator_id", creatorID)
		return nil, err
	}

	log := auditlog.NewCreated(exp.ID, creatorID, string(exp.Status))
	if err := s.repo.CreateWithAudit(exp, log); err != nil {
		s.logger.Error("failed to persist expense", "error", err, "creator_id", creatorID)
		return nil, errors.NewInternalError("failed to create expense request", err)
	}

	s.logger.Info("expense request created",
		"expense_id", exp.ID,
		"creator_id", creatorID,
		"amount", exp.Amount)

	return exp, nil
}

func (s *Service) GetExpense(id, userID string, role user.Role) (*ExpenseRequest, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !role.CanModerate() && exp.CreatorID != userID {
		s.logger.Warn("expense access denied", "expense_id", id, "user_id", userID)
		return nil, errors.ErrExpenseNotFound
	}

	s.enrichCreatorName(exp)
	return exp, nil
}

func (s *Service) ListExpenses(params ListParams, userID string, role user.Role) (*ListExpensesResponse, error) {
	// Employees only ever see their own requests.
	if !role.CanModerate() {
		params.CreatorID = userID
	}
	params.Normalize()

	expenses, total, err := s.repo.List(params)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to list expense requests", err)
	}

	for _, exp := range expenses {
		s.enrichCreatorName(exp)
	}

	return &ListExpensesResponse{
		Expenses: expenses,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func (s *Service) UpdateExpense(id, userID string, dto UpdateExpenseDTO) (*ExpenseRequest, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	summary, err := exp.Update(userID, dto.Title, dto.Description, dto.Amount, dto.CategoryID)
	if err != nil {
		s.logger.Warn("expense update rejected", "error", err, "expense_id", id, "user_id", userID)
		return nil, err
	}

	log := auditlog.NewUpdated(exp.ID, userID, summary)
	if err := s.repo.SaveWithAudit(exp, log); err != nil {
		s.logger.Error("failed to persist expense update", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to update expense request", err)
	}

	return exp, nil
}

func (s *Service) SubmitExpense(ctx context.Context, id, userID string) (*ExpenseRequest, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	previous := string(exp.Status)
	event, err := exp.Submit(userID)
	if err != nil {
		s.logger.Warn("expense submission rejected", "error", err, "expense_id", id, "user_id", userID)
		return nil, err
	}

	log := auditlog.NewSubmitted(exp.ID, userID, previous, string(exp.Status))
	if err := s.repo.SaveWithAudit(exp, log); err != nil {
		s.logger.Error("failed to persist expense submission", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to submit expense request", err)
	}

	s.publish(ctx, event)
	s.logger.Info("expense request submitted", "expense_id", id, "user_id", userID, "amount", exp.Amount)

	return exp, nil
}

func (s *Service) ApproveExpense(ctx context.Context, id, actorID string, actorRole user.Role) (*ExpenseRequest, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	// Refresh the creator role from the directory so a promotion since
	// creation still triggers the peer-approval guard.
	creatorRole, err := s.directory.RoleOf(exp.CreatorID)
	if err != nil {
		s.logger.Error("creator role lookup failed", "error", err, "expense_id", id, "creator_id", exp.CreatorID)
		return nil, errors.NewInternalError("failed to resolve creator role", err)
	}
	exp.SetCreatorRole(creatorRole)

	previous := string(exp.Status)
	event, err := exp.Approve(actorID, actorRole)
	if err != nil {
		s.logger.Warn("expense approval rejected", "error", err, "expense_id", id, "actor_id", actorID)
		return nil, err
	}

	log := auditlog.NewApproved(exp.ID, actorID, previous, string(exp.Status))
	if err := s.repo.SaveWithAudit(exp, log); err != nil {
		s.logger.Error("failed to persist expense approval", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to approve expense request", err)
	}

	s.publish(ctx, event)
	s.logger.Info("expense request approved", "expense_id", id, "approver_id", actorID, "amount", exp.Amount)

	return exp, nil
}

func (s *Service) RejectExpense(ctx context.Context, id, actorID string, actorRole user.Role, reason string) (*ExpenseRequest, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	previous := string(exp.Status)
	event, err := exp.Reject(actorID, actorRole, reason)
	if err != nil {
		s.logger.Warn("expense rejection rejected", "error", err, "expense_id", id, "actor_id", actorID)
		return nil, err
	}

	log := auditlog.NewRejected(exp.ID, actorID, previous, string(exp.Status), reason)
	if err := s.repo.SaveWithAudit(exp, log); err != nil {
		s.logger.Error("failed to persist expense rejection", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to reject expense request", err)
	}

	s.publish(ctx, event)
	s.logger.Info("expense request rejected", "expense_id", id, "rejecter_id", actorID, "reason", reason)

	return exp, nil
}

func (s *Service) AddAttachment(id, userID, url string) (*ExpenseRequest, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if exp.CreatorID != userID {
		return nil, errors.NewBusinessRuleError("only the creator can modify attachments")
	}
	if err := exp.AddAttachment(url); err != nil {
		s.logger.Warn("attachment add rejected", "error", err, "expense_id", id, "user_id", userID)
		return nil, err
	}

	log := auditlog.NewAttachmentAdded(exp.ID, userID, url)
	if err := s.repo.SaveWithAudit(exp, log); err != nil {
		s.logger.Error("failed to persist attachment", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to add attachment", err)
	}

	return exp, nil
}

func (s *Service) RemoveAttachment(id, userID, url string) (*ExpenseRequest, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if exp.CreatorID != userID {
		return nil, errors.NewBusinessRuleError("only the creator can modify attachments")
	}
	if err := exp.RemoveAttachment(url); err != nil {
		s.logger.Warn("attachment removal rejected", "error", err, "expense_id", id, "user_id", userID)
		return nil, err
	}

	log := auditlog.NewAttachmentRemoved(exp.ID, userID, url)
	if err := s.repo.SaveWithAudit(exp, log); err != nil {
		s.logger.Error("failed to persist attachment removal", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to remove attachment", err)
	}

	return exp, nil
}

func (s *Service) DeleteExpense(id, userID string) error {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if err := exp.EnsureDeletable(userID); err != nil {
		s.logger.Warn("expense deletion rejected", "error", err, "expense_id", id, "user_id", userID)
		return err
	}

	log := auditlog.NewDeleted(exp.ID, userID)
	if err := s.repo.DeleteWithAudit(exp, log); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return errors.NewInternalError("failed to delete expense request", err)
	}

	s.logger.Info("expense request deleted", "expense_id", id, "user_id", userID)
	return nil
}

func (s *Service) GetAuditHistory(id string) ([]*auditlog.AuditLog, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}

	logs, err := s.auditRepo.ListByExpense(id)
	if err != nil {
		s.logger.Error("failed to load audit history", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to load audit history", err)
	}
	return logs, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish domain event", "error", err, "event_type", event.EventType())
	}
}

func (s *Service) enrichCreatorName(exp *ExpenseRequest) {
	name, err := s.directory.DisplayNameOf(exp.CreatorID)
	if err != nil {
		s.logger.Debug("display name lookup failed", "error", err, "creator_id", exp.CreatorID)
		return
	}
	exp.CreatorName = name
}
