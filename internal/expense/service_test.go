package expense_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errs "expense-approval/internal"
	"expense-approval/internal/auditlog"
	"expense-approval/internal/core/events"
	"expense-approval/internal/expense"
	"expense-approval/internal/user"
)

// Mock repository for testing. Audit logs are captured alongside the mutation
// so the tests can assert one record per state change.
type mockExpenseRepository struct {
	expenses  map[string]*expense.ExpenseRequest
	auditLogs []*auditlog.AuditLog
	saveError error
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[string]*expense.ExpenseRequest),
	}
}

func (m *mockExpenseRepository) CreateWithAudit(exp *expense.ExpenseRequest, log *auditlog.AuditLog) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.expenses[exp.ID] = exp
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func (m *mockExpenseRepository) SaveWithAudit(exp *expense.ExpenseRequest, log *auditlog.AuditLog) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.expenses[exp.ID] = exp
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func (m *mockExpenseRepository) DeleteWithAudit(exp *expense.ExpenseRequest, log *auditlog.AuditLog) error {
	if m.saveError != nil {
		return m.saveError
	}
	delete(m.expenses, exp.ID)
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func (m *mockExpenseRepository) GetByID(id string) (*expense.ExpenseRequest, error) {
	exp, exists := m.expenses[id]
	if !exists {
		return nil, errs.ErrExpenseNotFound
	}
	// copy so mutations in the service go through Save
	clone := *exp
	return &clone, nil
}

func (m *mockExpenseRepository) List(params expense.ListParams) ([]*expense.ExpenseRequest, int64, error) {
	var result []*expense.ExpenseRequest
	for _, exp := range m.expenses {
		if params.CreatorID != "" && exp.CreatorID != params.CreatorID {
			continue
		}
		if params.Status != "" && string(exp.Status) != params.Status {
			continue
		}
		result = append(result, exp)
	}
	return result, int64(len(result)), nil
}

func (m *mockExpenseRepository) logsFor(expenseID string) []*auditlog.AuditLog {
	var logs []*auditlog.AuditLog
	for _, l := range m.auditLogs {
		if l.ExpenseID == expenseID {
			logs = append(logs, l)
		}
	}
	return logs
}

func (m *mockExpenseRepository) ListByExpense(expenseID string) ([]*auditlog.AuditLog, error) {
	return m.logsFor(expenseID), nil
}

// Mock user directory for role and name lookups
type mockUserDirectory struct {
	roles map[string]user.Role
	names map[string]string
}

func newMockUserDirectory() *mockUserDirectory {
	return &mockUserDirectory{
		roles: make(map[string]user.Role),
		names: make(map[string]string),
	}
}

func (m *mockUserDirectory) RoleOf(userID string) (user.Role, error) {
	role, exists := m.roles[userID]
	if !exists {
		return "", errs.ErrUserNotFound
	}
	return role, nil
}

func (m *mockUserDirectory) DisplayNameOf(userID string) (string, error) {
	name, exists := m.names[userID]
	if !exists {
		return "", errs.ErrUserNotFound
	}
	return name, nil
}

// Mock event publisher that records published events
type mockEventPublisher struct {
	published []events.Event
}

func (m *mockEventPublisher) Publish(_ context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("ExpenseService", func() {
	const (
		employeeID = "9a2b0001-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
		managerID  = "9a2b0002-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
		adminID    = "9a2b0003-cccc-4ccc-8ccc-cccccccccccc"
	)

	var (
		service   *expense.Service
		repo      *mockExpenseRepository
		directory *mockUserDirectory
		publisher *mockEventPublisher
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newMockExpenseRepository()
		directory = newMockUserDirectory()
		publisher = &mockEventPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(repo, repo, directory, publisher, logger)
		ctx = context.Background()

		directory.roles[employeeID] = user.RoleEmployee
		directory.roles[managerID] = user.RoleManager
		directory.roles[adminID] = user.RoleAdmin
		directory.names[employeeID] = "Edi Employee"
		directory.names[managerID] = "Maya Manager"
		directory.names[adminID] = "Adi Admin"
	})

	createDraft := func(creatorID string, role user.Role, amount int64) *expense.ExpenseRequest {
		exp, err := service.CreateExpense(creatorID, role, expense.CreateExpenseDTO{
			Title:       "conference ticket",
			Description: "annual conference",
			Amount:      amount,
			ExpenseDate: time.Now().AddDate(0, 0, -2),
		})
		Expect(err).ToNot(HaveOccurred())
		return exp
	}

	submitWithReceipt := func(creatorID string, role user.Role, amount int64) *expense.ExpenseRequest {
		exp := createDraft(creatorID, role, amount)
		if amount > expense.ReceiptThreshold {
			_, err := service.AddAttachment(exp.ID, creatorID, "https://receipts.local/r.pdf")
			Expect(err).ToNot(HaveOccurred())
		}
		exp, err := service.SubmitExpense(ctx, exp.ID, creatorID)
		Expect(err).ToNot(HaveOccurred())
		return exp
	}

	Describe("CreateExpense", func() {
		It("should persist the draft together with a Created audit record", func() {
			exp := createDraft(employeeID, user.RoleEmployee, 50)

			logs := repo.logsFor(exp.ID)
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].Action).To(Equal(auditlog.ActionCreated))
			Expect(logs[0].PreviousStatus).To(BeNil())
			Expect(*logs[0].NewStatus).To(Equal("draft"))
			Expect(logs[0].UserID).To(Equal(employeeID))
		})

		It("should not write an audit record when validation fails", func() {
			_, err := service.CreateExpense(employeeID, user.RoleEmployee, expense.CreateExpenseDTO{
				Title:       "",
				Amount:      50,
				ExpenseDate: time.Now(),
			})

			Expect(err).To(HaveOccurred())
			Expect(repo.auditLogs).To(BeEmpty())
		})
	})

	Describe("GetExpense", func() {
		It("should hide other users' requests from employees", func() {
			exp := createDraft(employeeID, user.RoleEmployee, 50)

			_, err := service.GetExpense(exp.ID, "someone-else", user.RoleEmployee)

			Expect(err).To(Equal(errs.ErrExpenseNotFound))
		})

		It("should let moderators read any request and enrich the creator name", func() {
			exp := createDraft(employeeID, user.RoleEmployee, 50)

			got, err := service.GetExpense(exp.ID, managerID, user.RoleManager)

			Expect(err).ToNot(HaveOccurred())
			Expect(got.CreatorName).To(Equal("Edi Employee"))
		})
	})

	Describe("ListExpenses", func() {
		It("should force the creator filter for employees", func() {
			createDraft(employeeID, user.RoleEmployee, 50)
			createDraft(managerID, user.RoleManager, 60)

			resp, err := service.ListExpenses(expense.ListParams{}, employeeID, user.RoleEmployee)

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Expenses).To(HaveLen(1))
			Expect(resp.Expenses[0].CreatorID).To(Equal(employeeID))
		})

		It("should return everything for moderators", func() {
			createDraft(employeeID, user.RoleEmployee, 50)
			createDraft(managerID, user.RoleManager, 60)

			resp, err := service.ListExpenses(expense.ListParams{}, adminID, user.RoleAdmin)

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Total).To(Equal(int64(2)))
		})
	})

	Describe("SubmitExpense", func() {
		It("should write a Submitted audit record with the status pair", func() {
			exp := createDraft(employeeID, user.RoleEmployee, 50)

			_, err := service.SubmitExpense(ctx, exp.ID, employeeID)
			Expect(err).ToNot(HaveOccurred())

			logs := repo.logsFor(exp.ID)
			Expect(logs).To(HaveLen(2))
			Expect(logs[1].Action).To(Equal(auditlog.ActionSubmitted))
			Expect(*logs[1].PreviousStatus).To(Equal("draft"))
			Expect(*logs[1].NewStatus).To(Equal("submitted"))
		})

		It("should publish the submitted event after the transition", func() {
			exp := createDraft(employeeID, user.RoleEmployee, 50)

			_, err := service.SubmitExpense(ctx, exp.ID, employeeID)
			Expect(err).ToNot(HaveOccurred())

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeExpenseSubmitted))
		})

		It("should neither audit nor publish when a rule blocks submission", func() {
			exp := createDraft(employeeID, user.RoleEmployee, expense.ReceiptThreshold+1)

			_, err := service.SubmitExpense(ctx, exp.ID, employeeID)

			Expect(err).To(HaveOccurred())
			Expect(repo.logsFor(exp.ID)).To(HaveLen(1)) // only the Created record
			Expect(publisher.published).To(BeEmpty())
		})
	})

	Describe("ApproveExpense", func() {
		It("should approve, audit and publish exactly once", func() {
			exp := submitWithReceipt(employeeID, user.RoleEmployee, 500)

			got, err := service.ApproveExpense(ctx, exp.ID, managerID, user.RoleManager)

			Expect(err).ToNot(HaveOccurred())
			Expect(got.Status).To(Equal(expense.StatusApproved))

			logs := repo.logsFor(exp.ID)
			last := logs[len(logs)-1]
			Expect(last.Action).To(Equal(auditlog.ActionApproved))
			Expect(*last.PreviousStatus).To(Equal("submitted"))
			Expect(*last.NewStatus).To(Equal("approved"))
			Expect(last.UserID).To(Equal(managerID))

			var approvals int
			for _, e := range publisher.published {
				if e.EventType() == events.EventTypeExpenseApproved {
					approvals++
				}
			}
			Expect(approvals).To(Equal(1))
		})

		It("should consult the directory for the creator's current role", func() {
			// created as an employee, promoted to manager since
			exp := submitWithReceipt(employeeID, user.RoleEmployee, 50)
			directory.roles[employeeID] = user.RoleManager

			_, err := service.ApproveExpense(ctx, exp.ID, managerID, user.RoleManager)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("only an admin can approve another manager's expense request"))
		})

		It("should fail internally when the role lookup fails", func() {
			exp := submitWithReceipt(employeeID, user.RoleEmployee, 50)
			delete(directory.roles, employeeID)

			_, err := service.ApproveExpense(ctx, exp.ID, managerID, user.RoleManager)

			Expect(err).To(HaveOccurred())
			appErr, ok := errs.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errs.ErrorTypeInternal))
		})

		It("should leave the stored request untouched when a guard fails", func() {
			exp := submitWithReceipt(employeeID, user.RoleEmployee, expense.ApprovalCeiling+1)

			_, err := service.ApproveExpense(ctx, exp.ID, managerID, user.RoleManager)
			Expect(err).To(HaveOccurred())

			stored, err := service.GetExpense(exp.ID, adminID, user.RoleAdmin)
			Expect(err).ToNot(HaveOccurred())
			Expect(stored.Status).To(Equal(expense.StatusSubmitted))
		})
	})

	Describe("RejectExpense", func() {
		It("should record the reason in the audit details", func() {
			exp := submitWithReceipt(employeeID, user.RoleEmployee, 50)

			_, err := service.RejectExpense(ctx, exp.ID, managerID, user.RoleManager, "missing itemization")
			Expect(err).ToNot(HaveOccurred())

			logs := repo.logsFor(exp.ID)
			last := logs[len(logs)-1]
			Expect(last.Action).To(Equal(auditlog.ActionRejected))
			Expect(*last.Details).To(Equal("reason: missing itemization"))
			Expect(*last.PreviousStatus).To(Equal("submitted"))
			Expect(*last.NewStatus).To(Equal("rejected"))

			Expect(publisher.published[len(publisher.published)-1].EventType()).To(Equal(events.EventTypeExpenseRejected))
		})
	})

	Describe("Attachments", func() {
		It("should audit every attachment change", func() {
			exp := createDraft(employeeID, user.RoleEmployee, 500)

			_, err := service.AddAttachment(exp.ID, employeeID, "https://receipts.local/a.pdf")
			Expect(err).ToNot(HaveOccurred())
			_, err = service.RemoveAttachment(exp.ID, employeeID, "https://receipts.local/a.pdf")
			Expect(err).ToNot(HaveOccurred())

			logs := repo.logsFor(exp.ID)
			Expect(logs).To(HaveLen(3))
			Expect(logs[1].Action).To(Equal(auditlog.ActionAttachmentAdded))
			Expect(logs[2].Action).To(Equal(auditlog.ActionAttachmentRemoved))
		})

		It("should refuse attachment changes from anyone but the creator", func() {
			exp := createDraft(employeeID, user.RoleEmployee, 500)

			_, err := service.AddAttachment(exp.ID, managerID, "https://receipts.local/a.pdf")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("only the creator can modify attachments"))
		})
	})

	Describe("DeleteExpense", func() {
		It("should delete a draft and leave a Deleted audit record", func() {
			exp := createDraft(employeeID, user.RoleEmployee, 50)

			Expect(service.DeleteExpense(exp.ID, employeeID)).To(Succeed())

			_, err := service.GetExpense(exp.ID, adminID, user.RoleAdmin)
			Expect(err).To(Equal(errs.ErrExpenseNotFound))

			logs := repo.logsFor(exp.ID)
			Expect(logs[len(logs)-1].Action).To(Equal(auditlog.ActionDeleted))
		})

		It("should refuse deleting a submitted request", func() {
			exp := submitWithReceipt(employeeID, user.RoleEmployee, 50)

			err := service.DeleteExpense(exp.ID, employeeID)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("only draft requests can be deleted"))
		})
	})

	Describe("GetAuditHistory", func() {
		It("should mirror every transition exactly once, in order", func() {
			exp := createDraft(employeeID, user.RoleEmployee, 50)
			_, err := service.SubmitExpense(ctx, exp.ID, employeeID)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.ApproveExpense(ctx, exp.ID, managerID, user.RoleManager)
			Expect(err).ToNot(HaveOccurred())

			logs, err := service.GetAuditHistory(exp.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(logs).To(HaveLen(3))
			Expect(logs[0].Action).To(Equal(auditlog.ActionCreated))
			Expect(logs[1].Action).To(Equal(auditlog.ActionSubmitted))
			Expect(logs[2].Action).To(Equal(auditlog.ActionApproved))
		})
	})
})
