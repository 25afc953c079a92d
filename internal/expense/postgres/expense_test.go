package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	errs "expense-approval/internal"
	"expense-approval/internal/auditlog"
	auditlogPostgres "expense-approval/internal/auditlog/postgres"
	auditlogDatamodel "expense-approval/internal/core/datamodel/auditlog"
	expenseDatamodel "expense-approval/internal/core/datamodel/expense"
	"expense-approval/internal/expense"
	expensePostgres "expense-approval/internal/expense/postgres"
	"expense-approval/internal/user"
)

func TestExpensePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Postgres Suite")
}

var _ = Describe("Expense Repository", func() {
	const creatorID = "7d3a0001-aaaa-4aaa-8aaa-aaaaaaaaaaaa"

	var (
		db        *gorm.DB
		repo      expense.Repository
		auditRepo auditlog.Repository
	)

	BeforeEach(func() {
		var err error
		// SQLite in-memory database stands in for postgres
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&expenseDatamodel.ExpenseRequest{}, &auditlogDatamodel.AuditLog{})
		Expect(err).NotTo(HaveOccurred())

		repo = expensePostgres.NewExpenseRepository(db)
		auditRepo = auditlogPostgres.NewAuditLogRepository(db)
	})

	newDraft := func(title string, amount int64) *expense.ExpenseRequest {
		exp, err := expense.NewExpenseRequest(creatorID, user.RoleEmployee, title, "desc", amount, time.Now().AddDate(0, 0, -1), nil)
		Expect(err).NotTo(HaveOccurred())
		return exp
	}

	Describe("CreateWithAudit", func() {
		It("should persist the request together with its audit record", func() {
			exp := newDraft("team lunch", 50)
			log := auditlog.NewCreated(exp.ID, creatorID, string(exp.Status))

			Expect(repo.CreateWithAudit(exp, log)).To(Succeed())

			stored, err := repo.GetByID(exp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Title).To(Equal("team lunch"))
			Expect(stored.Status).To(Equal(expense.StatusDraft))

			logs, err := auditRepo.ListByExpense(exp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].Action).To(Equal(auditlog.ActionCreated))
		})

		It("should round-trip attachments", func() {
			exp := newDraft("hotel", 500)
			Expect(exp.AddAttachment("https://receipts.local/a.pdf")).To(Succeed())
			Expect(exp.AddAttachment("https://receipts.local/b.pdf")).To(Succeed())

			Expect(repo.CreateWithAudit(exp, auditlog.NewCreated(exp.ID, creatorID, "draft"))).To(Succeed())

			stored, err := repo.GetByID(exp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Attachments).To(Equal([]string{
				"https://receipts.local/a.pdf",
				"https://receipts.local/b.pdf",
			}))
		})
	})

	Describe("GetByID", func() {
		It("should return the not-found sentinel for unknown ids", func() {
			_, err := repo.GetByID("3c9f0000-0000-4000-8000-000000000000")

			Expect(err).To(Equal(errs.ErrExpenseNotFound))
		})
	})

	Describe("SaveWithAudit", func() {
		It("should persist a state transition and its record atomically", func() {
			exp := newDraft("team lunch", 50)
			Expect(repo.CreateWithAudit(exp, auditlog.NewCreated(exp.ID, creatorID, "draft"))).To(Succeed())

			_, err := exp.Submit(creatorID)
			Expect(err).NotTo(HaveOccurred())
			log := auditlog.NewSubmitted(exp.ID, creatorID, "draft", "submitted")

			Expect(repo.SaveWithAudit(exp, log)).To(Succeed())

			stored, err := repo.GetByID(exp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(expense.StatusSubmitted))
			Expect(stored.SubmittedAt).NotTo(BeNil())

			logs, err := auditRepo.ListByExpense(exp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(2))
			Expect(logs[1].Action).To(Equal(auditlog.ActionSubmitted))
		})
	})

	Describe("DeleteWithAudit", func() {
		It("should remove the request but keep the audit trail", func() {
			exp := newDraft("team lunch", 50)
			Expect(repo.CreateWithAudit(exp, auditlog.NewCreated(exp.ID, creatorID, "draft"))).To(Succeed())

			Expect(repo.DeleteWithAudit(exp, auditlog.NewDeleted(exp.ID, creatorID))).To(Succeed())

			_, err := repo.GetByID(exp.ID)
			Expect(err).To(Equal(errs.ErrExpenseNotFound))

			logs, err := auditRepo.ListByExpense(exp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(2))
		})
	})

	Describe("List", func() {
		seed := func() {
			titles := []struct {
				title  string
				amount int64
			}{
				{"taxi to airport", 45},
				{"conference hotel", 800},
				{"team dinner", 120},
			}
			for _, t := range titles {
				exp := newDraft(t.title, t.amount)
				Expect(repo.CreateWithAudit(exp, auditlog.NewCreated(exp.ID, creatorID, "draft"))).To(Succeed())
			}
		}

		It("should filter by a case-insensitive substring over title and description", func() {
			seed()
			params := expense.ListParams{Search: "HOTEL"}
			params.Normalize()

			got, total, err := repo.List(params)

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(got[0].Title).To(Equal("conference hotel"))
		})

		It("should filter by amount range", func() {
			seed()
			min, max := int64(100), int64(900)
			params := expense.ListParams{AmountMin: &min, AmountMax: &max}
			params.Normalize()

			_, total, err := repo.List(params)

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
		})

		It("should sort by amount descending", func() {
			seed()
			params := expense.ListParams{SortBy: expense.SortByAmount, SortDesc: true}
			params.Normalize()

			got, _, err := repo.List(params)

			Expect(err).NotTo(HaveOccurred())
			Expect(got[0].Amount).To(Equal(int64(800)))
			Expect(got[len(got)-1].Amount).To(Equal(int64(45)))
		})

		It("should paginate and still report the full total", func() {
			seed()
			params := expense.ListParams{Page: 2, PageSize: 2, SortBy: expense.SortByAmount}
			params.Normalize()

			got, total, err := repo.List(params)

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(got).To(HaveLen(1))
		})

		It("should filter by status", func() {
			seed()
			exp := newDraft("submitted one", 60)
			_, err := exp.Submit(creatorID)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.CreateWithAudit(exp, auditlog.NewCreated(exp.ID, creatorID, "draft"))).To(Succeed())

			params := expense.ListParams{Status: "submitted"}
			params.Normalize()

			_, total, err := repo.List(params)

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})
	})
})
