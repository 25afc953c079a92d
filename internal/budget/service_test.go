package budget_test

import (
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errs "expense-approval/internal"
	"expense-approval/internal/budget"
)

// Mock repository keyed by budget ID with a configurable spent table
type mockBudgetRepository struct {
	budgets map[string]*budget.Budget
	spent   map[string]int64 // keyed by budget name for simplicity
	sumErr  error
}

func newMockBudgetRepository() *mockBudgetRepository {
	return &mockBudgetRepository{
		budgets: make(map[string]*budget.Budget),
		spent:   make(map[string]int64),
	}
}

func (m *mockBudgetRepository) Create(b *budget.Budget) error {
	m.budgets[b.ID] = b
	return nil
}

func (m *mockBudgetRepository) GetByID(id string) (*budget.Budget, error) {
	b, exists := m.budgets[id]
	if !exists {
		return nil, errs.ErrBudgetNotFound
	}
	return b, nil
}

func (m *mockBudgetRepository) ListForUser(userID string) ([]*budget.Budget, error) {
	var result []*budget.Budget
	for _, b := range m.budgets {
		if !b.IsActive {
			continue
		}
		if b.UserID == nil || *b.UserID == userID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockBudgetRepository) Update(b *budget.Budget) error {
	m.budgets[b.ID] = b
	return nil
}

func (m *mockBudgetRepository) Delete(id string) error {
	if b, exists := m.budgets[id]; exists {
		b.Deactivate()
	}
	return nil
}

func (m *mockBudgetRepository) SumApprovedExpenses(userID, categoryID *string, from, to time.Time) (int64, error) {
	if m.sumErr != nil {
		return 0, m.sumErr
	}
	key := ""
	if userID != nil {
		key = *userID
	}
	return m.spent[key], nil
}

var _ = Describe("BudgetService", func() {
	const userID = "4c7d0001-aaaa-4aaa-8aaa-aaaaaaaaaaaa"

	var (
		service *budget.Service
		repo    *mockBudgetRepository
	)

	BeforeEach(func() {
		repo = newMockBudgetRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = budget.NewService(repo, logger)
	})

	createBudget := func(userID *string, amount int64) *budget.Budget {
		b, err := service.CreateBudget(budget.CreateBudgetDTO{
			Name:      "travel",
			Amount:    amount,
			StartDate: time.Now().AddDate(0, 0, -10),
			EndDate:   time.Now().AddDate(0, 0, 20),
			UserID:    userID,
		})
		Expect(err).ToNot(HaveOccurred())
		return b
	}

	Describe("CreateBudget", func() {
		It("should persist a valid budget", func() {
			b := createBudget(nil, 1000)

			got, err := service.GetBudget(b.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.Amount).To(Equal(int64(1000)))
		})

		It("should reject an invalid period", func() {
			_, err := service.CreateBudget(budget.CreateBudgetDTO{
				Name:      "travel",
				Amount:    1000,
				StartDate: time.Now(),
				EndDate:   time.Now().AddDate(0, 0, -1),
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetBudgetStatus", func() {
		It("should compute utilization from the spent aggregation", func() {
			uid := userID
			b := createBudget(&uid, 1000)
			repo.spent[userID] = 550

			status, err := service.GetBudgetStatus(b.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(status.Spent).To(Equal(int64(550)))
			Expect(status.Remaining).To(Equal(int64(450)))
			Expect(status.PercentageUsed).To(BeNumerically("~", 55.0, 0.001))
		})

		It("should return not found for an unknown budget", func() {
			_, err := service.GetBudgetStatus("missing")

			Expect(err).To(Equal(errs.ErrBudgetNotFound))
		})
	})

	Describe("GetBudgetStatuses", func() {
		It("should cover the user's own budgets plus global ones", func() {
			uid := userID
			createBudget(&uid, 1000)
			createBudget(nil, 5000)
			other := "4c7d0002-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
			createBudget(&other, 700)

			statuses, err := service.GetBudgetStatuses(userID)

			Expect(err).ToNot(HaveOccurred())
			Expect(statuses).To(HaveLen(2))
		})
	})

	Describe("DeleteBudget", func() {
		It("should deactivate instead of dropping the row", func() {
			b := createBudget(nil, 1000)

			Expect(service.DeleteBudget(b.ID)).To(Succeed())

			got, err := service.GetBudget(b.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.IsActive).To(BeFalse())
		})
	})

	Describe("UpdateBudget", func() {
		It("should apply valid changes", func() {
			b := createBudget(nil, 1000)

			updated, err := service.UpdateBudget(b.ID, budget.UpdateBudgetDTO{
				Name:      "travel and lodging",
				Amount:    2000,
				StartDate: b.StartDate,
				EndDate:   b.EndDate,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Name).To(Equal("travel and lodging"))
			Expect(updated.Amount).To(Equal(int64(2000)))
		})

		It("should refuse invalid changes without persisting", func() {
			b := createBudget(nil, 1000)

			_, err := service.UpdateBudget(b.ID, budget.UpdateBudgetDTO{
				Name:      "",
				Amount:    2000,
				StartDate: b.StartDate,
				EndDate:   b.EndDate,
			})

			Expect(err).To(HaveOccurred())
		})
	})
})
