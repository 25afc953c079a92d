package user_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	errs "expense-approval/internal"
	userDatamodel "expense-approval/internal/core/datamodel/user"
	"expense-approval/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type mockUserRepository struct {
	users map[string]*userDatamodel.User
}

func (m *mockUserRepository) GetByID(id string) (*userDatamodel.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ = Describe("Role", func() {
	It("should let managers and admins moderate", func() {
		Expect(user.RoleManager.CanModerate()).To(BeTrue())
		Expect(user.RoleAdmin.CanModerate()).To(BeTrue())
		Expect(user.RoleEmployee.CanModerate()).To(BeFalse())
	})

	It("should treat only admins as admin", func() {
		Expect(user.RoleAdmin.IsAdmin()).To(BeTrue())
		Expect(user.RoleManager.IsAdmin()).To(BeFalse())
	})

	Describe("ParseRole", func() {
		It("should accept the known roles", func() {
			for _, s := range []string{"employee", "manager", "admin"} {
				role, err := user.ParseRole(s)
				Expect(err).ToNot(HaveOccurred())
				Expect(string(role)).To(Equal(s))
			}
		})

		It("should reject unknown roles", func() {
			_, err := user.ParseRole("superuser")

			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("UserService", func() {
	const userID = "2f8e0001-aaaa-4aaa-8aaa-aaaaaaaaaaaa"

	var (
		service *user.Service
		repo    *mockUserRepository
	)

	BeforeEach(func() {
		repo = &mockUserRepository{users: make(map[string]*userDatamodel.User)}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, logger)

		repo.users[userID] = &userDatamodel.User{
			ID:       userID,
			Email:    "maya@mail.com",
			Name:     "Maya Manager",
			Role:     "manager",
			IsActive: true,
		}
	})

	Describe("GetByID", func() {
		It("should map the stored record to the domain user", func() {
			u, err := service.GetByID(userID)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Role).To(Equal(user.RoleManager))
			Expect(u.Name).To(Equal("Maya Manager"))
		})

		It("should translate record-not-found to the sentinel", func() {
			_, err := service.GetByID("missing")

			Expect(err).To(Equal(errs.ErrUserNotFound))
		})
	})

	Describe("RoleOf", func() {
		It("should resolve the current role", func() {
			role, err := service.RoleOf(userID)

			Expect(err).ToNot(HaveOccurred())
			Expect(role).To(Equal(user.RoleManager))
		})
	})

	Describe("DisplayNameOf", func() {
		It("should resolve the display name", func() {
			name, err := service.DisplayNameOf(userID)

			Expect(err).ToNot(HaveOccurred())
			Expect(name).To(Equal("Maya Manager"))
		})
	})
})
