package auth_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"expense-approval/internal/auth"
	"expense-approval/internal/user"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

type mockAuthRepository struct {
	passwordByEmail map[string]string // email -> bcrypt hash
	userIDByEmail   map[string]string
	users           map[string]*user.User
	getPasswordErr  error
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		passwordByEmail: make(map[string]string),
		userIDByEmail:   make(map[string]string),
		users:           make(map[string]*user.User),
	}
}

func (m *mockAuthRepository) GetPasswordForEmail(email string) (string, string, error) {
	if m.getPasswordErr != nil {
		return "", "", m.getPasswordErr
	}
	hash, exists := m.passwordByEmail[email]
	if !exists {
		return "", "", auth.ErrInvalidCredentials
	}
	return hash, m.userIDByEmail[email], nil
}

func (m *mockAuthRepository) GetUserByID(userID string) (*user.User, error) {
	u, exists := m.users[userID]
	if !exists {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

var _ = Describe("AuthService", func() {
	const (
		userID   = "b3f10001-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
		email    = "employee@mail.com"
		password = "correct horse battery staple"
	)

	var (
		service *auth.Service
		repo    *mockAuthRepository
	)

	BeforeEach(func() {
		repo = newMockAuthRepository()
		tokenGen := auth.NewJWTTokenGenerator(
			"test-access-secret-test-access-secret!!",
			"test-refresh-secret-test-refresh-secret",
			15*time.Minute,
			24*time.Hour,
		)
		service = auth.NewService(repo, tokenGen)

		hash, err := auth.HashPassword(password, 10)
		Expect(err).ToNot(HaveOccurred())
		repo.passwordByEmail[email] = hash
		repo.userIDByEmail[email] = userID
		repo.users[userID] = &user.User{
			ID:       userID,
			Email:    email,
			Name:     "Edi Employee",
			Role:     user.RoleEmployee,
			IsActive: true,
		}
	})

	Describe("Authenticate", func() {
		It("should return a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: email, Password: password})

			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: email, Password: "wrong"})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "nobody@mail.com", Password: password})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject a missing password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: email})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should resolve the user id from a freshly issued token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: email, Password: password})
			Expect(err).ToNot(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(userID))
		})

		It("should reject garbage tokens", func() {
			_, err := service.ValidateAccessToken("not-a-jwt")

			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("should reject expired tokens", func() {
			expiredGen := auth.NewJWTTokenGenerator(
				"test-access-secret-test-access-secret!!",
				"test-refresh-secret-test-refresh-secret",
				-time.Minute,
				-time.Minute,
			)
			// negative TTLs fall back to defaults, so build an expired one directly
			expiredGen.AccessTokenTTL = -time.Minute
			token, err := expiredGen.GenerateAccessToken(userID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(token)

			Expect(err).To(Equal(auth.ErrTokenExpired))
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue a new pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: email, Password: password})
			Expect(err).ToNot(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(refreshed.AccessToken).ToNot(BeEmpty())
		})

		It("should reject an invalid refresh token", func() {
			_, err := service.RefreshTokens("bogus")

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetUser", func() {
		It("should return the active user", func() {
			u, err := service.GetUser(userID)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Email).To(Equal(email))
		})

		It("should reject inactive accounts", func() {
			repo.users[userID].IsActive = false

			_, err := service.GetUser(userID)

			Expect(err).To(Equal(auth.ErrUserInactive))
		})
	})
})
