package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"expense-approval/internal/auth"
	"expense-approval/internal/budget"
	"expense-approval/internal/category"
	"expense-approval/internal/comment"
	"expense-approval/internal/expense"
	"expense-approval/internal/transport/middleware"
	"expense-approval/internal/transport/swagger"
	"expense-approval/internal/user"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Expense  *expense.Handler
	Category *category.Handler
	Budget   *budget.Handler
	Comment  *comment.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Public categories route (no auth required)
		r.Get("/categories", h.Category.GetCategories)

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Current user
			pr.Get("/users/me", h.User.GetCurrentUser)

			// Expense routes
			pr.Route("/expenses", func(er chi.Router) {
				er.Post("/", h.Expense.CreateExpense)
				er.Get("/", h.Expense.ListExpenses)
				er.Get("/{id}", h.Expense.GetExpense)
				er.Put("/{id}", h.Expense.UpdateExpense)
				er.Delete("/{id}", h.Expense.DeleteExpense)

				er.Post("/{id}/submit", h.Expense.SubmitExpense)

				er.Post("/{id}/attachments", h.Expense.AddAttachment)
				er.Delete("/{id}/attachments", h.Expense.RemoveAttachment)

				er.Get("/{id}/audit", h.Expense.GetAuditHistory)

				er.Post("/{id}/comments", h.Comment.AddComment)
				er.Get("/{id}/comments", h.Comment.ListComments)

				// Approval routes restricted to managers and admins
				er.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireModerator)
					mr.Patch("/{id}/approve", h.Expense.ApproveExpense)
					mr.Patch("/{id}/reject", h.Expense.RejectExpense)
				})
			})

			// Budget routes
			pr.Route("/budgets", func(br chi.Router) {
				br.Get("/me", h.Budget.GetMyBudgetStatuses)
				br.Get("/{id}", h.Budget.GetBudget)
				br.Get("/{id}/status", h.Budget.GetBudgetStatus)

				// Budget administration is admin only
				br.Group(func(ar chi.Router) {
					ar.Use(h.Auth.RequireAdmin)
					ar.Post("/", h.Budget.CreateBudget)
					ar.Put("/{id}", h.Budget.UpdateBudget)
					ar.Delete("/{id}", h.Budget.DeleteBudget)
				})
			})

			// Category administration is admin only
			pr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireAdmin)
				ar.Post("/categories", h.Category.CreateCategory)
				ar.Put("/categories/{id}", h.Category.UpdateCategory)
				ar.Delete("/categories/{id}", h.Category.DeleteCategory)
			})
		})
	})
}
