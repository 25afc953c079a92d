package cmd

import (
	"fmt"
	"log"

	"expense-approval/internal/auth"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		hash, err := auth.HashPassword("password", cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		users := []struct {
			Email      string
			Name       string
			Department string
			Role       string
		}{
			{"employee@mail.com", "Edi Employee", "engineering", "employee"},
			{"manager@mail.com", "Maya Manager", "engineering", "manager"},
			{"manager2@mail.com", "Mirna Manager", "finance", "manager"},
			{"admin@mail.com", "Adi Admin", "operations", "admin"},
		}

		for _, u := range users {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			if err := db.Exec(
				"INSERT INTO users (id, email, name, department, role, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
				uuid.NewString(), u.Email, u.Name, u.Department, u.Role, hash,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
		}

		categories := []struct {
			Name  string
			Desc  string
			Icon  string
			Color string
		}{
			{"travel", "business travel and transportation", "plane", "#2563eb"},
			{"meals", "meals and entertainment", "utensils", "#16a34a"},
			{"office", "office supplies and equipment", "briefcase", "#9333ea"},
			{"software", "software licenses and subscriptions", "laptop", "#0891b2"},
			{"other", "miscellaneous expenses", "tag", "#64748b"},
		}

		for _, c := range categories {
			var exists int
			row := db.Raw("SELECT 1 FROM expense_categories WHERE name = ?", c.Name).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}

			if err := db.Exec(
				"INSERT INTO expense_categories (id, name, description, icon, color, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				uuid.NewString(), c.Name, c.Desc, c.Icon, c.Color,
			).Error; err != nil {
				log.Fatalf("failed to insert expense category %s: %v", c.Name, err)
			}
			fmt.Printf("Seeded expense category: %s\n", c.Name)
		}

		fmt.Println("Seeding completed")
	},
}
