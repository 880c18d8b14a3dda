package cmd

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
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

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"comments", "break_logs", "user_attendances", "tasks", "employees", "external_identities", "users"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		adminID := seedUser(db, "admin@stafftrack.io", string(hash), "ADMIN")
		pmID := seedUser(db, "pm@stafftrack.io", string(hash), "PROJECT_MANAGER")
		managerID := seedUser(db, "manager@stafftrack.io", string(hash), "MANAGER")
		opOneID := seedUser(db, "alice@stafftrack.io", string(hash), "OPERATOR")
		opTwoID := seedUser(db, "bob@stafftrack.io", string(hash), "OPERATOR")

		seedEmployee(db, managerID, "Morgan Lee", "Team Manager", "Operations", &pmID)
		seedEmployee(db, opOneID, "Alice Chen", "Operator", "Operations", &managerID)
		seedEmployee(db, opTwoID, "Bob Singh", "Operator", "Operations", nil)

		seedTask(db, "Prepare onboarding checklist", "HIGH", opOneID, managerID, 4)
		seedTask(db, "Review attendance exports", "MEDIUM", opOneID, managerID, 2)
		seedTask(db, "Update department wiki", "LOW", opTwoID, managerID, 1.5)

		fmt.Println("Seeded sample users, employees and tasks")
		_ = adminID
	},
}

func seedUser(db *sqlx.DB, email, hash, role string) int64 {
	var id int64
	if err := db.QueryRow("SELECT id FROM users WHERE email = $1", email).Scan(&id); err == nil {
		fmt.Printf("user %s already exists\n", email)
		return id
	}

	err := db.QueryRow(
		"INSERT INTO users (email, password_hash, role, enabled, created_at, updated_at) VALUES ($1, $2, $3, true, now(), now()) RETURNING id",
		email, hash, role,
	).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("Seeded user: %s (%s)\n", email, role)
	return id
}

func seedEmployee(db *sqlx.DB, userID int64, name, roleTitle, department string, managerID *int64) {
	var exists int
	if err := db.QueryRow("SELECT 1 FROM employees WHERE user_id = $1", userID).Scan(&exists); err == nil {
		return
	}

	_, err := db.Exec(
		"INSERT INTO employees (user_id, name, role_title, department, status, manager_id, created_at, updated_at) VALUES ($1, $2, $3, $4, 'Active', $5, now(), now())",
		userID, name, roleTitle, department, managerID,
	)
	if err != nil {
		log.Fatalf("failed to seed employee %s: %v", name, err)
	}
	fmt.Printf("Seeded employee: %s\n", name)
}

func seedTask(db *sqlx.DB, title, priority string, assigneeID, createdByID int64, hours float64) {
	var exists int
	if err := db.QueryRow("SELECT 1 FROM tasks WHERE title = $1 AND assignee_id = $2", title, assigneeID).Scan(&exists); err == nil {
		return
	}

	_, err := db.Exec(
		"INSERT INTO tasks (title, status, priority, assigned_hours, assignee_id, created_by_id, due_date, is_deleted, created_at, updated_at) VALUES ($1, 'TODO', $2, $3, $4, $5, now() + interval '3 days', false, now(), now())",
		title, priority, hours, assigneeID, createdByID,
	)
	if err != nil {
		log.Fatalf("failed to seed task %s: %v", title, err)
	}
	fmt.Printf("Seeded task: %s\n", title)
}
