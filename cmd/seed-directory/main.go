package main

import (
	"context"
	"fmt"
	"time"

	"github.com/campuscore/placement-backend/internal/config"
	"github.com/campuscore/placement-backend/internal/database"
	"github.com/campuscore/placement-backend/internal/logger"
)

// Seeds a small department/class/student directory for local development.
// In production these tables are owned and synced by the campus platform.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Println("=== Seeding directory ===")

	departments := map[string]string{
		"CSE":   "Computer Science and Engineering",
		"ECE":   "Electronics and Communication Engineering",
		"MECH":  "Mechanical Engineering",
		"CIVIL": "Civil Engineering",
	}
	for id, name := range departments {
		if _, err := pool.Exec(ctx,
			`INSERT INTO departments (id, name) VALUES ($1, $2)
			 ON CONFLICT (id) DO NOTHING`, id, name); err != nil {
			log.Fatal().Err(err).Str("department", id).Msg("Failed to insert department")
		}
	}
	fmt.Printf("Departments: %d\n", len(departments))

	labels := []string{"2024-A", "2024-B", "2025-A"}
	classCount := 0
	classIDs := make(map[string][]int)
	for dept := range departments {
		for _, label := range labels {
			var classID int
			err := pool.QueryRow(ctx,
				`INSERT INTO classes (department_id, label) VALUES ($1, $2)
				 ON CONFLICT (department_id, label) DO UPDATE SET label = EXCLUDED.label
				 RETURNING id`, dept, label).Scan(&classID)
			if err != nil {
				log.Fatal().Err(err).Str("department", dept).Str("label", label).Msg("Failed to insert class")
			}
			classIDs[dept] = append(classIDs[dept], classID)
			classCount++
		}
	}
	fmt.Printf("Classes: %d\n", classCount)

	names := []string{
		"Aarav Sharma", "Diya Patel", "Vihaan Reddy", "Ananya Iyer", "Arjun Nair",
		"Ishita Rao", "Kabir Menon", "Meera Pillai", "Rohan Das", "Sanya Gupta",
		"Aditya Verma", "Kavya Krishnan", "Nikhil Joshi", "Pooja Hegde", "Rahul Shetty",
		"Sneha Kulkarni", "Tanvi Desai", "Varun Bhat", "Yash Agarwal", "Zara Khan",
	}

	studentCount := 0
	seq := 1
	for dept, ids := range classIDs {
		for _, classID := range ids {
			for i := 0; i < len(names); i++ {
				rollNo := fmt.Sprintf("%s%04d", dept, seq)
				if _, err := pool.Exec(ctx,
					`INSERT INTO students (roll_no, name, department_id, class_id)
					 VALUES ($1, $2, $3, $4)
					 ON CONFLICT (roll_no) DO NOTHING`,
					rollNo, names[i], dept, classID); err != nil {
					fmt.Printf("Error creating student %s: %v\n", rollNo, err)
					continue
				}
				studentCount++
				seq++
			}
		}
	}

	fmt.Printf("\nSeed completed! %d students across %d classes.\n", studentCount, classCount)
}
