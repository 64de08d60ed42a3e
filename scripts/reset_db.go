package main

import (
	"context"
	"fmt"
	"log"

	"edustaff-backend/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL EMPLOYEE DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all employees")
	fmt.Println("  - Delete all transfers, commissions and ledger entries")
	fmt.Println("  - Delete all salary and bonus credit logs")
	fmt.Println("  - Delete all salary slips and inquiries")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Printf("Resetting %s on %s...\n", cfg.Database.Name, cfg.Database.Host)

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	// Children first; CASCADE covers anything added later.
	tables := []string{
		"ledger_entries",
		"commissions",
		"funds_transfers",
		"salary_credit_log",
		"bonus_credit_log",
		"salary_slip_history",
		"user_inquiries",
		"employees",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  - Cleared %s\n", table)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Database reset successful!")
	fmt.Println("Log in with the configured admin credentials to create the first branch.")
}
