package services

import (
	"context"
	"testing"
	"time"

	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/models"

	"go.uber.org/zap"
)

func seedCreditTree(db *memDB) {
	db.add(&models.Employee{ID: "B-bbbbbbb", Role: hierarchy.Branch})
	mgr := seedManager(db, 0)
	seedFieldManager(db, "FM-1111111", mgr.ID, 0)
	db.add(&models.Employee{ID: "HT-1111111", Role: hierarchy.HomeTeacher, ManagerID: strPtr("FM-1111111")})
	db.add(&models.Employee{ID: "HT-2222222", Role: hierarchy.HomeTeacher, ManagerID: strPtr("FM-1111111")})
}

func TestMonthlySalaryIsIdempotent(t *testing.T) {
	db := newMemDB()
	seedCreditTree(db)
	credits := newMemCredits(db)
	svc := NewCreditService(db, credits, CreditPlan{MonthlySalaryAmount: 1050}, zap.NewNop())

	first, err := svc.RunMonthlySalary(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Eligible != 2 || first.Credited != 2 || first.Skipped != 0 {
		t.Errorf("first report = %+v", first)
	}
	if first.Period != "2025-06" {
		t.Errorf("period = %s, want 2025-06", first.Period)
	}

	second, err := svc.RunMonthlySalary(context.Background(), fixedNow.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Credited != 0 || second.Skipped != 2 {
		t.Errorf("second report = %+v", second)
	}
	if got := db.funds("HT-1111111"); got != 1050 {
		t.Errorf("home-teacher funds = %d, want 1050", got)
	}
	if got := db.funds("FM-1111111"); got != 0 {
		t.Errorf("field-manager paid a salary: %d", got)
	}

	next, err := svc.RunMonthlySalary(context.Background(), fixedNow.AddDate(0, 1, 0))
	if err != nil || next.Credited != 2 {
		t.Errorf("next month = %+v, %v", next, err)
	}
}

func TestDailyBonus(t *testing.T) {
	tests := []struct {
		name       string
		idempotent bool
		wantFunds  int64
	}{
		{"guarded", true, 35},
		{"legacy unguarded", false, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newMemDB()
			seedCreditTree(db)
			svc := NewCreditService(db, newMemCredits(db), CreditPlan{DailyBonusAmount: 35, DailyBonusIdempotent: tt.idempotent}, zap.NewNop())

			for i := 0; i < 2; i++ {
				rep, err := svc.Run(context.Background(), JobDailyBonus, fixedNow)
				if err != nil {
					t.Fatalf("run %d: %v", i, err)
				}
				if rep.Eligible != 5 {
					t.Errorf("run %d: eligible = %d, want 5 (every employee)", i, rep.Eligible)
				}
				if i == 1 && tt.idempotent && (rep.Credited != 0 || rep.Skipped != 5) {
					t.Errorf("guarded rerun = %+v, want all skipped", rep)
				}
			}
			for _, id := range []string{"B-bbbbbbb", "M-aaaaaaa", "FM-1111111", "HT-2222222"} {
				if got := db.funds(id); got != tt.wantFunds {
					t.Errorf("%s funds = %d, want %d", id, got, tt.wantFunds)
				}
			}
		})
	}
}

func TestCreditRunContinuesPastFailures(t *testing.T) {
	db := newMemDB()
	seedCreditTree(db)
	credits := newMemCredits(db)
	credits.failFor["HT-1111111"] = true
	svc := NewCreditService(db, credits, CreditPlan{MonthlySalaryAmount: 1050}, zap.NewNop())

	rep, err := svc.RunMonthlySalary(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Failed != 1 || rep.Credited != 1 {
		t.Errorf("report = %+v, want 1 failed and 1 credited", rep)
	}
	if got := db.funds("HT-2222222"); got != 1050 {
		t.Errorf("second home-teacher funds = %d, want 1050", got)
	}
}

func TestRunUnknownJob(t *testing.T) {
	db := newMemDB()
	svc := NewCreditService(db, newMemCredits(db), CreditPlan{}, zap.NewNop())
	if _, err := svc.Run(context.Background(), "weekly-party", fixedNow); err == nil {
		t.Fatal("expected an error for an unknown job")
	}
}

func TestPeriod(t *testing.T) {
	if got := Period(JobDailyBonus, fixedNow); got != "2025-06-15" {
		t.Errorf("daily period = %s", got)
	}
	if got := Period(JobMonthlySalary, fixedNow); got != "2025-06" {
		t.Errorf("monthly period = %s", got)
	}

	// A UTC clock still lands on the IST day the guard rows are keyed on.
	lateUTC := time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC)
	if got := Period(JobDailyBonus, lateUTC); got != "2025-07-01" {
		t.Errorf("daily period at %v = %s, want 2025-07-01", lateUTC, got)
	}
	if got := Period(JobMonthlySalary, lateUTC); got != "2025-07" {
		t.Errorf("monthly period at %v = %s, want 2025-07", lateUTC, got)
	}
}
