package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/repositories"
	"edustaff-backend/internal/timeutil"
)

// memDB is an in-memory stand-in for the PostgreSQL repositories. It keeps
// the same atomicity rules: a failed creation or transfer leaves no trace.
type memDB struct {
	mu          sync.Mutex
	order       []string
	employees   map[string]*models.Employee
	commissions []models.Commission
	transfers   []models.FundsTransfer
	entries     []models.LedgerEntry

	// createErrs are returned by Create, in order, before any work is done.
	createErrs []error
	createCall int
}

func newMemDB() *memDB {
	return &memDB{employees: map[string]*models.Employee{}}
}

func strPtr(s string) *string { return &s }

func (m *memDB) add(e *models.Employee) *models.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Date(2024, 1, 1, 10, 0, 0, 0, timeutil.IST)
	}
	m.employees[e.ID] = e
	m.order = append(m.order, e.ID)
	if e.Funds != 0 {
		m.entries = append(m.entries, models.LedgerEntry{EmployeeID: e.ID, Amount: e.Funds, RunningBalance: e.Funds})
	}
	return e
}

func (m *memDB) funds(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.employees[id].Funds
}

func (m *memDB) move(id string, amount int64, entry models.LedgerEntryType) error {
	e, ok := m.employees[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if amount < 0 && e.Funds < -amount {
		return repositories.ErrInsufficientFunds
	}
	e.Funds += amount
	m.entries = append(m.entries, models.LedgerEntry{EmployeeID: id, EntryType: entry, Amount: amount, RunningBalance: e.Funds})
	return nil
}

func (m *memDB) Get(ctx context.Context, id string) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (m *memDB) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		if e := m.employees[id]; e.Email == email {
			c := *e
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memDB) Create(ctx context.Context, c *models.EmployeeCreation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCall++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		return err
	}

	if _, ok := m.employees[c.Employee.ID]; ok {
		return repositories.ErrDuplicateID
	}
	for _, e := range m.employees {
		if e.Email == c.Employee.Email || e.Phone == c.Employee.Phone {
			return repositories.ErrDuplicateContact
		}
	}

	creator := m.employees[c.CreatorID]
	if c.Debit > 0 {
		if creator == nil {
			return repositories.ErrNotFound
		}
		if creator.Funds < c.Debit {
			return repositories.ErrInsufficientFunds
		}
	}

	emp := *c.Employee
	m.employees[emp.ID] = &emp
	m.order = append(m.order, emp.ID)
	if c.Debit > 0 {
		_ = m.move(c.CreatorID, -c.Debit, models.LedgerEntryCreationFee)
	}
	if c.Credit > 0 && creator != nil {
		_ = m.move(c.CreatorID, c.Credit, models.LedgerEntryCommission)
	}
	if c.Commission != nil {
		row := *c.Commission
		row.ID = int64(len(m.commissions) + 1)
		row.CreatedID = emp.ID
		row.CreatedName = emp.Name
		m.commissions = append(m.commissions, row)
	}
	return nil
}

func (m *memDB) list(keep func(*models.Employee) bool) []*models.Employee {
	out := []*models.Employee{}
	for _, id := range m.order {
		if e := m.employees[id]; keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}

func (m *memDB) ListAll(ctx context.Context) ([]*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(*models.Employee) bool { return true }), nil
}

func (m *memDB) ListDirectReports(ctx context.Context, managerID string, role hierarchy.Role) ([]*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(e *models.Employee) bool {
		return e.Role == role && e.ManagerID != nil && *e.ManagerID == managerID
	}), nil
}

func (m *memDB) ListTwoLevels(ctx context.Context, managerID string) ([]*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(e *models.Employee) bool {
		if e.ManagerID == nil {
			return false
		}
		if *e.ManagerID == managerID {
			return true
		}
		p, ok := m.employees[*e.ManagerID]
		return ok && p.ManagerID != nil && *p.ManagerID == managerID
	}), nil
}

func (m *memDB) ListIDsByRole(ctx context.Context, roles ...hierarchy.Role) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, id := range m.order {
		for _, r := range roles {
			if m.employees[id].Role == r {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (m *memDB) Stats(ctx context.Context) (*models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &models.DashboardStats{RoleCounts: map[hierarchy.Role]int64{}}
	for _, e := range m.employees {
		st.TotalEmployees++
		st.RoleCounts[e.Role]++
		if e.Funds > 0 {
			st.TotalFunds += e.Funds
		}
	}
	return st, nil
}

func (m *memDB) FieldManagerSummaries(ctx context.Context, managerID string) ([]models.FieldManagerSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FieldManagerSummary{}
	for _, fm := range m.list(func(e *models.Employee) bool {
		return e.Role == hierarchy.FieldManager && e.ManagerID != nil && *e.ManagerID == managerID
	}) {
		s := models.FieldManagerSummary{ID: fm.ID, Name: fm.Name, Funds: fm.Funds}
		for _, e := range m.employees {
			if e.ManagerID != nil && *e.ManagerID == fm.ID {
				s.HomeTeacherCount++
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// memLedger implements LedgerStore over a memDB.
type memLedger struct{ db *memDB }

func (l memLedger) Transfer(ctx context.Context, senderID *string, receiverID string, amount int64, at time.Time) (*models.FundsTransfer, error) {
	m := l.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[receiverID]; !ok {
		return nil, repositories.ErrNotFound
	}
	if senderID != nil {
		if err := m.move(*senderID, -amount, models.LedgerEntryTransferOut); err != nil {
			return nil, err
		}
	}
	_ = m.move(receiverID, amount, models.LedgerEntryTransferIn)

	t := models.FundsTransfer{
		ID:            int64(len(m.transfers) + 1),
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Amount:        amount,
		TransferredAt: at,
	}
	m.transfers = append(m.transfers, t)
	return &t, nil
}

func (l memLedger) GetFunds(ctx context.Context, id string) (int64, error) {
	e, err := l.db.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return e.Funds, nil
}

func (l memLedger) Reconcile(ctx context.Context, id string) (*models.Reconciliation, error) {
	m := l.db
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	rec := &models.Reconciliation{EmployeeID: id, StoredFunds: e.Funds}
	for _, en := range m.entries {
		if en.EmployeeID == id {
			rec.LedgerSum += en.Amount
		}
	}
	rec.Balanced = rec.LedgerSum == rec.StoredFunds
	return rec, nil
}

func (l memLedger) ListTransfers(ctx context.Context, f repositories.TransferFilter) ([]models.FundsTransfer, error) {
	m := l.db
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FundsTransfer{}
	for _, t := range m.transfers {
		if t.TransferredAt.Before(f.From) || !t.TransferredAt.Before(f.To) {
			continue
		}
		if f.Participant != nil {
			sender := t.SenderID != nil && *t.SenderID == *f.Participant
			if !sender && t.ReceiverID != *f.Participant {
				continue
			}
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TransferredAt.After(out[j].TransferredAt) })
	return out, nil
}

func (l memLedger) ListEntries(ctx context.Context, id string, limit int) ([]models.LedgerEntry, error) {
	m := l.db
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.LedgerEntry{}
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].EmployeeID == id {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

// memCommissions implements CommissionStore over a memDB.
type memCommissions struct{ db *memDB }

func (c memCommissions) List(ctx context.Context, f repositories.CommissionFilter) ([]models.Commission, error) {
	m := c.db
	m.mu.Lock()
	defer m.mu.Unlock()
	eq := func(p *string, v string) bool { return p != nil && *p == v }
	out := []models.Commission{}
	for _, row := range m.commissions {
		if row.RegisteredAt.Before(f.From) || !row.RegisteredAt.Before(f.To) {
			continue
		}
		if f.ManagerID != nil && !eq(row.ManagerID, *f.ManagerID) {
			continue
		}
		if f.FieldManagerID != nil && !eq(row.FieldManagerID, *f.FieldManagerID) {
			continue
		}
		if f.Beneficiary != nil && !eq(row.ManagerID, *f.Beneficiary) && !eq(row.FieldManagerID, *f.Beneficiary) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (c memCommissions) TotalForManager(ctx context.Context, managerID string) (int64, error) {
	m := c.db
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, row := range m.commissions {
		if row.ManagerID != nil && *row.ManagerID == managerID {
			total += row.ManagerCommission
		}
	}
	return total, nil
}

// memCredits implements CreditStore with per-period guard sets.
type memCredits struct {
	db      *memDB
	salary  map[string]models.SalaryCredit
	bonus   map[string]bool
	failFor map[string]bool
}

func newMemCredits(db *memDB) *memCredits {
	return &memCredits{db: db, salary: map[string]models.SalaryCredit{}, bonus: map[string]bool{}, failFor: map[string]bool{}}
}

func (c *memCredits) CreditSalary(ctx context.Context, empID string, amount int64, month time.Time) (bool, error) {
	if c.failFor[empID] {
		return false, errors.New("connection reset")
	}
	key := empID + "|" + timeutil.StartOfMonth(month).Format(timeutil.DateLayout)
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if _, ok := c.salary[key]; ok {
		return false, nil
	}
	if err := c.db.move(empID, amount, models.LedgerEntryMonthlySalary); err != nil {
		return false, err
	}
	c.salary[key] = models.SalaryCredit{EmployeeID: empID, Amount: amount, SalaryMonth: month, CreditedAt: month.Add(5 * time.Hour), Status: "credited"}
	return true, nil
}

func (c *memCredits) CreditBonus(ctx context.Context, empID string, amount int64, day time.Time, guarded bool) (bool, error) {
	if c.failFor[empID] {
		return false, errors.New("connection reset")
	}
	key := empID + "|" + timeutil.StartOfDay(day).Format(timeutil.DateLayout)
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if guarded && c.bonus[key] {
		return false, nil
	}
	if err := c.db.move(empID, amount, models.LedgerEntryDailyBonus); err != nil {
		return false, err
	}
	c.bonus[key] = true
	return true, nil
}

func (c *memCredits) GetSalaryCredit(ctx context.Context, empID string, month time.Time) (*models.SalaryCredit, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	sc, ok := c.salary[empID+"|"+timeutil.StartOfMonth(month).Format(timeutil.DateLayout)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &sc, nil
}

type memSlips struct {
	rows []models.SalarySlipRecord
	now  time.Time
}

func (s *memSlips) Upsert(ctx context.Context, employeeID string, month, year int) (*models.SalarySlipRecord, error) {
	for i := range s.rows {
		r := &s.rows[i]
		if r.EmployeeID == employeeID && r.Month == month && r.Year == year {
			r.GeneratedAt = s.now
			c := *r
			return &c, nil
		}
	}
	r := models.SalarySlipRecord{ID: int64(len(s.rows) + 1), EmployeeID: employeeID, Month: month, Year: year, GeneratedAt: s.now, CreatedAt: s.now}
	s.rows = append(s.rows, r)
	return &r, nil
}

func (s *memSlips) ListRecent(ctx context.Context, employeeID string, limit int) ([]models.SalarySlipRecord, error) {
	out := []models.SalarySlipRecord{}
	for _, r := range s.rows {
		if r.EmployeeID == employeeID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type memArchive struct {
	objects map[string][]byte
	err     error
}

func (a *memArchive) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if a.err != nil {
		return a.err
	}
	if a.objects == nil {
		a.objects = map[string][]byte{}
	}
	a.objects[key] = body
	return nil
}

type memInquiries struct{ rows []models.UserInquiry }

func (q *memInquiries) Create(ctx context.Context, in *models.UserInquiry) error {
	in.ID = int64(len(q.rows) + 1)
	q.rows = append(q.rows, *in)
	return nil
}

func (q *memInquiries) List(ctx context.Context) ([]models.UserInquiry, error) {
	return q.rows, nil
}

// fixedNow is 15 Jun 2025, 11:00 IST.
var fixedNow = time.Date(2025, 6, 15, 11, 0, 0, 0, timeutil.IST)

func clock() time.Time { return fixedNow }

func fastHash(pw string) (string, error) { return "hash:" + pw, nil }
