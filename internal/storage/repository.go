// Package storage is the SQLite store backend. Dates are stored as
// ISO-8601 day strings and timestamps as RFC 3339 so the schema stays
// portable across drivers.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const (
	dayFormat = "2006-01-02"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func formatDay(d core.Date) string {
	return d.Format(dayFormat)
}

func parseDay(s string) (core.Date, error) {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

func formatStamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- expenses ---

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, purpose, amount_cents, category, expense_date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Purpose, e.Amount.Cents, e.Category, formatDay(e.Date), e.Description, formatStamp(e.CreatedAt))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, purpose, amount_cents, category, expense_date, description, created_at
		FROM expenses
		WHERE user_id = ?
		ORDER BY expense_date DESC, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, userID, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, purpose, amount_cents, category, expense_date, description, created_at
		FROM expenses
		WHERE id = ? AND user_id = ?`,
		id, userID)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET purpose = ?, amount_cents = ?, category = ?, expense_date = ?, description = ?
		WHERE id = ? AND user_id = ?`,
		e.Purpose, e.Amount.Cents, e.Category, formatDay(e.Date), e.Description, e.ID, e.UserID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Expense{}, store.ErrNotFound
	}
	return r.GetExpense(ctx, e.UserID, e.ID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e        core.Expense
		day      string
		created  string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Purpose, &e.Amount.Cents, &e.Category, &day, &e.Description, &created); err != nil {
		return core.Expense{}, err
	}
	d, err := parseDay(day)
	if err != nil {
		return core.Expense{}, err
	}
	e.Date = d
	e.CreatedAt = parseStamp(created)
	return e, nil
}

// --- bills ---

func (r *SQLiteRepository) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bills (id, user_id, name, amount_cents, due_date, category, is_paid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Name, b.Amount.Cents, formatDay(b.DueDate), b.Category, b.IsPaid, formatStamp(b.CreatedAt))
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBills(ctx context.Context, userID string) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, amount_cents, due_date, category, is_paid, created_at
		FROM bills
		WHERE user_id = ?
		ORDER BY due_date, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var out []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetBill(ctx context.Context, userID, id string) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, amount_cents, due_date, category, is_paid, created_at
		FROM bills
		WHERE id = ? AND user_id = ?`,
		id, userID)

	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, store.ErrNotFound
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) UpdateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bills
		SET name = ?, amount_cents = ?, due_date = ?, category = ?, is_paid = ?
		WHERE id = ? AND user_id = ?`,
		b.Name, b.Amount.Cents, formatDay(b.DueDate), b.Category, b.IsPaid, b.ID, b.UserID)
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Bill{}, store.ErrNotFound
	}
	return r.GetBill(ctx, b.UserID, b.ID)
}

func (r *SQLiteRepository) SetBillPaid(ctx context.Context, userID, id string, paid bool) (core.Bill, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bills SET is_paid = ? WHERE id = ? AND user_id = ?`,
		paid, id, userID)
	if err != nil {
		return core.Bill{}, fmt.Errorf("set bill paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Bill{}, store.ErrNotFound
	}
	return r.GetBill(ctx, userID, id)
}

func (r *SQLiteRepository) DeleteBill(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanBill(row rowScanner) (core.Bill, error) {
	var (
		b       core.Bill
		due     string
		created string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount.Cents, &due, &b.Category, &b.IsPaid, &created); err != nil {
		return core.Bill{}, err
	}
	d, err := parseDay(due)
	if err != nil {
		return core.Bill{}, err
	}
	b.DueDate = d
	b.CreatedAt = parseStamp(created)
	return b, nil
}

// --- subscriptions ---

func (r *SQLiteRepository) CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, user_id, name, amount_cents, billing_cycle, next_payment, category, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Name, s.Amount.Cents, string(s.BillingCycle), formatDay(s.NextPayment), s.Category, s.IsActive, formatStamp(s.CreatedAt))
	if err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context, userID string) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, amount_cents, billing_cycle, next_payment, category, is_active, created_at
		FROM subscriptions
		WHERE user_id = ?
		ORDER BY next_payment, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []core.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetSubscription(ctx context.Context, userID, id string) (core.Subscription, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, amount_cents, billing_cycle, next_payment, category, is_active, created_at
		FROM subscriptions
		WHERE id = ? AND user_id = ?`,
		id, userID)

	s, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subscription{}, store.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) UpdateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET name = ?, amount_cents = ?, billing_cycle = ?, next_payment = ?, category = ?, is_active = ?
		WHERE id = ? AND user_id = ?`,
		s.Name, s.Amount.Cents, string(s.BillingCycle), formatDay(s.NextPayment), s.Category, s.IsActive, s.ID, s.UserID)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Subscription{}, store.ErrNotFound
	}
	return r.GetSubscription(ctx, s.UserID, s.ID)
}

func (r *SQLiteRepository) SetSubscriptionActive(ctx context.Context, userID, id string, active bool) (core.Subscription, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET is_active = ? WHERE id = ? AND user_id = ?`,
		active, id, userID)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("set subscription active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Subscription{}, store.ErrNotFound
	}
	return r.GetSubscription(ctx, userID, id)
}

func (r *SQLiteRepository) DeleteSubscription(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanSubscription(row rowScanner) (core.Subscription, error) {
	var (
		s       core.Subscription
		cycle   string
		next    string
		created string
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Amount.Cents, &cycle, &next, &s.Category, &s.IsActive, &created); err != nil {
		return core.Subscription{}, err
	}
	d, err := parseDay(next)
	if err != nil {
		return core.Subscription{}, err
	}
	s.BillingCycle = core.BillingCycle(cycle)
	s.NextPayment = d
	s.CreatedAt = parseStamp(created)
	return s, nil
}

// --- budgets ---

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category, amount_cents, period, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Category, b.Amount.Cents, b.Period, formatStamp(b.CreatedAt))
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount_cents, period, created_at
		FROM budgets
		WHERE user_id = ?
		ORDER BY category, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, amount_cents, period, created_at
		FROM budgets
		WHERE id = ? AND user_id = ?`,
		id, userID)

	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET category = ?, amount_cents = ?, period = ?
		WHERE id = ? AND user_id = ?`,
		b.Category, b.Amount.Cents, b.Period, b.ID, b.UserID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Budget{}, store.ErrNotFound
	}
	return r.GetBudget(ctx, b.UserID, b.ID)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b       core.Budget
		created string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents, &b.Period, &created); err != nil {
		return core.Budget{}, err
	}
	b.CreatedAt = parseStamp(created)
	return b, nil
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, formatStamp(u.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return core.User{}, store.ErrEmailTaken
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (r *SQLiteRepository) getUser(ctx context.Context, query string, arg any) (core.User, error) {
	var (
		u       core.User
		created string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = parseStamp(created)
	return u, nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, password_hash, created_at FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var (
			u       core.User
			created string
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &created); err != nil {
			return nil, err
		}
		u.CreatedAt = parseStamp(created)
		out = append(out, u)
	}
	return out, rows.Err()
}
