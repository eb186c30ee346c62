// Package postgres is the pgx-backed store used when several app
// instances share one database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	purpose      TEXT NOT NULL,
	amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
	category     TEXT NOT NULL,
	expense_date DATE NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses (user_id, expense_date DESC);

CREATE TABLE IF NOT EXISTS bills (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
	due_date     DATE NOT NULL,
	category     TEXT NOT NULL,
	is_paid      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bills_user_due ON bills (user_id, due_date);

CREATE TABLE IF NOT EXISTS subscriptions (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name          TEXT NOT NULL,
	amount_cents  BIGINT NOT NULL CHECK (amount_cents >= 0),
	billing_cycle TEXT NOT NULL,
	next_payment  DATE NOT NULL,
	category      TEXT NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_subscriptions_user_next ON subscriptions (user_id, next_payment);

CREATE TABLE IF NOT EXISTS budgets (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	category     TEXT NOT NULL,
	amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
	period       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_budgets_user_category ON budgets (user_id, category);
`

type Repository struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, url string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// --- expenses ---

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO expenses (id, user_id, purpose, amount_cents, category, expense_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.UserID, e.Purpose, e.Amount.Cents, e.Category, e.Date.Time, e.Description, e.CreatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

func (r *Repository) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, purpose, amount_cents, category, expense_date, description, created_at
		FROM expenses
		WHERE user_id = $1
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

func (r *Repository) GetExpense(ctx context.Context, userID, id string) (core.Expense, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, purpose, amount_cents, category, expense_date, description, created_at
		FROM expenses
		WHERE id = $1 AND user_id = $2`,
		id, userID)

	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE expenses
		SET purpose = $1, amount_cents = $2, category = $3, expense_date = $4, description = $5
		WHERE id = $6 AND user_id = $7`,
		e.Purpose, e.Amount.Cents, e.Category, e.Date.Time, e.Description, e.ID, e.UserID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Expense{}, store.ErrNotFound
	}
	return r.GetExpense(ctx, e.UserID, e.ID)
}

func (r *Repository) DeleteExpense(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (core.Expense, error) {
	var (
		e       core.Expense
		day     time.Time
		created time.Time
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Purpose, &e.Amount.Cents, &e.Category, &day, &e.Description, &created); err != nil {
		return core.Expense{}, err
	}
	e.Date = core.DateOf(day)
	e.CreatedAt = created
	return e, nil
}

// --- bills ---

func (r *Repository) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO bills (id, user_id, name, amount_cents, due_date, category, is_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.UserID, b.Name, b.Amount.Cents, b.DueDate.Time, b.Category, b.IsPaid, b.CreatedAt)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	return b, nil
}

func (r *Repository) ListBills(ctx context.Context, userID string) ([]core.Bill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, amount_cents, due_date, category, is_paid, created_at
		FROM bills
		WHERE user_id = $1
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

func (r *Repository) GetBill(ctx context.Context, userID, id string) (core.Bill, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, amount_cents, due_date, category, is_paid, created_at
		FROM bills
		WHERE id = $1 AND user_id = $2`,
		id, userID)

	b, err := scanBill(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Bill{}, store.ErrNotFound
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

func (r *Repository) UpdateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bills
		SET name = $1, amount_cents = $2, due_date = $3, category = $4, is_paid = $5
		WHERE id = $6 AND user_id = $7`,
		b.Name, b.Amount.Cents, b.DueDate.Time, b.Category, b.IsPaid, b.ID, b.UserID)
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Bill{}, store.ErrNotFound
	}
	return r.GetBill(ctx, b.UserID, b.ID)
}

func (r *Repository) SetBillPaid(ctx context.Context, userID, id string, paid bool) (core.Bill, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bills SET is_paid = $1 WHERE id = $2 AND user_id = $3`,
		paid, id, userID)
	if err != nil {
		return core.Bill{}, fmt.Errorf("set bill paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Bill{}, store.ErrNotFound
	}
	return r.GetBill(ctx, userID, id)
}

func (r *Repository) DeleteBill(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bills WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanBill(row pgx.Row) (core.Bill, error) {
	var (
		b       core.Bill
		due     time.Time
		created time.Time
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount.Cents, &due, &b.Category, &b.IsPaid, &created); err != nil {
		return core.Bill{}, err
	}
	b.DueDate = core.DateOf(due)
	b.CreatedAt = created
	return b, nil
}

// --- subscriptions ---

func (r *Repository) CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, user_id, name, amount_cents, billing_cycle, next_payment, category, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.UserID, s.Name, s.Amount.Cents, string(s.BillingCycle), s.NextPayment.Time, s.Category, s.IsActive, s.CreatedAt)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	return s, nil
}

func (r *Repository) ListSubscriptions(ctx context.Context, userID string) ([]core.Subscription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, amount_cents, billing_cycle, next_payment, category, is_active, created_at
		FROM subscriptions
		WHERE user_id = $1
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

func (r *Repository) GetSubscription(ctx context.Context, userID, id string) (core.Subscription, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, amount_cents, billing_cycle, next_payment, category, is_active, created_at
		FROM subscriptions
		WHERE id = $1 AND user_id = $2`,
		id, userID)

	s, err := scanSubscription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Subscription{}, store.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	return s, nil
}

func (r *Repository) UpdateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE subscriptions
		SET name = $1, amount_cents = $2, billing_cycle = $3, next_payment = $4, category = $5, is_active = $6
		WHERE id = $7 AND user_id = $8`,
		s.Name, s.Amount.Cents, string(s.BillingCycle), s.NextPayment.Time, s.Category, s.IsActive, s.ID, s.UserID)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Subscription{}, store.ErrNotFound
	}
	return r.GetSubscription(ctx, s.UserID, s.ID)
}

func (r *Repository) SetSubscriptionActive(ctx context.Context, userID, id string, active bool) (core.Subscription, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE subscriptions SET is_active = $1 WHERE id = $2 AND user_id = $3`,
		active, id, userID)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("set subscription active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Subscription{}, store.ErrNotFound
	}
	return r.GetSubscription(ctx, userID, id)
}

func (r *Repository) DeleteSubscription(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanSubscription(row pgx.Row) (core.Subscription, error) {
	var (
		s       core.Subscription
		cycle   string
		next    time.Time
		created time.Time
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Amount.Cents, &cycle, &next, &s.Category, &s.IsActive, &created); err != nil {
		return core.Subscription{}, err
	}
	s.BillingCycle = core.BillingCycle(cycle)
	s.NextPayment = core.DateOf(next)
	s.CreatedAt = created
	return s, nil
}

// --- budgets ---

func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO budgets (id, user_id, category, amount_cents, period, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.UserID, b.Category, b.Amount.Cents, b.Period, b.CreatedAt)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (r *Repository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, category, amount_cents, period, created_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY category, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents, &b.Period, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	var b core.Budget
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, category, amount_cents, period, created_at
		FROM budgets
		WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents, &b.Period, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *Repository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE budgets
		SET category = $1, amount_cents = $2, period = $3
		WHERE id = $4 AND user_id = $5`,
		b.Category, b.Amount.Cents, b.Period, b.ID, b.UserID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Budget{}, store.ErrNotFound
	}
	return r.GetBudget(ctx, b.UserID, b.ID)
}

func (r *Repository) DeleteBudget(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- users ---

func (r *Repository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUnique(err) {
			return core.User{}, store.ErrEmailTaken
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *Repository) GetUser(ctx context.Context, id string) (core.User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (r *Repository) getUser(ctx context.Context, query string, arg any) (core.User, error) {
	var u core.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, password_hash, created_at FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
