package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly    BillingCycle = "weekly"
	Monthly   BillingCycle = "monthly"
	Quarterly BillingCycle = "quarterly"
	Yearly    BillingCycle = "yearly"
)

type (
	BillingCycle string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single spent amount on a calendar day.
	Expense struct {
		ID          string
		Purpose     string
		Amount      Money
		Category    string
		Date        Date
		Description string
		UserID      string
		CreatedAt   time.Time
	}

	// Bill is a payable item with a due date and a paid flag.
	Bill struct {
		ID        string
		Name      string
		Amount    Money
		DueDate   Date
		Category  string
		IsPaid    bool
		UserID    string
		CreatedAt time.Time
	}

	// Subscription is a recurring charge on a billing cycle.
	Subscription struct {
		ID           string
		Name         string
		Amount       Money
		BillingCycle BillingCycle
		NextPayment  Date
		Category     string
		IsActive     bool
		UserID       string
		CreatedAt    time.Time
	}

	// Budget is a per-category spending limit for a period.
	Budget struct {
		ID        string
		Category  string
		Amount    Money
		Period    string
		UserID    string
		CreatedAt time.Time
	}

	User struct {
		ID           string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}
)

// Fixed category sets per record kind.
var (
	ExpenseCategories = []string{
		"Food", "Transportation", "Entertainment", "Health", "Education",
		"Shopping", "Utilities", "Housing", "Insurance", "Software", "Other",
	}

	BillCategories = []string{
		"Utilities", "Housing", "Insurance", "Transportation", "Health",
		"Education", "Other",
	}

	SubscriptionCategories = []string{
		"Entertainment", "Software", "Shopping", "Health", "Education",
		"News", "Other",
	}

	BudgetPeriods = []string{"monthly", "yearly"}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidCycle    = errors.New("invalid billing cycle")
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrPurposeTooLong  = errors.New("purpose too long (max 200 characters)")
)

// NewDate creates a Date at UTC midnight of the given calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), int(u.Month()), u.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidCycle reports whether c is one of the fixed billing cycles.
func ValidCycle(c BillingCycle) bool {
	switch c {
	case Weekly, Monthly, Quarterly, Yearly:
		return true
	default:
		return false
	}
}

func inSet(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Purpose)) == 0 {
		return ErrEmptyName
	}
	if len(e.Purpose) > 200 {
		return ErrPurposeTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !inSet(ExpenseCategories, e.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func (b Bill) Validate() error {
	if err := b.DueDate.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !inSet(BillCategories, b.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func (s Subscription) Validate() error {
	if err := s.NextPayment.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(s.Name)) == 0 {
		return ErrEmptyName
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if !ValidCycle(s.BillingCycle) {
		return ErrInvalidCycle
	}
	if !inSet(SubscriptionCategories, s.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrInvalidCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !inSet(BudgetPeriods, b.Period) {
		return ErrInvalidPeriod
	}
	return nil
}

func (u User) Validate() error {
	email := strings.TrimSpace(u.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
