package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Checking   AccountType = "checking"
	Bill       AccountType = "bill"
	Expense    AccountType = "expense"
	Goal       AccountType = "goal"
	Savings    AccountType = "savings"
	Investment AccountType = "investment"
)

type (
	AccountType string

	// Transaction is a single signed ledger entry. Negative amounts are
	// expenses, positive amounts are income or transfers in.
	Transaction struct {
		ID          int64     `json:"id"`
		AccountID   int64     `json:"account_id"`
		Amount      float64   `json:"amount"`
		Description string    `json:"description"`
		Category    string    `json:"category"`
		Date        string    `json:"date"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// Account groups transactions and carries the running balance. Goal
	// accounts additionally carry a target amount and deadline.
	Account struct {
		ID             int64         `json:"id"`
		FolderID       int64         `json:"folder_id"`
		Name           string        `json:"name"`
		Type           AccountType   `json:"type"`
		MonthlyBudget  float64       `json:"monthly_budget"`
		TargetAmount   float64       `json:"target_amount"`
		Deadline       string        `json:"deadline,omitempty"`
		CurrentBalance float64       `json:"current_balance"`
		CreatedAt      time.Time     `json:"created_at"`
		Transactions   []Transaction `json:"-"`
	}

	Folder struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
)

var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidDate        = errors.New("invalid date")
)

// dateLayouts are the accepted ISO-8601 shapes, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 timestamp string. Records whose date fails to
// parse are excluded from date-dependent analysis rather than aborting it.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func (t AccountType) Validate() error {
	switch t {
	case Checking, Bill, Expense, Goal, Savings, Investment:
		return nil
	}
	return ErrInvalidAccountType
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return errors.New("empty description")
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	if err := a.Type.Validate(); err != nil {
		return err
	}
	if a.Deadline != "" {
		if _, err := ParseDate(a.Deadline); err != nil {
			return errors.New("invalid deadline: " + err.Error())
		}
	}
	return nil
}

func (f Folder) Validate() error {
	if len(strings.TrimSpace(f.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}

// AddTransaction appends the transaction and applies its signed amount to
// the running balance.
func (a *Account) AddTransaction(t Transaction) {
	a.Transactions = append(a.Transactions, t)
	a.CurrentBalance += t.Amount
}

// Expenses returns the transactions with negative amounts, in arrival order.
func (a Account) Expenses() []Transaction {
	var out []Transaction
	for _, t := range a.Transactions {
		if t.Amount < 0 {
			out = append(out, t)
		}
	}
	return out
}

// Incomes returns the transactions with positive amounts, in arrival order.
func (a Account) Incomes() []Transaction {
	var out []Transaction
	for _, t := range a.Transactions {
		if t.Amount > 0 {
			out = append(out, t)
		}
	}
	return out
}

// MonthlySpending sums absolute expense amounts dated in the calendar month
// containing now. Records with unparseable dates are skipped.
func (a Account) MonthlySpending(now time.Time) float64 {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var total float64
	for _, t := range a.Transactions {
		if t.Amount >= 0 {
			continue
		}
		d, err := ParseDate(t.Date)
		if err != nil {
			continue
		}
		if !d.Before(monthStart) {
			total += -t.Amount
		}
	}
	return total
}

// BudgetUtilization reports current-month spending as a percentage of the
// monthly budget. Zero when no budget is set.
func (a Account) BudgetUtilization(now time.Time) float64 {
	if a.MonthlyBudget == 0 {
		return 0
	}
	return a.MonthlySpending(now) / a.MonthlyBudget * 100
}

// HealthStatus classifies budget utilization.
func (a Account) HealthStatus(now time.Time) string {
	utilization := a.BudgetUtilization(now)
	switch {
	case utilization > 100:
		return "over_budget"
	case utilization > 80:
		return "warning"
	default:
		return "healthy"
	}
}

// Snapshot returns a deep copy of the account. Every analysis call gets its
// own snapshot so concurrent handlers never share a mutable transaction list.
func (a Account) Snapshot() Account {
	cp := a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return cp
}
