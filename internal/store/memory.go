// Package store holds all records in memory, keyed by user. Data is lost on
// restart; the service intentionally has no database behind it.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/grokalmighty/PennyPincher/internal/core"
)

var (
	ErrFolderNotFound  = errors.New("folder not found")
	ErrAccountNotFound = errors.New("account not found")
)

// Memory is a mutex-guarded multi-user record store. Every read returns a
// deep copy so callers (and the insight engine in particular) always work on
// their own snapshot.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*userData
	now   func() time.Time
}

type userData struct {
	folders  map[int64]*core.Folder
	accounts map[int64]*core.Account

	nextFolderID      int64
	nextAccountID     int64
	nextTransactionID int64
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]*userData),
		now:   time.Now,
	}
}

// user returns the user's data, seeding defaults on first access.
// Caller must hold the write lock.
func (m *Memory) user(userID string) *userData {
	u, ok := m.users[userID]
	if !ok {
		u = &userData{
			folders:           make(map[int64]*core.Folder),
			accounts:          make(map[int64]*core.Account),
			nextFolderID:      1,
			nextAccountID:     1,
			nextTransactionID: 1,
		}
		m.users[userID] = u
		m.seed(u)
	}
	return u
}

// seed creates the starter folders and accounts every new user begins with.
func (m *Memory) seed(u *userData) {
	folders := []core.Folder{
		{Name: "Essentials", Description: "Basic living expenses", Icon: "🏠"},
		{Name: "Goals", Description: "Savings goals and targets", Icon: "🎯"},
		{Name: "Lifestyle", Description: "Discretionary spending", Icon: "🍽️"},
		{Name: "Investments", Description: "Long-term savings", Icon: "📈"},
	}
	for _, f := range folders {
		f.ID = u.nextFolderID
		u.nextFolderID++
		cp := f
		u.folders[f.ID] = &cp
	}

	accounts := []core.Account{
		{Name: "Groceries", Type: core.Expense, FolderID: 1, MonthlyBudget: 500},
		{Name: "Emergency Fund", Type: core.Goal, FolderID: 2, TargetAmount: 10000},
		{Name: "Dining Out", Type: core.Expense, FolderID: 3, MonthlyBudget: 200},
	}
	for _, a := range accounts {
		a.ID = u.nextAccountID
		a.CreatedAt = m.now()
		u.nextAccountID++
		cp := a
		u.accounts[a.ID] = &cp
	}
}

// CreateFolder stores a new folder and returns it with its assigned ID.
func (m *Memory) CreateFolder(userID string, f core.Folder) (core.Folder, error) {
	if err := f.Validate(); err != nil {
		return core.Folder{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(userID)
	f.ID = u.nextFolderID
	u.nextFolderID++
	cp := f
	u.folders[f.ID] = &cp
	return f, nil
}

// Folders lists the user's folders in ID order.
func (m *Memory) Folders(userID string) []core.Folder {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(userID)
	out := make([]core.Folder, 0, len(u.folders))
	for id := int64(1); id < u.nextFolderID; id++ {
		if f, ok := u.folders[id]; ok {
			out = append(out, *f)
		}
	}
	return out
}

// CreateAccount stores a new account under an existing folder.
func (m *Memory) CreateAccount(userID string, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(userID)
	if _, ok := u.folders[a.FolderID]; !ok {
		return core.Account{}, ErrFolderNotFound
	}
	a.ID = u.nextAccountID
	a.CreatedAt = m.now()
	a.Transactions = nil
	u.nextAccountID++
	cp := a.Snapshot()
	u.accounts[a.ID] = &cp
	return a.Snapshot(), nil
}

// Accounts lists snapshots of the user's accounts in ID order.
func (m *Memory) Accounts(userID string) []core.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(userID)
	out := make([]core.Account, 0, len(u.accounts))
	for id := int64(1); id < u.nextAccountID; id++ {
		if a, ok := u.accounts[id]; ok {
			out = append(out, a.Snapshot())
		}
	}
	return out
}

// Account returns a snapshot of one account.
func (m *Memory) Account(userID string, accountID int64) (core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(userID)
	a, ok := u.accounts[accountID]
	if !ok {
		return core.Account{}, ErrAccountNotFound
	}
	return a.Snapshot(), nil
}

// AddTransaction appends a transaction to its account, updating the running
// balance, and returns the stored record.
func (m *Memory) AddTransaction(userID string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(userID)
	a, ok := u.accounts[t.AccountID]
	if !ok {
		return core.Transaction{}, ErrAccountNotFound
	}

	t.ID = u.nextTransactionID
	u.nextTransactionID++
	t.CreatedAt = m.now()
	if t.Date == "" {
		t.Date = t.CreatedAt.Format("2006-01-02T15:04:05")
	}
	a.AddTransaction(t)
	return t, nil
}

// Transactions returns a copy of an account's transaction list in arrival
// order.
func (m *Memory) Transactions(userID string, accountID int64) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.user(userID)
	a, ok := u.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	out := make([]core.Transaction, len(a.Transactions))
	copy(out, a.Transactions)
	return out, nil
}
