package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/grokalmighty/PennyPincher/internal/core"
	"github.com/grokalmighty/PennyPincher/internal/store"
)

// accountView is an account plus the derived fields the frontend shows.
type accountView struct {
	core.Account
	BudgetUtilization float64 `json:"budget_utilization"`
	HealthStatus      string  `json:"health_status"`
	TransactionCount  int     `json:"transaction_count"`
}

// folderView is a folder plus its account count.
type folderView struct {
	core.Folder
	AccountCount int `json:"account_count"`
}

func newAccountView(a core.Account, now time.Time) accountView {
	return accountView{
		Account:           a,
		BudgetUtilization: a.BudgetUtilization(now),
		HealthStatus:      a.HealthStatus(now),
		TransactionCount:  len(a.Transactions),
	}
}

// accountID parses the {id} path segment.
func accountID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	folders := s.store.Folders(user)
	accounts := s.store.Accounts(user)

	counts := make(map[int64]int)
	for _, a := range accounts {
		counts[a.FolderID]++
	}

	views := make([]folderView, 0, len(folders))
	for _, f := range folders {
		views = append(views, folderView{Folder: f, AccountCount: counts[f.ID]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": views})
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Icon == "" {
		req.Icon = "📁"
	}

	folder, err := s.store.CreateFolder(user, core.Folder{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.InfoContext(r.Context(), "Folder created",
		"user_id", user,
		"folder_id", folder.ID,
		"name", folder.Name)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"folder": folderView{Folder: folder},
	})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	now := s.now()

	accounts := s.store.Accounts(user)
	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, newAccountView(a, now))
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": views})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")

	var req struct {
		Name           string  `json:"name"`
		Type           string  `json:"type"`
		FolderID       int64   `json:"folder_id"`
		MonthlyBudget  float64 `json:"monthly_budget"`
		TargetAmount   float64 `json:"target_amount"`
		Deadline       string  `json:"deadline"`
		CurrentBalance float64 `json:"current_balance"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := s.store.CreateAccount(user, core.Account{
		Name:           req.Name,
		Type:           core.AccountType(req.Type),
		FolderID:       req.FolderID,
		MonthlyBudget:  req.MonthlyBudget,
		TargetAmount:   req.TargetAmount,
		Deadline:       req.Deadline,
		CurrentBalance: req.CurrentBalance,
	})
	if err != nil {
		if errors.Is(err, store.ErrFolderNotFound) {
			writeError(w, http.StatusNotFound, "Folder not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.InfoContext(r.Context(), "Account created",
		"user_id", user,
		"account_id", account.ID,
		"type", string(account.Type))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"account": newAccountView(account, s.now()),
	})
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	id, err := accountID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	account, err := s.store.Account(user, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account": newAccountView(account, s.now())})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")

	var req struct {
		AccountID   int64   `json:"account_id"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Date        string  `json:"date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := s.store.AddTransaction(user, core.Transaction{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "Account not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.InfoContext(r.Context(), "Transaction created",
		"user_id", user,
		"account_id", tx.AccountID,
		"transaction_id", tx.ID,
		"amount", tx.Amount)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"transaction": tx,
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	id, err := accountID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	transactions, err := s.store.Transactions(user, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}
