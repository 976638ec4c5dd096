package http

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/grokalmighty/PennyPincher/internal/core"
	"github.com/grokalmighty/PennyPincher/internal/insights"
)

func (s *Server) handleAccountInsights(w http.ResponseWriter, r *http.Request) {
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

	result := s.analyzer.Analyze(r.Context(), account, s.now())
	slog.InfoContext(r.Context(), "Insights generated",
		"user_id", user,
		"account_id", id,
		"empty", result.Empty())
	writeJSON(w, http.StatusOK, map[string]any{"insights": result})
}

// dashboardFolder is a folder with its accounts nested in.
type dashboardFolder struct {
	core.Folder
	Accounts []accountView `json:"accounts"`
}

// accountInsight pairs time-pattern insights with the account they belong
// to, for the dashboard's combined insight strip.
type accountInsight struct {
	AccountName string                 `json:"account_name"`
	AccountIcon string                 `json:"account_icon"`
	Insights    *insights.TimePatterns `json:"insights"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	now := s.now()

	folders := s.store.Folders(user)
	accounts := s.store.Accounts(user)

	accountViews := make([]accountView, 0, len(accounts))
	byFolder := make(map[int64][]accountView)
	for _, a := range accounts {
		v := newAccountView(a, now)
		accountViews = append(accountViews, v)
		byFolder[a.FolderID] = append(byFolder[a.FolderID], v)
	}

	folderViews := make([]dashboardFolder, 0, len(folders))
	for _, f := range folders {
		fa := byFolder[f.ID]
		if fa == nil {
			fa = []accountView{}
		}
		folderViews = append(folderViews, dashboardFolder{Folder: f, Accounts: fa})
	}

	totalInsights := s.collectDashboardInsights(r, accounts, now)

	writeJSON(w, http.StatusOK, map[string]any{
		"folders":        folderViews,
		"accounts":       accountViews,
		"total_insights": totalInsights,
	})
}

// collectDashboardInsights runs time-pattern analysis over the first few
// accounts that have any transactions. Bounded concurrency keeps the
// dashboard cheap even for users with many accounts.
func (s *Server) collectDashboardInsights(r *http.Request, accounts []core.Account, now time.Time) []accountInsight {
	candidates := make([]core.Account, 0, s.dashboardAccounts)
	for _, a := range accounts {
		if len(a.Transactions) == 0 {
			continue
		}
		candidates = append(candidates, a)
		if len(candidates) == s.dashboardAccounts {
			break
		}
	}

	results := make([]*insights.TimePatterns, len(candidates))
	g, _ := errgroup.WithContext(r.Context())
	g.SetLimit(4)
	for i, a := range candidates {
		g.Go(func() error {
			results[i] = insights.AnalyzeTimePatterns(a.Transactions)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]accountInsight, 0, len(candidates))
	for i, a := range candidates {
		if results[i] == nil {
			continue
		}
		out = append(out, accountInsight{
			AccountName: a.Name,
			AccountIcon: "📊",
			Insights:    results[i],
		})
	}
	return out
}
