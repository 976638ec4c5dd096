// Package http exposes the record store and the insight engine as a JSON
// API. The engine itself performs no I/O; handlers hand it an account
// snapshot and serialize whatever insights come back.
package http

import (
	"net/http"
	"time"

	"github.com/grokalmighty/PennyPincher/internal/insights"
	"github.com/grokalmighty/PennyPincher/internal/middleware/security"
	"github.com/grokalmighty/PennyPincher/internal/middleware/trace"
	"github.com/grokalmighty/PennyPincher/internal/store"
)

type Server struct {
	http.Server

	store    *store.Memory
	analyzer *insights.Analyzer

	// dashboardAccounts caps how many accounts get insight generation on
	// the dashboard endpoint.
	dashboardAccounts int

	now func() time.Time
}

func NewServer(addr string, st *store.Memory, analyzer *insights.Analyzer, dashboardAccounts int) *Server {
	s := &Server{
		store:             st,
		analyzer:          analyzer,
		dashboardAccounts: dashboardAccounts,
		now:               time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/{user}/folders", s.handleListFolders)
	mux.HandleFunc("POST /api/{user}/folders", s.handleCreateFolder)

	mux.HandleFunc("GET /api/{user}/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/{user}/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/{user}/accounts/{id}", s.handleGetAccount)

	mux.HandleFunc("POST /api/{user}/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/{user}/accounts/{id}/transactions", s.handleListTransactions)

	mux.HandleFunc("GET /api/{user}/accounts/{id}/insights", s.handleAccountInsights)
	mux.HandleFunc("GET /api/{user}/dashboard", s.handleDashboard)

	traceMiddleware := trace.NewMiddleware()
	headersMiddleware := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:    addr,
		Handler: traceMiddleware.Middleware(headersMiddleware.Middleware(mux)),
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "PennyPincher API is running",
	})
}
