// ABOUTME: JSON dashboard API server
// ABOUTME: Exposes company/sync state reads and a per-company sync trigger
package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/models"
	"github.com/outpostdigital/roma/publish"
)

type Server struct {
	db   *sql.DB
	orch *publish.Orchestrator
	log  *zap.Logger
}

func NewServer(database *sql.DB, orch *publish.Orchestrator, log *zap.Logger) *Server {
	return &Server{db: database, orch: orch, log: log}
}

// Handler builds the route table. Split out from Start so tests can drive
// the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/companies", s.handleListCompanies)
	mux.HandleFunc("GET /api/companies/{id}", s.handleGetCompany)
	mux.HandleFunc("GET /api/companies/{id}/intake", s.handleGetIntake)
	mux.HandleFunc("GET /api/companies/{id}/media", s.handleListMedia)
	mux.HandleFunc("GET /api/companies/{id}/reviews", s.handleListReviews)
	mux.HandleFunc("GET /api/companies/{id}/runs", s.handleListRuns)
	mux.HandleFunc("POST /api/companies/{id}/sync", s.handleSync)

	return mux
}

func (s *Server) Start(addr string) error {
	s.log.Info("starting dashboard server", zap.String("addr", addr))
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// companyView is the list/detail shape the dashboard consumes.
type companyView struct {
	models.Company
	LastRunStatus string `json:"last_run_status,omitempty"`
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := db.FindCompanies(s.db, r.URL.Query().Get("query"), 200)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	views := make([]companyView, 0, len(companies))
	for _, c := range companies {
		view := companyView{Company: c}
		run, err := db.LatestSyncRun(s.db, c.ID)
		if err != nil {
			s.log.Warn("failed to load latest sync run",
				zap.String("company", c.Slug), zap.Error(err))
		} else if run != nil {
			view.LastRunStatus = run.Status
		}
		views = append(views, view)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"companies": views})
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	company, ok := s.companyFromPath(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, company)
}

func (s *Server) handleGetIntake(w http.ResponseWriter, r *http.Request) {
	company, ok := s.companyFromPath(w, r)
	if !ok {
		return
	}

	intake, err := db.GetIntake(s.db, company.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if intake == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("company %s has no intake yet", company.Slug))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(intake.RawData)
}

func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	company, ok := s.companyFromPath(w, r)
	if !ok {
		return
	}

	items, err := db.ListMediaItems(s.db, company.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"media": items})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	company, ok := s.companyFromPath(w, r)
	if !ok {
		return
	}

	reviews, err := db.ListReviews(s.db, company.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	company, ok := s.companyFromPath(w, r)
	if !ok {
		return
	}

	runs, err := db.ListSyncRuns(s.db, company.ID, 20)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	company, ok := s.companyFromPath(w, r)
	if !ok {
		return
	}

	report, err := s.orch.SyncCompany(r.Context(), company.ID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, publish.ErrNothingToSync) {
			status = http.StatusConflict
		}
		s.writeError(w, status, err)
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

// companyFromPath resolves the {id} path segment, accepting either a uuid or
// a company slug. Writes the error response itself on failure.
func (s *Server) companyFromPath(w http.ResponseWriter, r *http.Request) (*models.Company, bool) {
	raw := r.PathValue("id")

	var company *models.Company
	var err error
	if id, parseErr := uuid.Parse(raw); parseErr == nil {
		company, err = db.GetCompany(s.db, id)
	} else {
		company, err = db.FindCompanyBySlug(s.db, raw)
	}

	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	if company == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("company %q not found", raw))
		return nil, false
	}
	return company, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.log.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
