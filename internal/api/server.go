package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/service"
)

// Server provides a read-only HTTP API over the store plus the health and
// metrics endpoints. All mutations go through the directive pipeline; the
// API never writes.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	mux    *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/inventory", s.handleGetInventory)
	s.mux.HandleFunc("GET /api/family", s.handleGetFamily)
	s.mux.HandleFunc("GET /api/reminders", s.handleGetReminders)
	s.mux.HandleFunc("GET /api/cabinets", s.handleGetCabinets)

	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// requestUser resolves the user_id query parameter against the store, so
// every endpoint answers 404 for users the bot has never seen.
func (s *Server) requestUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "valid user_id query parameter is required")
		return nil, false
	}

	user, err := s.svc.Users.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to look up user")
		return nil, false
	}
	if user == nil {
		s.respondError(w, http.StatusNotFound, "unknown user")
		return nil, false
	}

	return user, true
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	cabinetID, cabinetName, err := s.svc.ActiveCabinet(ctx, user.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to resolve cabinet")
		return
	}
	owners, err := s.svc.VisibleOwnerIDs(ctx, user.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to resolve shared access")
		return
	}
	items, err := s.svc.Inventory.GetDistinct(ctx, owners, cabinetID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if items == nil {
		items = []*models.InventoryItem{}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"owner":   user.DisplayName(),
		"cabinet": cabinetName,
		"items":   items,
	})
}

func (s *Server) handleGetFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}

	members, err := s.svc.ValidFamily(r.Context(), user.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list family")
		return
	}
	if members == nil {
		members = []*models.FamilyMember{}
	}

	s.respondJSON(w, http.StatusOK, members)
}

func (s *Server) handleGetReminders(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}

	reminders, err := s.svc.ValidReminders(r.Context(), user.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list reminders")
		return
	}
	if reminders == nil {
		reminders = []*models.Reminder{}
	}

	s.respondJSON(w, http.StatusOK, reminders)
}

func (s *Server) handleGetCabinets(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	cabinets, err := s.svc.Cabinets.GetByOwner(ctx, user.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list cabinets")
		return
	}
	activeID, _, err := s.svc.ActiveCabinet(ctx, user.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to resolve active cabinet")
		return
	}
	if cabinets == nil {
		cabinets = []*models.Cabinet{}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"active_cabinet_id": activeID,
		"cabinets":          cabinets,
	})
}
