package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbtrace/mbcheckgo/internal/buildinfo"
	"github.com/mbtrace/mbcheckgo/internal/config"
	"github.com/mbtrace/mbcheckgo/internal/middleware"
	"github.com/mbtrace/mbcheckgo/internal/pocket"
	"github.com/mbtrace/mbcheckgo/internal/store"
	"github.com/mbtrace/mbcheckgo/internal/websocket"
	"github.com/mbtrace/mbcheckgo/web"
)

// Router wraps the mux router with the station's collaborators
type Router struct {
	*mux.Router
	cfg      *config.Config
	store    *store.Store
	sessions *pocket.Manager
	hub      *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, st *store.Store, sessions *pocket.Manager, hub *websocket.Hub) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		hub:      hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")
	api.HandleFunc("/users", r.getUsers).Methods("GET")
	api.HandleFunc("/login", r.login).Methods("POST")
	api.HandleFunc("/logout", r.logout).Methods("POST")
	api.HandleFunc("/classify", r.classify).Methods("POST")
	api.HandleFunc("/program/{id}", r.getProgram).Methods("GET")
	api.HandleFunc("/update-barcode", r.updateBarcode).Methods("POST")

	// Reports and labels need a session token
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))
	protected.HandleFunc("/reports/daily/{date}", r.dailyReport).Methods("GET")
	protected.HandleFunc("/labels", r.generateLabels).Methods("POST")

	// Station event push
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(hub, w, req)
	})

	// Legacy station UIs fetch record files as static text
	r.PathPrefix("/mbcheck/").Handler(
		http.StripPrefix("/mbcheck/", http.FileServer(http.Dir(cfg.RecordsDir))))

	// Static station UI (embedded; FRONTEND_DIR overrides for development)
	staticFS, err := web.GetFileSystem()
	if err != nil {
		log.Printf("⚠️ Static assets unavailable: %v", err)
	} else {
		r.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
	}

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "mbcheck-station",
	})
}

// getStatus returns build and uptime info
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "running",
		"version":   buildinfo.Version,
		"commit":    buildinfo.CommitHash,
		"buildTime": buildinfo.BuildTime,
		"startTime": buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// errStatus maps domain errors to HTTP statuses.
func errStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrIndexOutOfRange),
		errors.Is(err, store.ErrMalformedRecord),
		errors.Is(err, pocket.ErrEmptyInput),
		errors.Is(err, pocket.ErrTooShort),
		errors.Is(err, pocket.ErrNoProgram),
		errors.Is(err, pocket.ErrNoProgramLoaded),
		errors.Is(err, pocket.ErrUnknownPocket):
		return http.StatusBadRequest
	case errors.Is(err, pocket.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, pocket.ErrBusy):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
