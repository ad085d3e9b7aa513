// Package httpapi serves purchase order generation over HTTP.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kovanlabs/pogen"
	"github.com/kovanlabs/pogen/draft"
)

// maxBodyBytes bounds the size of a generation request.
const maxBodyBytes = 1 << 20

// Response is the JSON envelope of every non-PDF response.
type Response struct {
	Data    any      `json:"data"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

// Server holds the collaborators of the HTTP handlers.
type Server struct {
	composer *pogen.Composer
	defaults draft.Defaults
	seq      *draft.Sequence
	now      func() time.Time
	log      *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now for order dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the logger of the handlers.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer returns a Server that renders with c, seeds drafts from def and
// numbers orders without a PO number from seq. A nil seq starts at 1.
//
// seq holds its lock while an auto-numbered order is composed, so those
// requests are rendered one at a time. Requests that carry their own PO
// number render concurrently.
func NewServer(c *pogen.Composer, def draft.Defaults, seq *draft.Sequence, opts ...Option) *Server {
	s := &Server{
		composer: c,
		defaults: def,
		seq:      seq,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seq == nil {
		s.seq = draft.NewSequence(1, s.now)
	}
	return s
}

// Routes returns the router of the API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api/v1/purchase-orders", func(r chi.Router) {
		r.Get("/next-number", s.nextNumber)
		r.Post("/pdf", s.generatePDF)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// nextNumber reports the number the next auto-numbered order gets.
func (s *Server) nextNumber(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"po_number": s.seq.Peek()})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg, Details: details})
}
