package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/travellabs/tripbot/internal/dialogue"
	"github.com/travellabs/tripbot/internal/domain"
)

// SessionFactory creates a fresh dialogue in the given language.
type SessionFactory func(lang domain.Language) *dialogue.Session

// TripSaver stores confirmed trips. service.TripService satisfies it.
type TripSaver interface {
	SaveConfirmed(ctx context.Context, t *domain.Trip) error
}

// Config tunes the HTTP server.
type Config struct {
	// TurnTimeout bounds one user turn, including every completion call.
	TurnTimeout time.Duration
	// SessionTTL is how long an unused session is kept.
	SessionTTL time.Duration
	// SweepInterval is how often idle sessions are dropped.
	SweepInterval time.Duration
}

// Server exposes dialogue sessions over a JSON API.
type Server struct {
	newSession SessionFactory
	trips      TripSaver
	registry   *Registry
	cfg        Config
	logger     *zap.Logger
}

// New creates a server. trips may be nil, in which case confirmed
// sessions are not persisted.
func New(factory SessionFactory, trips TripSaver, cfg Config, logger *zap.Logger) (*Server, error) {
	if factory == nil {
		return nil, errors.New("session factory required")
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = 2 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		newSession: factory,
		trips:      trips,
		registry:   NewRegistry(),
		cfg:        cfg,
		logger:     logger.Named("server"),
	}, nil
}

// Registry returns the live session registry.
func (s *Server) Registry() *Registry { return s.registry }

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.handleCreate)
	mux.HandleFunc("GET /sessions/{id}", s.handleGet)
	mux.HandleFunc("POST /sessions/{id}/messages", s.handleMessage)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDelete)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s.logMiddleware(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully. Idle sessions are swept while it runs.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	swept := make(chan struct{})
	defer func() { <-swept }()
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		defer close(swept)
		s.sweepIdle(sweepCtx)
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) sweepIdle(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.registry.Sweep(s.cfg.SessionTTL); n > 0 {
				s.logger.Debug("idle sessions dropped", zap.Int("dropped", n), zap.Int("live", s.registry.Len()))
			}
		}
	}
}

type createReq struct {
	Language string `json:"language"`
}

type createResp struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Message  string `json:"message"`
}

type messageReq struct {
	Message string `json:"message"`
}

type messageResp struct {
	Message  string           `json:"message"`
	State    string           `json:"state"`
	Summary  dialogue.Summary `json:"summary"`
	TripID   string           `json:"trip_id,omitempty"`
	Degraded bool             `json:"degraded,omitempty"`
}

type sessionResp struct {
	ID       string           `json:"id"`
	Language string           `json:"language"`
	State    string           `json:"state"`
	Summary  dialogue.Summary `json:"summary"`
	Turns    []turnResp       `json:"turns"`
}

type turnResp struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	langValue := req.Language
	if langValue == "" {
		langValue = r.Header.Get("Accept-Language")
	}
	lang := domain.ParseLanguage(langValue)

	sess := s.newSession(lang)
	msg := sess.Start()
	s.registry.Put(sess)
	s.logger.Debug("session created", zap.String("session", sess.ID()), zap.String("language", string(lang)))

	writeJSON(w, http.StatusCreated, createResp{ID: sess.ID(), Language: string(lang), Message: msg})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	turns := sess.Turns()
	out := make([]turnResp, 0, len(turns))
	for _, t := range turns {
		out = append(out, turnResp{Role: string(t.Role), Content: t.Content})
	}
	writeJSON(w, http.StatusOK, sessionResp{
		ID:       sess.ID(),
		Language: string(sess.Language()),
		State:    string(sess.State()),
		Summary:  sess.Summary(),
		Turns:    out,
	})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	var req messageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.TurnTimeout)
	defer cancel()
	reply, err := sess.Handle(ctx, req.Message)
	switch {
	case errors.Is(err, dialogue.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case dialogue.IsClosed(err):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reply.Degraded() {
		s.logger.Warn("degraded turn", zap.String("session", sess.ID()), zap.Error(reply.Cause))
	}

	resp := messageResp{
		Message:  reply.Text,
		State:    string(reply.State),
		Summary:  sess.Summary(),
		Degraded: reply.Degraded(),
	}
	if reply.State == domain.StateConfirmed {
		resp.TripID = s.saveTrip(ctx, sess)
	}
	writeJSON(w, http.StatusOK, resp)
}

// saveTrip persists a confirmed session. A failed save is logged; the
// user still sees the acknowledgement.
func (s *Server) saveTrip(ctx context.Context, sess *dialogue.Session) string {
	if s.trips == nil {
		return ""
	}
	trip, err := sess.Trip()
	if err != nil {
		s.logger.Error("confirmed session has no trip", zap.String("session", sess.ID()), zap.Error(err))
		return ""
	}
	if err := s.trips.SaveConfirmed(ctx, trip); err != nil {
		s.logger.Error("saving trip", zap.String("session", sess.ID()), zap.Error(err))
		return ""
	}
	return trip.ID
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.registry.Remove(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
