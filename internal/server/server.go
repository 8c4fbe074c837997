// Package server exposes the conversation pipeline over HTTP: one chat
// endpoint, one standalone reflection endpoint, and a provider health
// probe.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeanpaul/xylon/internal/health"
	"github.com/jeanpaul/xylon/internal/pipeline"
	"github.com/jeanpaul/xylon/internal/store"
)

// Config holds the server's collaborators.
type Config struct {
	Addr      string
	Pipeline  *pipeline.Pipeline
	Reflector *pipeline.Reflector
	Thoughts  *store.ThoughtLog
	Checker   health.Checker
	Logger    *zap.Logger
}

// Server owns the thought log and the per-process turn counter; reflection
// fires automatically on every tenth recorded thought.
type Server struct {
	addr      string
	pipe      *pipeline.Pipeline
	reflector *pipeline.Reflector
	thoughts  *store.ThoughtLog
	checker   health.Checker
	log       *zap.Logger
}

func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Server{
		addr:      cfg.Addr,
		pipe:      cfg.Pipeline,
		reflector: cfg.Reflector,
		thoughts:  cfg.Thoughts,
		checker:   cfg.Checker,
		log:       cfg.Logger,
	}
}

// Handler builds the route table. Exposed separately so tests can drive
// the mux without a listening socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/reflection", s.handleReflection)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", s.addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type chatRequest struct {
	Message         string                `json:"message"`
	ThoughtsHistory []store.ThoughtRecord `json:"thoughtsHistory,omitempty"`
}

type chatResponse struct {
	Thoughts   string `json:"thoughts"`
	Reply      string `json:"reply"`
	Exit       bool   `json:"exit"`
	RawArchive bool   `json:"rawArchive"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	history := req.ThoughtsHistory
	if history == nil {
		history = s.thoughts.Recent(20)
	}

	turn, err := s.pipe.Process(r.Context(), req.Message, history)
	if err != nil {
		s.log.Error("chat turn failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, pipeline.ErrOracle.Error())
		return
	}

	if turn.Thoughts != "" {
		s.recordTurn(r.Context(), turn)
	}

	writeJSON(w, chatResponse{
		Thoughts:   turn.Thoughts,
		Reply:      turn.Reply,
		Exit:       turn.Exit,
		RawArchive: turn.RawArchive,
	})
}

// recordTurn appends the turn's trace and, on every tenth record, runs a
// reflection pass. Neither failure is surfaced to the operator.
func (s *Server) recordTurn(ctx context.Context, turn *pipeline.Turn) {
	rec := store.ThoughtRecord{
		Content:   turn.Thoughts,
		UserInput: turn.UserInput,
	}
	if len(turn.Learned) > 0 {
		rec.Type = "learning"
	}
	total, err := s.thoughts.Append(rec)
	if err != nil {
		s.log.Warn("thought persist failed", zap.Error(err))
		return
	}

	if !pipeline.Due(total) || s.reflector == nil {
		return
	}
	recent := s.thoughts.Recent(pipeline.ReflectionInterval)
	text, err := s.reflector.Reflect(ctx, recent, total)
	if err != nil {
		s.log.Warn("reflection failed", zap.Int("total", total), zap.Error(err))
		return
	}
	if _, err := s.thoughts.Append(store.ThoughtRecord{
		Content:      text,
		IsReflection: true,
		Type:         "reflection",
	}); err != nil {
		s.log.Warn("reflection persist failed", zap.Error(err))
	}
	s.log.Info("reflection recorded", zap.Int("total", total))
}

type reflectionRequest struct {
	ThoughtsHistory    []store.ThoughtRecord `json:"thoughtsHistory"`
	TotalThoughtsCount int                   `json:"totalThoughtsCount"`
}

type reflectionResponse struct {
	Reflection string `json:"reflection"`
}

func (s *Server) handleReflection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req reflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ThoughtsHistory) == 0 {
		writeError(w, http.StatusBadRequest, "thoughtsHistory is required")
		return
	}

	records := req.ThoughtsHistory
	if len(records) > pipeline.ReflectionInterval {
		records = records[len(records)-pipeline.ReflectionInterval:]
	}
	total := req.TotalThoughtsCount
	if total <= 0 {
		total = len(req.ThoughtsHistory)
	}

	text, err := s.reflector.Reflect(r.Context(), records, total)
	if err != nil {
		s.log.Error("reflection request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, pipeline.ErrOracle.Error())
		return
	}
	writeJSON(w, reflectionResponse{Reflection: text})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.checker.Probe(r.Context())
	if !status.Reachable {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(status)
		return
	}
	writeJSON(w, status)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
