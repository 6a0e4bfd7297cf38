package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jeanpaul/jarvis/internal/brain"
	"github.com/jeanpaul/jarvis/internal/knowledge"
	"github.com/jeanpaul/jarvis/internal/memory"
	"github.com/jeanpaul/jarvis/internal/report"
)

// Asker is the slice of the brain the HTTP surface needs.
type Asker interface {
	Ask(ctx context.Context, prompt string) (brain.Response, error)
}

// Server is the keep-alive HTTP surface: liveness, health, a question
// endpoint, the knowledge report, and metrics.
type Server struct {
	asker Asker
	store *knowledge.Store
	mem   *memory.Manager
	log   *zap.Logger

	registry *prometheus.Registry
	queries  *prometheus.CounterVec
	learned  prometheus.Counter
}

func New(asker Asker, store *knowledge.Store, mem *memory.Manager, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		asker:    asker,
		store:    store,
		mem:      mem,
		log:      log,
		registry: prometheus.NewRegistry(),
	}

	s.queries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jarvis_queries_total",
		Help: "Questions answered, by retrieval source.",
	}, []string{"source"})
	s.learned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jarvis_answers_learned_total",
		Help: "Answers that taught the knowledge store something.",
	})
	factsGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "jarvis_knowledge_facts",
		Help: "Facts currently in the knowledge store.",
	}, func() float64 { return float64(len(s.store.Facts())) })
	qaGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "jarvis_knowledge_qa_pairs",
		Help: "QA pairs currently in the knowledge store.",
	}, func() float64 { return float64(len(s.store.QA())) })

	s.registry.MustRegister(s.queries, s.learned, factsGauge, qaGauge)
	return s
}

// Router builds the chi mux with all routes wired.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealth)
	r.Post("/ask", s.handleAsk)
	r.Get("/report", s.handleReport)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// ListenAndServe blocks serving the router on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("keep-alive server listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("I'm alive"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"facts":  len(s.store.Facts()),
		"qa":     len(s.store.QA()),
	})
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer  string `json:"answer"`
	Source  string `json:"source"`
	Learned bool   `json:"learned"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	resp, err := s.asker.Ask(r.Context(), req.Question)
	if err != nil {
		s.log.Error("ask failed", zap.String("question", req.Question), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	s.queries.WithLabelValues(resp.Source.String()).Inc()
	if resp.Learned {
		s.learned.Inc()
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:  resp.Answer,
		Source:  resp.Source.String(),
		Learned: resp.Learned,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(report.Generate(s.store, s.mem)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
