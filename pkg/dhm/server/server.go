// Package server exposes an indicator tree over a read-only JSON API for
// dashboard front ends.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ukaji3/dhm-go/pkg/dhm/models"
	"github.com/ukaji3/dhm-go/pkg/dhm/output"
	"github.com/ukaji3/dhm-go/pkg/dhm/report"
	"github.com/ukaji3/dhm-go/pkg/dhm/tree"
	"go.uber.org/zap"
)

// Server serves a tree that is never mutated after New.
type Server struct {
	roots     []*models.Indicator
	direction report.Direction
	logger    *zap.Logger
	router    *mux.Router
}

// MetricResponse is a metric card plus the path of its node.
type MetricResponse struct {
	Path string `json:"path"`
	report.Card
	Timeseries []float64 `json:"timeseries"`
}

// NodeResponse describes one indicator with its metric cards.
type NodeResponse struct {
	Path        string           `json:"path"`
	Name        string           `json:"indicator"`
	Description string           `json:"description,omitempty"`
	DataSource  string           `json:"data_source,omitempty"`
	Metrics     []MetricResponse `json:"metrics"`
	Children    []string         `json:"children"`
}

// New creates a Server over roots. A nil logger disables logging.
func New(roots []*models.Indicator, direction report.Direction, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		roots:     roots,
		direction: direction,
		logger:    logger,
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Routes live on the root router: a prefix subrouter answers a method
	// mismatch with 404 instead of 405.
	r := s.router
	r.HandleFunc("/api/tree", s.handleTree).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/outline", s.handleOutline).Methods(http.MethodGet)
	r.HandleFunc("/api/node", s.handleNode).Methods(http.MethodGet)
	r.HandleFunc("/api/metrics/pick", s.handlePick).Methods(http.MethodGet)
	r.HandleFunc("/api/metrics", s.handleMetrics).Methods(http.MethodGet)
	s.router.Use(s.logRequests)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("Request", zap.String("method", r.Method), zap.String("url", r.URL.String()))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	data, err := output.ToJSON(s.roots, false)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respond(w, tree.Summarize(s.roots))
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	entries := tree.Outline(s.roots)
	if entries == nil {
		entries = []tree.Entry{}
	}
	s.respond(w, entries)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	n := tree.FindNode(s.roots, path)
	if n == nil {
		http.Error(w, "tree is empty", http.StatusNotFound)
		return
	}

	resolved := path
	if _, ok := tree.Lookup(s.roots, path); !ok {
		resolved = tree.EscapeName(n.Name)
	}

	resp := NodeResponse{
		Path:        resolved,
		Name:        n.Name,
		Description: n.Description,
		DataSource:  n.DataSource,
		Metrics:     []MetricResponse{},
		Children:    []string{},
	}
	for _, m := range n.Metrics {
		resp.Metrics = append(resp.Metrics, s.metricResponse(tree.MetricRef{Path: resolved, Metric: m}))
	}
	for _, c := range n.Children {
		resp.Children = append(resp.Children, c.Name)
	}
	s.respond(w, resp)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	refs := tree.SearchMetrics(s.roots, r.URL.Query().Get("q"))
	resp := make([]MetricResponse, 0, len(refs))
	for _, ref := range refs {
		resp = append(resp, s.metricResponse(ref))
	}
	s.respond(w, resp)
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	ref, ok := tree.PickMetric(s.roots, r.URL.Query().Get("q"))
	if !ok {
		http.Error(w, "no metrics", http.StatusNotFound)
		return
	}
	s.respond(w, s.metricResponse(ref))
}

func (s *Server) metricResponse(ref tree.MetricRef) MetricResponse {
	ts := ref.Metric.Timeseries
	if ts == nil {
		ts = []float64{}
	}
	return MetricResponse{
		Path:       ref.Path,
		Card:       report.NewCard(ref.Metric, s.direction.HigherIsBetter(ref.Metric.Name)),
		Timeseries: ts,
	}
}

func (s *Server) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.logger.Error("Request failed", zap.Error(err))
	http.Error(w, err.Error(), status)
}
