package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chainscribe/concord/internal/config"
	"github.com/chainscribe/concord/internal/core"
	"github.com/chainscribe/concord/internal/core/match"
	"github.com/chainscribe/concord/internal/core/model"
	"github.com/chainscribe/concord/internal/core/quality"
	"github.com/chainscribe/concord/internal/metrics"
	"github.com/chainscribe/concord/internal/report"
	"github.com/chainscribe/concord/internal/semantic"
	"github.com/chainscribe/concord/internal/store"
)

// Server exposes the comparison engine over HTTP. The store, generator
// and embedder are all optional: without a store the graph endpoints
// return 503, without an embedder matching is lexical-only, without a
// generator reports carry no narrative.
type Server struct {
	cfg      config.Config
	log      *zap.Logger
	store    store.GraphStore
	gen      semantic.Generator
	embedder semantic.Embedder
	writer   *report.Writer
}

func New(cfg config.Config, st store.GraphStore, gen semantic.Generator, embedder semantic.Embedder, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		log:      log,
		store:    st,
		gen:      gen,
		embedder: embedder,
		writer:   report.NewWriter(gen, log),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/health", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/graphs", s.SaveGraph)
	r.GET("/graphs/:id", s.GetGraph)
	r.POST("/compare", s.Compare)
	r.POST("/relationships/filter", s.FilterRelationships)
	r.POST("/accuracy", s.AssessAccuracy)

	return r
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) SaveGraph(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "graph storage not configured"})
		return
	}
	var doc model.GraphDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid graph document"})
		return
	}
	g, err := doc.Build()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("structural").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := s.store.SaveGraph(c.Request.Context(), doc)
	if err != nil {
		s.log.Error("save graph failed", zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("store").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save graph"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "stats": g.Stats()})
}

func (s *Server) GetGraph(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "graph storage not configured"})
		return
	}
	doc, err := s.store.LoadGraph(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// CompareRequest carries either inline graph documents or IDs of stored
// graphs; inline documents win when both are present.
type CompareRequest struct {
	GraphA   *model.GraphDocument `json:"graph_a,omitempty"`
	GraphB   *model.GraphDocument `json:"graph_b,omitempty"`
	GraphAID string               `json:"graph_a_id,omitempty"`
	GraphBID string               `json:"graph_b_id,omitempty"`
	Persist  bool                 `json:"persist,omitempty"`
}

func (s *Server) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ctx := c.Request.Context()

	a, err := s.resolveGraph(c, req.GraphA, req.GraphAID)
	if err != nil {
		return
	}
	b, err := s.resolveGraph(c, req.GraphB, req.GraphBID)
	if err != nil {
		return
	}

	var lexicon match.Lexicon
	if s.embedder != nil {
		lex, err := semantic.BuildLexicon(ctx, s.embedder, semantic.GraphLabels(a, b))
		if err != nil {
			s.log.Error("lexicon build failed", zap.Error(err))
			metrics.ErrorsTotal.WithLabelValues("semantic").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare semantic lexicon"})
			return
		}
		lexicon = lex
	}

	cmp, err := core.NewComparator(s.cfg.Engine, lexicon, s.log)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	result, err := cmp.Compare(ctx, a, b)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("compare").Inc()
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	metrics.ComparisonsTotal.Inc()
	metrics.ComparisonDuration.Observe(time.Since(start).Seconds())
	if result.ImbalanceWarning != nil {
		metrics.ImbalanceWarningsTotal.Inc()
	}

	rep := s.writer.Build(ctx, result)

	resp := gin.H{"report": rep}
	if req.Persist {
		if s.store == nil || req.GraphAID == "" || req.GraphBID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "persist requires storage and stored graph IDs"})
			return
		}
		compID, err := s.store.SaveComparison(ctx, req.GraphAID, req.GraphBID, result)
		if err != nil {
			s.log.Error("save comparison failed", zap.Error(err))
			metrics.ErrorsTotal.WithLabelValues("store").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save comparison"})
			return
		}
		resp["comparison_id"] = compID
	}
	c.JSON(http.StatusOK, resp)
}

// resolveGraph builds an inline document or loads a stored one. On failure
// it writes the error response and returns a non-nil error so the handler
// can bail.
func (s *Server) resolveGraph(c *gin.Context, doc *model.GraphDocument, id string) (*model.Graph, error) {
	if doc == nil && id == "" {
		err := errors.New("graph missing: provide a document or a stored ID")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, err
	}
	if doc == nil {
		if s.store == nil {
			err := errors.New("graph storage not configured")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return nil, err
		}
		loaded, err := s.store.LoadGraph(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return nil, err
		}
		doc = &loaded
	}
	g, err := doc.Build()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("structural").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, err
	}
	return g, nil
}

// FilterRequest accepts raw extractor candidates, or a graph document
// whose edges are lifted into candidates.
type FilterRequest struct {
	Candidates []quality.Candidate  `json:"candidates,omitempty"`
	Graph      *model.GraphDocument `json:"graph,omitempty"`
}

func (s *Server) FilterRelationships(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	candidates := req.Candidates
	if len(candidates) == 0 && req.Graph != nil {
		g, err := req.Graph.Build()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		candidates = quality.CandidatesFromGraph(g)
	}
	filter := quality.NewFilter(s.cfg.Engine.TopKRelationships)
	selected := filter.Select(candidates)
	c.JSON(http.StatusOK, gin.H{
		"relationships": selected,
		"total":         len(candidates),
		"selected":      len(selected),
	})
}

// AccuracyRequest scores generated contract code against its source
// graph. A prior comparison result for the same pair arms the consistency
// guard.
type AccuracyRequest struct {
	Graph      model.GraphDocument     `json:"graph"`
	Code       string                  `json:"code"`
	Comparison *model.ComparisonResult `json:"comparison,omitempty"`
}

func (s *Server) AssessAccuracy(c *gin.Context) {
	var req AccuracyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	g, err := req.Graph.Build()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmp, err := core.NewComparator(s.cfg.Engine, nil, s.log)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rep, err := cmp.AssessGeneration(c.Request.Context(), g, req.Code, req.Comparison)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if rep.Inconsistency != nil {
		metrics.InconsistentScoresTotal.Inc()
	}
	c.JSON(http.StatusOK, rep)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnsealedGraph), errors.Is(err, model.ErrStructuralViolation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
