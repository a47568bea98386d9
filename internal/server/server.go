package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agenthands/rollcall/internal/core"
	"github.com/agenthands/rollcall/internal/core/tracker"
)

type Server struct {
	Pipeline *core.Pipeline
	Log      zerolog.Logger
}

func NewServer(pipeline *core.Pipeline, log zerolog.Logger) *Server {
	return &Server{
		Pipeline: pipeline,
		Log:      log,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/ingest", s.Ingest)
	r.POST("/parse", s.Parse)

	r.GET("/representatives", s.Representatives)
	r.GET("/representatives/:name", s.Representative)
	r.GET("/representatives/:name/similar", s.SimilarRepresentatives)
	r.POST("/consolidate", s.Consolidate)

	r.GET("/summary", s.Summary)
	r.GET("/districts", s.Districts)
	r.POST("/compare", s.Compare)

	r.GET("/export/csv", s.ExportCSV)
	r.GET("/export/json", s.ExportJSON)

	return r
}

type IngestRequest struct {
	Query string `json:"query"`
	Force bool   `json:"force"`
}

// Ingest runs the full pipeline for a natural-language time query:
// acquisition, extraction, and aggregation into the tracker.
func (s *Server) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := s.Pipeline.Run(c.Request.Context(), req.Query, req.Force)
	if err != nil {
		s.Log.Error().Err(err).Msg("pipeline run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process documents"})
		return
	}

	c.JSON(http.StatusOK, report)
}

type ParseRequest struct {
	Text string `json:"text"`
}

// Parse extracts voting records from raw minutes text without touching the
// tracker. Useful for trying a document before committing it.
func (s *Server) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	c.JSON(http.StatusOK, s.Pipeline.Parser.Parse(c.Request.Context(), req.Text))
}

func (s *Server) Representatives(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"representatives": s.Pipeline.Tracker.Representatives()})
}

func (s *Server) Representative(c *gin.Context) {
	name := c.Param("name")
	threshold := intQuery(c, "threshold", tracker.DefaultFuzzyThreshold)

	profile := s.Pipeline.Tracker.GetRepresentative(name, threshold)
	if profile == nil {
		candidates := s.Pipeline.Tracker.SimilarRepresentatives(name, 5)
		c.JSON(http.StatusNotFound, gin.H{
			"error":       "Representative not found",
			"suggestions": suggestionNames(candidates),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (s *Server) SimilarRepresentatives(c *gin.Context) {
	limit := intQuery(c, "limit", 5)
	candidates := s.Pipeline.Tracker.SimilarRepresentatives(c.Param("name"), limit)

	out := make([]gin.H, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, gin.H{"name": cand.Profile.Name, "score": cand.Score})
	}
	c.JSON(http.StatusOK, gin.H{"candidates": out})
}

type ConsolidateRequest struct {
	Threshold int `json:"threshold"`
}

func (s *Server) Consolidate(c *gin.Context) {
	var req ConsolidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	merges := s.Pipeline.Tracker.ConsolidateDuplicates(req.Threshold)
	c.JSON(http.StatusOK, gin.H{"merges": merges})
}

func (s *Server) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, s.Pipeline.Tracker.Summarize())
}

func (s *Server) Districts(c *gin.Context) {
	c.JSON(http.StatusOK, s.Pipeline.Tracker.ByDistrict())
}

type CompareRequest struct {
	Names []string `json:"names"`
}

func (s *Server) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Names) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least two names are required"})
		return
	}

	c.JSON(http.StatusOK, s.Pipeline.Tracker.Compare(req.Names...))
}

func (s *Server) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="voting_records.csv"`)
	if err := s.Pipeline.Tracker.ExportCSV(c.Writer); err != nil {
		s.Log.Error().Err(err).Msg("csv export failed")
	}
}

func (s *Server) ExportJSON(c *gin.Context) {
	c.Header("Content-Type", "application/json")
	if err := s.Pipeline.Tracker.ExportJSON(c.Writer); err != nil {
		s.Log.Error().Err(err).Msg("json export failed")
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func suggestionNames(candidates []tracker.Candidate) []string {
	names := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		names = append(names, cand.Profile.Name)
	}
	return names
}
