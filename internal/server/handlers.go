// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pii-sentry/internal/engine"
	"pii-sentry/internal/recognizer"
)

type analyzeRequest struct {
	Text                  string   `json:"text"`
	Language              string   `json:"language"`
	Entities              []string `json:"entities"`
	AllEntities           bool     `json:"all_entities"`
	ScoreThreshold        *float64 `json:"score_threshold"`
	CorrelationID         string   `json:"correlation_id"`
	ReturnDecisionProcess bool     `json:"return_decision_process"`
}

type finding struct {
	EntityType  string                  `json:"entity_type"`
	Score       float64                 `json:"score"`
	Start       int                     `json:"start"`
	End         int                     `json:"end"`
	Length      int                     `json:"length"`
	Explanation *recognizer.Explanation `json:"analysis_explanation,omitempty"`
}

type analyzeResponse struct {
	CorrelationID string    `json:"correlation_id"`
	Findings      []finding `json:"findings"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed request body: " + err.Error()})
		return
	}

	threshold := s.defaultThreshold
	if req.ScoreThreshold != nil {
		threshold = *req.ScoreThreshold
	}

	resp, err := s.analyzer.Analyze(c.Request.Context(), engine.Request{
		Text:                  req.Text,
		Language:              req.Language,
		Entities:              req.Entities,
		AllEntities:           req.AllEntities,
		ScoreThreshold:        threshold,
		CorrelationID:         req.CorrelationID,
		ReturnDecisionProcess: req.ReturnDecisionProcess,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	findings := make([]finding, 0, len(resp.Findings))
	for _, res := range resp.Findings {
		findings = append(findings, finding{
			EntityType:  res.EntityType,
			Score:       res.Score,
			Start:       res.Start,
			End:         res.End,
			Length:      res.Length(),
			Explanation: res.Explanation,
		})
	}
	c.JSON(http.StatusOK, analyzeResponse{
		CorrelationID: resp.CorrelationID,
		Findings:      findings,
	})
}

func (s *Server) handleRecognizers(c *gin.Context) {
	language := c.Query("language")
	infos := s.registry.Infos(c.Request.Context(), language)
	c.JSON(http.StatusOK, gin.H{"recognizers": infos})
}

// writeError maps pipeline failures to status codes. Validation problems are
// the caller's to fix; an empty recognizer selection means the request asked
// for a language or entity combination this deployment does not serve.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, recognizer.ErrInvalidRequest):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, recognizer.ErrNoRecognizersAvailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
