// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"

	"github.com/google/uuid"

	"pii-sentry/internal/recognizer"
)

// DefaultLanguage is assumed when a request does not name one.
const DefaultLanguage = "en"

// Request carries one analysis job through the pipeline.
type Request struct {
	// Text is the document to scan. Must be non-empty.
	Text string

	// Language of the text. Defaults to DefaultLanguage.
	Language string

	// Entities restricts detection to the listed entity types. Mutually
	// exclusive with AllEntities.
	Entities []string

	// AllEntities requests every entity type any selected recognizer
	// supports.
	AllEntities bool

	// ScoreThreshold drops findings scoring below it. Findings scoring
	// exactly the threshold are kept.
	ScoreThreshold float64

	// CorrelationID ties findings back to the caller's request. Generated
	// when empty.
	CorrelationID string

	// ReturnDecisionProcess attaches scoring explanations to findings.
	ReturnDecisionProcess bool
}

// normalize validates the request and fills defaults in place.
func (r *Request) normalize() error {
	if r.Text == "" {
		return fmt.Errorf("%w: text must be non-empty", recognizer.ErrInvalidRequest)
	}
	if r.AllEntities && len(r.Entities) > 0 {
		return fmt.Errorf("%w: entities and all_entities are mutually exclusive", recognizer.ErrInvalidRequest)
	}
	if !r.AllEntities && len(r.Entities) == 0 {
		return fmt.Errorf("%w: either entities or all_entities must be given", recognizer.ErrInvalidRequest)
	}
	for _, entity := range r.Entities {
		if entity == "" {
			return fmt.Errorf("%w: entity names must be non-empty", recognizer.ErrInvalidRequest)
		}
	}
	if r.ScoreThreshold < 0 || r.ScoreThreshold > 1 {
		return fmt.Errorf("%w: score_threshold %v outside [0,1]", recognizer.ErrInvalidRequest, r.ScoreThreshold)
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	if r.CorrelationID == "" {
		r.CorrelationID = uuid.NewString()
	}
	return nil
}
