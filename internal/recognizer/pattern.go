// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"pii-sentry/internal/nlp"
)

// Pattern is one regex a pattern recognizer scans with, tagged with a name
// and the confidence a bare match carries before checksum or context
// scoring. Patterns are declared in descending confidence order.
type Pattern struct {
	Name  string
	Score float64
	Regex *regexp.Regexp
}

// NewPattern compiles expr with case-insensitive, multi-line, dot-matches-all
// matching and panics on a bad expression. Built-in patterns are compile-time
// constants; a panic here is a programming error, not input.
func NewPattern(name string, score float64, expr string) Pattern {
	return Pattern{Name: name, Score: score, Regex: regexp.MustCompile(`(?ims)` + expr)}
}

// NewCaseSensitivePattern is NewPattern without case folding, for alphabets
// where letter case is significant (Base58 excludes l, I and O; folding would
// let them back in through their counterparts).
func NewCaseSensitivePattern(name string, score float64, expr string) Pattern {
	return Pattern{Name: name, Score: score, Regex: regexp.MustCompile(`(?ms)` + expr)}
}

// CompilePattern is the error-returning variant used for custom recognizer
// definitions coming from the store.
func CompilePattern(name string, score float64, expr string) (Pattern, error) {
	if score < 0 || score > 1 {
		return Pattern{}, fmt.Errorf("pattern %q: score %v outside [0,1]", name, score)
	}
	re, err := regexp.Compile(`(?ims)` + expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern %q: %w", name, err)
	}
	return Pattern{Name: name, Score: score, Regex: re}, nil
}

// ChecksumFunc validates the sanitized text of a match (separators already
// stripped). When a recognizer declares one, it is authoritative: pass forces
// the score to 1.0, fail drops the finding. Implementations must fail closed
// on malformed input.
type ChecksumFunc func(sanitized string) bool

// ContextEnhancer computes a similarity-based confidence boost for a match
// from the surrounding text and the recognizer's context keywords. It returns
// the new score and the keyword that supported it (empty when no boost
// applied). Implemented by the enhancer package; declared here so pattern
// recognizers stay decoupled from the scoring implementation.
type ContextEnhancer interface {
	Boost(artifacts *nlp.Artifacts, text string, start, end int, base float64, keywords []string) (float64, string)
}

// PatternConfig assembles a PatternRecognizer. Checksum and Enhancer are
// optional; ContextWords are only consulted when an Enhancer is present and
// no Checksum applies.
type PatternConfig struct {
	Name         string
	Entity       string
	Language     string
	Version      string
	Patterns     []Pattern
	ContextWords []string
	Checksum     ChecksumFunc
	Enhancer     ContextEnhancer
}

// PatternRecognizer detects one entity type with a list of regular
// expressions, an optional checksum validator, and optional context-word
// scoring. It holds no per-request state and is safe for concurrent use.
type PatternRecognizer struct {
	name         string
	entity       string
	language     string
	version      string
	patterns     []Pattern
	contextWords []string
	checksum     ChecksumFunc
	enhancer     ContextEnhancer
}

// NewPatternRecognizer builds a pattern recognizer from cfg.
func NewPatternRecognizer(cfg PatternConfig) (*PatternRecognizer, error) {
	if cfg.Name == "" || cfg.Entity == "" {
		return nil, fmt.Errorf("pattern recognizer: name and entity are required")
	}
	if len(cfg.Patterns) == 0 {
		return nil, fmt.Errorf("pattern recognizer %q: at least one pattern is required", cfg.Name)
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	version := cfg.Version
	if version == "" {
		version = "0.0.1"
	}
	return &PatternRecognizer{
		name:         cfg.Name,
		entity:       cfg.Entity,
		language:     language,
		version:      version,
		patterns:     cfg.Patterns,
		contextWords: cfg.ContextWords,
		checksum:     cfg.Checksum,
		enhancer:     cfg.Enhancer,
	}, nil
}

func (r *PatternRecognizer) Name() string                { return r.name }
func (r *PatternRecognizer) SupportedEntities() []string { return []string{r.entity} }
func (r *PatternRecognizer) SupportedLanguage() string   { return r.language }
func (r *PatternRecognizer) Version() string             { return r.version }

// Load is a no-op; regexes are compiled at construction.
func (r *PatternRecognizer) Load() error { return nil }

// Analyze scans the text with every declared pattern. Matches from different
// patterns may overlap each other; overlap is resolved globally by conflict
// resolution, not here. The one local rule is duplicate suppression: with
// multiple patterns declared, a later pattern's match starting or ending
// exactly where an earlier match did is discarded, keeping the
// higher-confidence earlier pattern.
func (r *PatternRecognizer) Analyze(ctx context.Context, text string, entities []string, artifacts *nlp.Artifacts) ([]Result, error) {
	if !supportsEntity(entities, r.entity) {
		return nil, nil
	}

	var results []Result
	for _, pattern := range r.patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, loc := range pattern.Regex.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			if start == end {
				continue
			}
			if len(r.patterns) > 1 && hasBoundaryDuplicate(results, start, end) {
				continue
			}

			score, explanation := r.score(text, start, end, pattern, artifacts)
			if score == 0 {
				// Checksum failure or explicit zero. Never enters
				// arbitration.
				continue
			}

			results = append(results, Result{
				EntityType:  r.entity,
				Start:       start,
				End:         end,
				Score:       score,
				Explanation: explanation,
			})
		}
	}
	return results, nil
}

// score applies the confidence model for one match: the checksum is
// authoritative when declared, otherwise the base score plus any context
// boost, clamped to [0,1].
func (r *PatternRecognizer) score(text string, start, end int, pattern Pattern, artifacts *nlp.Artifacts) (float64, *Explanation) {
	explanation := &Explanation{
		Recognizer:    r.name,
		PatternName:   pattern.Name,
		OriginalScore: pattern.Score,
	}

	score := pattern.Score
	if r.checksum != nil {
		if !r.checksum(SanitizeValue(text[start:end])) {
			return 0, nil
		}
		score = 1.0
		explanation.ChecksumPassed = true
	} else if r.enhancer != nil && len(r.contextWords) > 0 {
		boosted, word := r.enhancer.Boost(artifacts, text, start, end, score, r.contextWords)
		score = boosted
		explanation.SupportiveContextWord = word
	}

	score = clamp01(score)
	explanation.Score = score
	return score, explanation
}

// hasBoundaryDuplicate reports whether a previous pattern already produced a
// match at the same start or the same end offset.
func hasBoundaryDuplicate(results []Result, start, end int) bool {
	for _, r := range results {
		if r.Start == start || r.End == end {
			return true
		}
	}
	return false
}

var valueSanitizer = strings.NewReplacer(" ", "", "-", "", "\t", "")

// SanitizeValue strips the separators checksum validators ignore.
func SanitizeValue(value string) string {
	return valueSanitizer.Replace(value)
}
