// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"sort"

	"pii-sentry/internal/recognizer"
)

// resolveConflicts arbitrates the raw findings of all recognizers into the
// final set. Candidates are visited in priority order: score descending,
// then start ascending, then shorter span first. A candidate is rejected
// only when an already-accepted finding fully contains it; partial overlaps
// survive, so two findings may still share text. Zero-score findings never
// enter arbitration.
//
// Containment is checked against accepted findings only, in acceptance
// order. A wide span visited after a narrow one it contains is therefore
// accepted alongside it; suppression applies to the contained side, not the
// containing side.
func resolveConflicts(results []recognizer.Result) []recognizer.Result {
	candidates := make([]recognizer.Result, 0, len(results))
	for _, res := range results {
		if res.Score == 0 {
			continue
		}
		candidates = append(candidates, res)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].Length() < candidates[j].Length()
	})

	accepted := make([]recognizer.Result, 0, len(candidates))
	for _, candidate := range candidates {
		contained := false
		for _, winner := range accepted {
			if winner.Contains(candidate) {
				contained = true
				break
			}
		}
		if !contained {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}
