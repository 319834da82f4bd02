// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Token length bounds. Tokens outside [minTokenLen, maxTokenLen] runes are
// dropped, matching the normalizer the text model was trained with.
const (
	minTokenLen = 2
	maxTokenLen = 15
)

// deaccenter strips combining marks after NFD decomposition, so "café"
// tokenizes as "cafe".
var deaccenter = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Tokenize normalizes free text deterministically: lowercase, deaccent,
// split on non-letter runes, and drop tokens shorter than 2 or longer
// than 15 runes. The same normalizer must be applied to every text the
// model embeds, at training and at inference.
func Tokenize(text string) []string {
	folded, _, err := transform.String(deaccenter, text)
	if err != nil {
		// Deaccenting is best effort; fall back to the raw text.
		folded = text
	}
	folded = strings.ToLower(folded)

	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	out := tokens[:0]
	for _, tok := range tokens {
		n := len([]rune(tok))
		if n >= minTokenLen && n <= maxTokenLen {
			out = append(out, tok)
		}
	}
	return out
}
