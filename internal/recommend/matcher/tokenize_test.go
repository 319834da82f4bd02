// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package matcher

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercase and split on punctuation",
			text: "Senior Go Developer, Backend!",
			want: []string{"senior", "go", "developer", "backend"},
		},
		{
			name: "deaccent",
			text: "Café résumé",
			want: []string{"cafe", "resume"},
		},
		{
			name: "digits split tokens",
			text: "python3 k8s",
			want: []string{"python"},
		},
		{
			name: "single letters dropped",
			text: "a b c api",
			want: []string{"api"},
		},
		{
			name: "overlong tokens dropped",
			text: "short pneumonoultramicroscopic",
			want: []string{"short"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "only punctuation",
			text: "?! ... 123",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	text := "Machine Learning Engineer with Python and SQL"
	first := Tokenize(text)
	for i := 0; i < 10; i++ {
		if got := Tokenize(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Tokenize not deterministic: %v != %v", i, got, first)
		}
	}
}
