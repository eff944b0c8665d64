// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "abcd", "abcd", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		// blocks "ab" + "cd" => M=4, T=9 => 8/9
		{"partial", "abxcd", "abcd", 8.0 / 9.0},
		// single char overlap: M=1, T=4 => 0.5
		{"single common rune", "ab", "bc", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kubernetes", "kuberntes"},
		{"hello world", "world hello"},
		{"短いテキスト", "短いテスト"},
	}
	for _, p := range pairs {
		ab := Ratio(p[0], p[1])
		ba := Ratio(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Ratio(%q, %q)=%v but reversed=%v", p[0], p[1], ab, ba)
		}
	}
}

func TestRatio_Runes(t *testing.T) {
	// Multibyte text is compared rune-wise, so a one-rune difference in a
	// six-rune string scores high.
	got := Ratio("短いテキスト", "短いテスト")
	if got < 0.8 {
		t.Errorf("Ratio = %v, want close match for one-rune deletion", got)
	}
}

func TestRatio_TypoAboveThreshold(t *testing.T) {
	if got := Ratio("kuberntes", "kubernetes"); got < similarityThreshold {
		t.Errorf("Ratio = %v, want >= %v", got, similarityThreshold)
	}
}
