// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

// Ratio computes a similarity score between two strings in [0, 1]:
// 2*M/T where M is the total length of all matching blocks found by
// the longest-matching-block recursion and T is the combined length.
// Operates on runes so multibyte text scores sensibly.
//
// Two empty strings are identical by definition and score 1.0.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	matches := matchingRunes(ra, rb)
	return 2.0 * float64(matches) / float64(total)
}

// matchingRunes returns the total length of matching blocks between a and b:
// find the longest common contiguous block, then recurse on the pieces to
// its left and right.
func matchingRunes(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}

	left := matchingRunes(a[:ai], b[:bi])
	right := matchingRunes(a[ai+size:], b[bi+size:])
	return left + size + right
}

// longestMatch finds the longest common contiguous block of a and b,
// returning its start in a, start in b, and length. Earliest block wins
// ties. Dynamic programming over block lengths ending at each pair.
func longestMatch(a, b []rune) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0

	// lengths[j] = length of common suffix ending at a[i-1], b[j-1]
	// from the previous row
	lengths := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > bestSize {
					bestSize = lengths[j]
					bestA = i - bestSize
					bestB = j - bestSize
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}

	return bestA, bestB, bestSize
}
