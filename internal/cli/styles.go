// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Centralized styling for dschat output.
//
// Colors are automatically disabled for non-TTY output and when the
// NO_COLOR environment variable is set.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// init configures lipgloss color profile based on terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// promptStyle colors the interactive input prompt
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Cyan
			Bold(true)

	// welcomeStyle colors the session banner
	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")). // Purple
			Bold(true)

	// infoStyle is used for secondary information
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray

	// reasoningStyle dims chain-of-thought output so the answer stands out
	reasoningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim gray

	// errorStyle is used for error markers
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// warningStyle is used for warnings (bad @file paths, cancelled turns)
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Yellow/Orange

	// matchStyle emphasizes keyword hits in search results
	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")). // Bright green
			Bold(true)

	// headerStyle colors transcript headers in search results
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")) // Blue

	// costStyle is used for the per-turn cost report
	costStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// EmphasizeMatch styles a matched keyword span for search output.
// When colors are disabled the text passes through unchanged, which keeps
// piped output byte-identical to the transcript.
func EmphasizeMatch(s string) string {
	if !ColorsEnabled() {
		return s
	}
	return matchStyle.Render(s)
}
