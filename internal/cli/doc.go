// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the dschat command line interface.
//
// It parses arguments, runs the interactive chat REPL (line editing and
// input history via liner, streaming output, markdown re-rendering on a
// TTY), and handles the offline history search mode. All model access
// goes through internal/deepseek; transcripts go through internal/history.
package cli
