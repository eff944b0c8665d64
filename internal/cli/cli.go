// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Argument parsing and command dispatch for dschat.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/dschat/internal/config"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdChat Command = iota
	CmdSearch
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	CostReport bool   // -c, --cost: print a token/cost report after each turn
	Model      string // --model: override configured model
	NoStream   bool   // --no-stream: one-shot responses instead of SSE streaming
	Keyword    string // --search: history search keyword
	MaxResults int    // --max-results: cap on search results
}

const usageText = `dschat - interactive DeepSeek chat for the terminal

Streams replies token by token, shows reasoning-model chain-of-thought
under a ==Reasoning== marker, and keeps a transcript of every session
under the history directory for later search.

Usage:
  dschat                     Start an interactive chat session
  dschat --search KEYWORD    Search past session transcripts
  dschat version             Show version information

Flags:
  -c, --cost            Show token usage and cost after each reply
  --model NAME          Override the configured model (e.g. deepseek-reasoner)
  --no-stream           Wait for complete replies instead of streaming
  --search KEYWORD      Search history and exit (works without an API key)
  --max-results N       Number of search results to show (default %d)

Configuration:
  %s, or api_key in ~/.dschat/config.toml

During chat:
  @file(path)           Inline a file's contents into your message
  exit, quit            End the session
  Ctrl+C                Cancel the current input or reply; twice exits

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, 10, config.EnvAPIKey, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("dschat version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

// parseArgs does the actual parsing; split out for tests.
func parseArgs(raw []string) (Command, Args) {
	args := Args{}
	cmd := CmdChat

	i := 0
	for i < len(raw) {
		arg := raw[i]

		switch arg {
		case "-c", "--cost":
			args.CostReport = true
		case "--no-stream":
			args.NoStream = true
		case "--model":
			if i+1 < len(raw) {
				i++
				args.Model = raw[i]
			}
		case "--search":
			cmd = CmdSearch
			if i+1 < len(raw) {
				i++
				args.Keyword = raw[i]
			}
		case "--max-results":
			if i+1 < len(raw) {
				i++
				if n, err := strconv.Atoi(raw[i]); err == nil && n > 0 {
					args.MaxResults = n
				}
			}
		case "version", "-v", "--version":
			cmd = CmdVersion
		case "help", "-h", "--help":
			cmd = CmdHelp
		default:
			if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
			} else if strings.HasPrefix(arg, "--search=") {
				cmd = CmdSearch
				args.Keyword = strings.TrimPrefix(arg, "--search=")
			} else if strings.HasPrefix(arg, "--max-results=") {
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--max-results=")); err == nil && n > 0 {
					args.MaxResults = n
				}
			}
			// Unknown flags and stray positionals are ignored
		}
		i++
	}

	return cmd, args
}

// Run parses arguments and dispatches to the selected command.
// Returns the process exit code.
func Run() int {
	cmd, args := Parse()

	switch cmd {
	case CmdVersion:
		PrintVersion()
		return 0

	case CmdHelp:
		PrintUsage()
		return 0

	case CmdSearch:
		if err := HandleSearchCommand(args); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			return 1
		}
		return 0

	default:
		if err := HandleChatCommand(args); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			return 1
		}
		return 0
	}
}
