// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
)

func TestParseArgs_Defaults(t *testing.T) {
	cmd, args := parseArgs(nil)
	if cmd != CmdChat {
		t.Errorf("expected CmdChat, got %v", cmd)
	}
	if args.CostReport || args.NoStream || args.Model != "" || args.Keyword != "" || args.MaxResults != 0 {
		t.Errorf("expected zero args, got %+v", args)
	}
}

func TestParseArgs_Flags(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		wantCmd  Command
		wantArgs Args
	}{
		{
			name:     "cost short",
			raw:      []string{"-c"},
			wantCmd:  CmdChat,
			wantArgs: Args{CostReport: true},
		},
		{
			name:     "cost long",
			raw:      []string{"--cost"},
			wantCmd:  CmdChat,
			wantArgs: Args{CostReport: true},
		},
		{
			name:     "no stream",
			raw:      []string{"--no-stream"},
			wantCmd:  CmdChat,
			wantArgs: Args{NoStream: true},
		},
		{
			name:     "model space form",
			raw:      []string{"--model", "deepseek-reasoner"},
			wantCmd:  CmdChat,
			wantArgs: Args{Model: "deepseek-reasoner"},
		},
		{
			name:     "model equals form",
			raw:      []string{"--model=deepseek-reasoner"},
			wantCmd:  CmdChat,
			wantArgs: Args{Model: "deepseek-reasoner"},
		},
		{
			name:     "search space form",
			raw:      []string{"--search", "kubernetes"},
			wantCmd:  CmdSearch,
			wantArgs: Args{Keyword: "kubernetes"},
		},
		{
			name:     "search equals form",
			raw:      []string{"--search=kubernetes"},
			wantCmd:  CmdSearch,
			wantArgs: Args{Keyword: "kubernetes"},
		},
		{
			name:     "search with max results",
			raw:      []string{"--search", "redis", "--max-results", "5"},
			wantCmd:  CmdSearch,
			wantArgs: Args{Keyword: "redis", MaxResults: 5},
		},
		{
			name:     "max results equals form",
			raw:      []string{"--search=redis", "--max-results=3"},
			wantCmd:  CmdSearch,
			wantArgs: Args{Keyword: "redis", MaxResults: 3},
		},
		{
			name:     "negative max results ignored",
			raw:      []string{"--search", "x", "--max-results", "-1"},
			wantCmd:  CmdSearch,
			wantArgs: Args{Keyword: "x"},
		},
		{
			name:     "non-numeric max results ignored",
			raw:      []string{"--search", "x", "--max-results", "many"},
			wantCmd:  CmdSearch,
			wantArgs: Args{Keyword: "x", MaxResults: 0},
		},
		{
			name:     "combined chat flags",
			raw:      []string{"-c", "--no-stream", "--model", "deepseek-chat"},
			wantCmd:  CmdChat,
			wantArgs: Args{CostReport: true, NoStream: true, Model: "deepseek-chat"},
		},
		{
			name:     "unknown flags ignored",
			raw:      []string{"--frobnicate", "-z"},
			wantCmd:  CmdChat,
			wantArgs: Args{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := parseArgs(tt.raw)
			if cmd != tt.wantCmd {
				t.Errorf("cmd = %v, want %v", cmd, tt.wantCmd)
			}
			if args != tt.wantArgs {
				t.Errorf("args = %+v, want %+v", args, tt.wantArgs)
			}
		})
	}
}

func TestParseArgs_VersionAndHelp(t *testing.T) {
	for _, raw := range [][]string{{"version"}, {"-v"}, {"--version"}} {
		cmd, _ := parseArgs(raw)
		if cmd != CmdVersion {
			t.Errorf("parseArgs(%v) = %v, want CmdVersion", raw, cmd)
		}
	}
	for _, raw := range [][]string{{"help"}, {"-h"}, {"--help"}} {
		cmd, _ := parseArgs(raw)
		if cmd != CmdHelp {
			t.Errorf("parseArgs(%v) = %v, want CmdHelp", raw, cmd)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
