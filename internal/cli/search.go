// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// search.go - Transcript history search command for dschat.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jeranaias/dschat/internal/config"
	"github.com/jeranaias/dschat/internal/history"
	"github.com/jeranaias/dschat/internal/util"
)

// =============================================================================
// SEARCH COMMAND
// =============================================================================

// HandleSearchCommand searches past session transcripts for a keyword and
// prints matching turns with the matched portions emphasized.
//
// Search works entirely offline: no credential is required.
func HandleSearchCommand(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir, err := cfg.ResolveHistoryDir()
	if err != nil {
		return err
	}

	store, err := history.NewStore(dir)
	if err != nil {
		return err
	}

	results, err := store.Search(args.Keyword, args.MaxResults)
	if err != nil {
		if errors.Is(err, history.ErrNoResults) {
			fmt.Println(infoStyle.Render(fmt.Sprintf("No matches for %q in %s", args.Keyword, dir)))
			return nil
		}
		return err
	}

	printSearchResults(results, args.Keyword)
	return nil
}

// printSearchResults renders search hits in chronological order, one turn
// per block, with the source file shown once per group.
func printSearchResults(results []history.Result, keyword string) {
	lastFile := ""
	for _, r := range results {
		if r.File != lastFile {
			if lastFile != "" {
				fmt.Println()
			}
			banner := "=== " + filepath.Base(r.File) + " ==="
			fmt.Println(headerStyle.Render(util.TruncateWidth(banner, GetTerminalWidth())))
			lastFile = r.File
		}
		fmt.Println(infoStyle.Render(r.Header))
		fmt.Println(history.Highlight(r.Body, keyword, EmphasizeMatch))
		fmt.Println()
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("%d matching turn(s)", len(results))))
}
