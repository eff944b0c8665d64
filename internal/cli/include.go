// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// include.go - @file(...) expansion for chat input.
package cli

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// MaxIncludeSize is the maximum file size allowed for @file inclusion.
// Keeps a fat binary or log file from blowing up the prompt.
const MaxIncludeSize = 1 * 1024 * 1024 // 1MB

// fileRefRegex matches @file(path) references in chat input.
// Lazy match so multiple references on one line each capture their own path.
var fileRefRegex = regexp.MustCompile(`@file\((.*?)\)`)

// ExpandFileRefs replaces every @file(path) reference in input with the
// file's contents wrapped in begin/end markers the model can recognize.
//
// Any unreadable reference fails the whole expansion: the caller warns and
// re-prompts rather than sending a message with silently missing context.
func ExpandFileRefs(input string) (string, error) {
	refs := fileRefRegex.FindAllStringSubmatch(input, -1)
	if len(refs) == 0 {
		return input, nil
	}

	expanded := input
	for _, ref := range refs {
		path := ref[1]
		content, err := readFileForInclude(path)
		if err != nil {
			return "", err
		}

		block := fmt.Sprintf("\n===== File: %s =====\n%s\n===== End =====\n", path, content)
		expanded = strings.Replace(expanded, ref[0], block, 1)
	}

	return expanded, nil
}

// readFileForInclude reads a file for prompt inclusion, enforcing the
// size limit.
func readFileForInclude(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("cannot access file %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a file: %s", path)
	}
	if info.Size() > MaxIncludeSize {
		return "", fmt.Errorf("file too large: %s (%d bytes, max %d)", path, info.Size(), MaxIncludeSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(content), nil
}
