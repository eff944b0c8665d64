// dschat - Interactive DeepSeek chat for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/jeranaias/dschat/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
