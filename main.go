// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Aurora is a terminal chat client for a multi-provider LLM chat backend.
package main

import "github.com/jeranaias/aurora-chat/internal/cli"

func main() {
	cli.Execute()
}
