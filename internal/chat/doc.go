// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat holds the conversation state and the streaming reconciler.
//
// A Conversation accumulates the message history sent with every request,
// seeded with the configured system message. The Reconciler consumes
// streamed delta fragments, separates reasoning tokens from answer tokens,
// and rebuilds the complete answer so it can be appended back to the
// conversation when the stream finishes.
package chat
