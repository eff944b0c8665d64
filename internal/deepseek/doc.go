// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package deepseek provides the HTTP client for the DeepSeek chat
// completions API.
//
// The API is OpenAI-compatible: an ordered message list plus a model
// identifier and a streaming flag. Non-streaming mode returns one response
// with optional reasoning text, answer text, and usage counters. Streaming
// mode returns an SSE sequence of delta fragments terminated by a chunk
// carrying a non-empty finish reason, which may also carry final usage
// counters.
//
// Reasoning models ("deepseek-reasoner") emit reasoning_content deltas
// before the answer content; chat models emit content only.
package deepseek
