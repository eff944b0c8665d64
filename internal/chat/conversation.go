// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/dschat/internal/deepseek"
)

// Conversation holds the ordered message history for one chat session.
//
// The full history is sent with every request so the model sees all prior
// context. Nothing is truncated; very long sessions grow the request
// without bound.
type Conversation struct {
	messages []deepseek.Message
}

// NewConversation creates a conversation seeded with the given system message.
func NewConversation(systemMessage string) *Conversation {
	return &Conversation{
		messages: []deepseek.Message{
			deepseek.NewSystemMessage(systemMessage),
		},
	}
}

// AddUser appends a user message to the history.
func (c *Conversation) AddUser(content string) {
	c.messages = append(c.messages, deepseek.NewUserMessage(content))
}

// AddAssistant appends an assistant message to the history.
// Call exactly once per completed turn, with the reconciled answer text
// (never the reasoning text).
func (c *Conversation) AddAssistant(content string) {
	c.messages = append(c.messages, deepseek.NewAssistantMessage(content))
}

// Messages returns the message history to send with the next request.
// The returned slice is shared; callers must not modify it.
func (c *Conversation) Messages() []deepseek.Message {
	return c.messages
}

// Len returns the number of messages, including the system message.
func (c *Conversation) Len() int {
	return len(c.messages)
}
