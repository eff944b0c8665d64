// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/jeranaias/dschat/internal/deepseek"
)

// =============================================================================
// FRAGMENTS
// =============================================================================

// FragmentKind tags the variants of a stream fragment.
type FragmentKind int

const (
	// FragmentReasoning carries chain-of-thought text. Displayed, never
	// persisted or fed back into the conversation.
	FragmentReasoning FragmentKind = iota

	// FragmentAnswer carries answer text. Displayed and accumulated.
	FragmentAnswer

	// FragmentEnd terminates the turn. May carry usage counters.
	FragmentEnd
)

// Fragment is one unit of a streamed reply. Exactly one variant applies:
// reasoning text, answer text, or the terminal marker.
type Fragment struct {
	Kind  FragmentKind
	Text  string
	Usage *deepseek.Usage // only on FragmentEnd, may be nil
}

// ReasoningFragment creates a reasoning fragment.
func ReasoningFragment(text string) Fragment {
	return Fragment{Kind: FragmentReasoning, Text: text}
}

// AnswerFragment creates an answer fragment.
func AnswerFragment(text string) Fragment {
	return Fragment{Kind: FragmentAnswer, Text: text}
}

// EndFragment creates a terminal fragment with optional usage.
func EndFragment(usage *deepseek.Usage) Fragment {
	return Fragment{Kind: FragmentEnd, Usage: usage}
}

// FragmentsFromChunk converts an SSE chunk into zero or more fragments.
// A chunk can carry reasoning text, answer text, and a finish reason in
// any combination; fragments are emitted in that order.
func FragmentsFromChunk(chunk deepseek.StreamChunk) []Fragment {
	var frags []Fragment
	if r := chunk.GetReasoning(); r != "" {
		frags = append(frags, ReasoningFragment(r))
	}
	if a := chunk.GetContent(); a != "" {
		frags = append(frags, AnswerFragment(a))
	}
	if chunk.IsDone() {
		frags = append(frags, EndFragment(chunk.Usage))
	}
	return frags
}

// =============================================================================
// RECONCILER
// =============================================================================

// ReasoningMarker is printed once before the first reasoning fragment so the
// reader can tell chain-of-thought output from the answer.
const ReasoningMarker = "==Reasoning==\n"

// Reconciler consumes stream fragments in arrival order, forwards display
// text to a sink, and rebuilds the complete answer for the conversation
// history and the session log.
//
// Reasoning text flows to the sink only; answer text flows to the sink and
// into the accumulator. The zero reconciler is not usable; construct with
// NewReconciler.
type Reconciler struct {
	sink           func(string)
	answer         strings.Builder
	reasoningShown bool
	done           bool
	usage          *deepseek.Usage
}

// NewReconciler creates a reconciler writing display text to sink.
// A nil sink discards display output.
func NewReconciler(sink func(string)) *Reconciler {
	if sink == nil {
		sink = func(string) {}
	}
	return &Reconciler{sink: sink}
}

// Add processes one fragment. Fragments after the End fragment are ignored.
func (r *Reconciler) Add(frag Fragment) {
	if r.done {
		return
	}

	switch frag.Kind {
	case FragmentReasoning:
		if !r.reasoningShown {
			r.reasoningShown = true
			r.sink(ReasoningMarker)
		}
		r.sink(frag.Text)
	case FragmentAnswer:
		r.answer.WriteString(frag.Text)
		r.sink(frag.Text)
	case FragmentEnd:
		r.done = true
		r.usage = frag.Usage
	}
}

// AddChunk converts an SSE chunk and processes its fragments.
func (r *Reconciler) AddChunk(chunk deepseek.StreamChunk) {
	for _, frag := range FragmentsFromChunk(chunk) {
		r.Add(frag)
	}
}

// Answer returns the accumulated answer text.
func (r *Reconciler) Answer() string {
	return r.answer.String()
}

// Done reports whether the End fragment has been seen. A turn whose stream
// failed before End must not be persisted; the caller checks Done before
// logging or extending the conversation.
func (r *Reconciler) Done() bool {
	return r.done
}

// Usage returns the usage counters from the End fragment, or nil.
func (r *Reconciler) Usage() *deepseek.Usage {
	return r.usage
}

// SawReasoning reports whether any reasoning text arrived.
func (r *Reconciler) SawReasoning() bool {
	return r.reasoningShown
}
