// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jeranaias/dschat/internal/deepseek"
)

// collectSink returns a sink and the slice it appends to.
func collectSink() (func(string), *[]string) {
	var out []string
	return func(s string) { out = append(out, s) }, &out
}

func TestReconciler_ReasoningThenAnswer(t *testing.T) {
	sink, out := collectSink()
	r := NewReconciler(sink)

	r.Add(ReasoningFragment("A"))
	r.Add(ReasoningFragment("B"))
	r.Add(AnswerFragment("C"))
	r.Add(AnswerFragment("D"))
	r.Add(EndFragment(nil))

	want := []string{ReasoningMarker, "A", "B", "C", "D"}
	if len(*out) != len(want) {
		t.Fatalf("sink received %d writes, want %d: %v", len(*out), len(want), *out)
	}
	for i, w := range want {
		if (*out)[i] != w {
			t.Errorf("write %d = %q, want %q", i, (*out)[i], w)
		}
	}

	if r.Answer() != "CD" {
		t.Errorf("Answer = %q, want %q", r.Answer(), "CD")
	}
	if !r.Done() {
		t.Error("Done should be true after End fragment")
	}
}

func TestReconciler_MarkerEmittedOnce(t *testing.T) {
	sink, out := collectSink()
	r := NewReconciler(sink)

	r.Add(ReasoningFragment("x"))
	r.Add(AnswerFragment("mid"))
	r.Add(ReasoningFragment("y"))

	markers := 0
	for _, s := range *out {
		if s == ReasoningMarker {
			markers++
		}
	}
	if markers != 1 {
		t.Errorf("reasoning marker emitted %d times, want 1", markers)
	}
}

func TestReconciler_NoReasoningNoMarker(t *testing.T) {
	sink, out := collectSink()
	r := NewReconciler(sink)

	r.Add(AnswerFragment("plain"))
	r.Add(EndFragment(nil))

	for _, s := range *out {
		if s == ReasoningMarker {
			t.Error("marker emitted for a turn with no reasoning")
		}
	}
	if r.SawReasoning() {
		t.Error("SawReasoning should be false")
	}
}

func TestReconciler_AnswerExcludesReasoning(t *testing.T) {
	r := NewReconciler(nil)

	r.Add(ReasoningFragment("secret thoughts"))
	r.Add(AnswerFragment("public answer"))
	r.Add(EndFragment(nil))

	if strings.Contains(r.Answer(), "secret") {
		t.Errorf("reasoning leaked into answer: %q", r.Answer())
	}
	if r.Answer() != "public answer" {
		t.Errorf("Answer = %q", r.Answer())
	}
}

func TestReconciler_UsageFromEnd(t *testing.T) {
	r := NewReconciler(nil)

	usage := &deepseek.Usage{
		PromptTokens:          20,
		CompletionTokens:      10,
		TotalTokens:           30,
		PromptCacheHitTokens:  15,
		PromptCacheMissTokens: 5,
	}
	r.Add(AnswerFragment("hi"))
	r.Add(EndFragment(usage))

	got := r.Usage()
	if got == nil {
		t.Fatal("Usage is nil")
	}
	if got.PromptCacheHitTokens != 15 || got.PromptCacheMissTokens != 5 {
		t.Errorf("cache tokens = %d/%d, want 15/5", got.PromptCacheHitTokens, got.PromptCacheMissTokens)
	}
}

func TestReconciler_IgnoresFragmentsAfterEnd(t *testing.T) {
	r := NewReconciler(nil)

	r.Add(AnswerFragment("kept"))
	r.Add(EndFragment(nil))
	r.Add(AnswerFragment("dropped"))

	if r.Answer() != "kept" {
		t.Errorf("Answer = %q, want %q", r.Answer(), "kept")
	}
}

func TestReconciler_IncompleteStreamNotDone(t *testing.T) {
	r := NewReconciler(nil)

	r.Add(AnswerFragment("partial "))
	r.Add(AnswerFragment("answer"))
	// Stream failed before End.

	if r.Done() {
		t.Error("Done should be false without an End fragment")
	}
}

func TestFragmentsFromChunk(t *testing.T) {
	raw := `{"choices":[{"delta":{"reasoning_content":"r","content":"a"},"finish_reason":"stop"}],` +
		`"usage":{"total_tokens":3}}`
	var chunk deepseek.StreamChunk
	if err := json.Unmarshal([]byte(raw), &chunk); err != nil {
		t.Fatalf("unmarshal chunk: %v", err)
	}

	frags := FragmentsFromChunk(chunk)
	if len(frags) != 3 {
		t.Fatalf("got %d fragments, want 3", len(frags))
	}
	if frags[0].Kind != FragmentReasoning || frags[0].Text != "r" {
		t.Errorf("fragment 0 = %+v", frags[0])
	}
	if frags[1].Kind != FragmentAnswer || frags[1].Text != "a" {
		t.Errorf("fragment 1 = %+v", frags[1])
	}
	if frags[2].Kind != FragmentEnd || frags[2].Usage == nil {
		t.Errorf("fragment 2 = %+v", frags[2])
	}
}

func TestFragmentsFromChunk_EmptyDelta(t *testing.T) {
	var chunk deepseek.StreamChunk
	if frags := FragmentsFromChunk(chunk); len(frags) != 0 {
		t.Errorf("empty chunk produced %d fragments", len(frags))
	}
}

func TestConversation(t *testing.T) {
	conv := NewConversation("You are a helpful assistant.")

	if conv.Len() != 1 {
		t.Fatalf("new conversation has %d messages, want 1", conv.Len())
	}
	if conv.Messages()[0].Role != deepseek.RoleSystem {
		t.Errorf("first message role = %q, want system", conv.Messages()[0].Role)
	}

	conv.AddUser("hello")
	conv.AddAssistant("hi there")

	msgs := conv.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[1].Role != deepseek.RoleUser || msgs[1].Content != "hello" {
		t.Errorf("user message = %+v", msgs[1])
	}
	if msgs[2].Role != deepseek.RoleAssistant || msgs[2].Content != "hi there" {
		t.Errorf("assistant message = %+v", msgs[2])
	}
}
