// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cost.go - Per-turn token usage and cost reporting for dschat.
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/dschat/internal/deepseek"
)

// =============================================================================
// COST REPORTING
// =============================================================================

// DeepSeek pricing in CNY per million tokens. Cache hits are billed at a
// steep discount relative to cache misses.
const (
	priceCacheHitPerMillion  = 0.5
	priceCacheMissPerMillion = 2.0
	priceOutputPerMillion    = 8.0
)

// TurnCost holds the computed cost breakdown for a single completed turn.
type TurnCost struct {
	InputCNY  float64
	OutputCNY float64
}

// Total returns the combined input and output cost in CNY.
func (c TurnCost) Total() float64 {
	return c.InputCNY + c.OutputCNY
}

// CalculateCost computes the CNY cost of a turn from its token usage.
// Cache-hit and cache-miss prompt tokens are priced separately.
func CalculateCost(usage *deepseek.Usage) TurnCost {
	if usage == nil {
		return TurnCost{}
	}

	hit := float64(usage.PromptCacheHitTokens)
	miss := float64(usage.PromptCacheMissTokens)

	return TurnCost{
		InputCNY:  (hit*priceCacheHitPerMillion + miss*priceCacheMissPerMillion) / 1_000_000,
		OutputCNY: float64(usage.CompletionTokens) * priceOutputPerMillion / 1_000_000,
	}
}

// FormatCostReport renders the token and cost breakdown for a completed turn.
// Returns an empty string when usage is unavailable.
func FormatCostReport(usage *deepseek.Usage) string {
	if usage == nil {
		return ""
	}

	cost := CalculateCost(usage)

	var b strings.Builder
	fmt.Fprintf(&b, "Tokens: %s in (%s cache hit, %s cache miss), %s out, %s total\n",
		formatNumber(usage.PromptTokens),
		formatNumber(usage.PromptCacheHitTokens),
		formatNumber(usage.PromptCacheMissTokens),
		formatNumber(usage.CompletionTokens),
		formatNumber(usage.TotalTokens))
	fmt.Fprintf(&b, "Cost: ￥%.4f (input ￥%.4f, output ￥%.4f)",
		cost.Total(), cost.InputCNY, cost.OutputCNY)

	return b.String()
}
