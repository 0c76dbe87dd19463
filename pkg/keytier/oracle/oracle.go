// Package oracle defines the enrichment oracle contract: given candidate
// texts, return per-text popularity and competition signals. Implementations
// must tolerate partial results; texts with no data are simply absent from
// the response.
package oracle

import "context"

// Metrics is the raw signal record for one keyword text.
type Metrics struct {
	Volume      float64 // monthly search volume
	Competition float64 // competition index in [0,1]
	AdDepth     float64 // number of ads shown
	CPC         float64 // cost per click
	Rank        int     // ad rank position, 0 when unknown
}

// Oracle returns metrics for a batch of candidate texts in one logical
// round trip. The returned map may cover any subset of the requested texts.
type Oracle interface {
	BulkMetrics(ctx context.Context, texts []string) (map[string]Metrics, error)
}
