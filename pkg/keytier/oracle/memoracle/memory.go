// Package memoracle provides an in-memory oracle.Oracle for tests and
// examples.
package memoracle

import (
	"context"
	"sync"

	"github.com/tidewave/keytier/pkg/keytier/oracle"
)

// Oracle is an in-memory implementation of oracle.Oracle.
type Oracle struct {
	mu   sync.RWMutex
	data map[string]oracle.Metrics
	err  error
}

// New creates an empty in-memory oracle.
func New() *Oracle {
	return &Oracle{data: make(map[string]oracle.Metrics)}
}

// Set stores metrics for a keyword text.
func (o *Oracle) Set(text string, m oracle.Metrics) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.data[text] = m
}

// Fail makes every subsequent BulkMetrics call return err. Passing nil
// clears the failure.
func (o *Oracle) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

// BulkMetrics implements oracle.Oracle. Texts without stored metrics are
// absent from the result.
func (o *Oracle) BulkMetrics(ctx context.Context, texts []string) (map[string]oracle.Metrics, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.err != nil {
		return nil, o.err
	}

	out := make(map[string]oracle.Metrics, len(texts))
	for _, text := range texts {
		if m, ok := o.data[text]; ok {
			out[text] = m
		}
	}
	return out, nil
}
