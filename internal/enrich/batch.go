package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BatchResult reports the outcome of one lead in a batch run.
type BatchResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Batch enriches leads sequentially. Each item's failure is recorded and
// does not abort the rest. When enrich.batch_per_minute is set, items are
// paced by a rate limiter; otherwise they run back to back.
func (e *Enricher) Batch(ctx context.Context, ids []string) []BatchResult {
	var limiter *rate.Limiter
	if e.cfg.BatchPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(e.cfg.BatchPerMinute)), 1)
	}

	results := make([]BatchResult, 0, len(ids))
	for _, id := range ids {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				results = append(results, BatchResult{ID: id, Error: err.Error()})
				continue
			}
		}

		if _, err := e.Enrich(ctx, id); err != nil {
			zap.L().Warn("enrich: batch item failed", zap.String("lead_id", id), zap.Error(err))
			results = append(results, BatchResult{ID: id, Error: err.Error()})
			continue
		}
		results = append(results, BatchResult{ID: id, Success: true})
	}
	return results
}
