package wcametrics

import (
	"context"
	"time"
)

// NoopMetrics discards everything.
type NoopMetrics struct{}

func NewNoop() Metrics {
	return NoopMetrics{}
}

func (NoopMetrics) RecordRequest(context.Context, string, int, time.Duration) {}

func (NoopMetrics) RecordTransportError(context.Context, string) {}

func (NoopMetrics) RecordRateLimitWait(context.Context, time.Duration) {}

func (NoopMetrics) RecordTokenGrant(context.Context, string, bool) {}

func (NoopMetrics) RecordOperationAttempt(context.Context, string, string) {}

func (NoopMetrics) RecordOperationSuccess(context.Context, string, string) {}

func (NoopMetrics) RecordOperationFailure(context.Context, string, string) {}

func (NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
