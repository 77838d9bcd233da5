package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(FilterRunsTotal.WithLabelValues(OutcomeCompleted))
	failedBefore := testutil.ToFloat64(FilterRunsTotal.WithLabelValues(OutcomeFailed))

	ObserveRun(OutcomeCompleted, 0.2, 120)
	ObserveRun(OutcomeFailed, 0, 0)

	if got := testutil.ToFloat64(FilterRunsTotal.WithLabelValues(OutcomeCompleted)); got != before+1 {
		t.Fatalf("expected completed to grow by one, got %v -> %v", before, got)
	}
	if got := testutil.ToFloat64(FilterRunsTotal.WithLabelValues(OutcomeFailed)); got != failedBefore+1 {
		t.Fatalf("expected failed to grow by one, got %v -> %v", failedBefore, got)
	}
	if n := testutil.CollectAndCount(FilterRunDuration); n != 1 {
		t.Fatalf("expected one duration series, got %d", n)
	}
}
