package registry

import (
	"context"

	"github.com/skillcoder/coreportal/internal/infra/metrics"
)

const reporterBuffer = 16

// ReportMetrics keeps the service and pod gauges in sync with the store until ctx is done.
func (s *Store) ReportMetrics(ctx context.Context) {
	events, cancel := s.Subscribe(reporterBuffer)
	defer cancel()

	s.exportMetrics()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}

			s.exportMetrics()
		}
	}
}

func (s *Store) exportMetrics() {
	snap := s.Snapshot()
	counts := make(map[metrics.ServiceKey]int)
	pods := 0

	for i := range snap.Services {
		svc := &snap.Services[i]
		counts[metrics.ServiceKey{Namespace: svc.Namespace, Status: string(svc.Status)}]++
		pods += len(svc.Pods)
	}

	metrics.SetServiceCounts(counts, pods)
}
