package processor

import (
	"sync"
	"sync/atomic"
	"time"
)

type Stats struct {
	Processed     int64
	Failed        int64
	RatePerSecond float64
	AvgDuration   time.Duration
	Uptime        time.Duration
	ByType        map[string]int64
}

// ServiceMetrics keeps in-process counters for the periodic stats log line.
type ServiceMetrics struct {
	totalProcessed  int64
	totalFailed     int64
	totalDurationNs int64
	startedAt       time.Time

	mu     sync.Mutex
	byType map[string]int64
}

func NewServiceMetrics() *ServiceMetrics {
	return &ServiceMetrics{
		startedAt: time.Now(),
		byType:    make(map[string]int64),
	}
}

func (m *ServiceMetrics) RecordSuccess(kind string, duration time.Duration) {
	atomic.AddInt64(&m.totalProcessed, 1)
	atomic.AddInt64(&m.totalDurationNs, int64(duration))

	m.mu.Lock()
	m.byType[kind]++
	m.mu.Unlock()
}

func (m *ServiceMetrics) RecordFailure() {
	atomic.AddInt64(&m.totalFailed, 1)
}

func (m *ServiceMetrics) GetStats() Stats {
	processed := atomic.LoadInt64(&m.totalProcessed)
	elapsed := time.Since(m.startedAt)

	stats := Stats{
		Processed: processed,
		Failed:    atomic.LoadInt64(&m.totalFailed),
		Uptime:    elapsed,
		ByType:    make(map[string]int64),
	}
	if elapsed > 0 {
		stats.RatePerSecond = float64(processed) / elapsed.Seconds()
	}
	if processed > 0 {
		stats.AvgDuration = time.Duration(atomic.LoadInt64(&m.totalDurationNs) / processed)
	}

	m.mu.Lock()
	for k, v := range m.byType {
		stats.ByType[k] = v
	}
	m.mu.Unlock()
	return stats
}
