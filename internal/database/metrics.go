package database

import (
	"database/sql"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks query counters for the manager. Counters are atomics so
// recording never takes a lock on the query path.
type Metrics struct {
	db     *sql.DB
	logger *zap.Logger

	queryCount     int64
	queryDuration  int64 // nanoseconds
	errorCount     int64
	slowQueryCount int64

	slowQueryThreshold time.Duration
}

// MetricsSnapshot is a point-in-time view of query metrics.
type MetricsSnapshot struct {
	QueryCount       int64         `json:"query_count"`
	ErrorCount       int64         `json:"error_count"`
	SlowQueryCount   int64         `json:"slow_query_count"`
	AvgQueryDuration time.Duration `json:"avg_query_duration"`
	DBStats          sql.DBStats   `json:"db_stats"`
	Timestamp        time.Time     `json:"timestamp"`
}

// NewMetrics creates a metrics collector.
func NewMetrics(db *sql.DB, slowQueryThreshold time.Duration, logger *zap.Logger) *Metrics {
	if slowQueryThreshold <= 0 {
		slowQueryThreshold = 100 * time.Millisecond
	}
	return &Metrics{
		db:                 db,
		logger:             logger,
		slowQueryThreshold: slowQueryThreshold,
	}
}

// RecordQuery records one query execution.
func (m *Metrics) RecordQuery(_ string, duration time.Duration, err error) {
	atomic.AddInt64(&m.queryCount, 1)
	atomic.AddInt64(&m.queryDuration, int64(duration))
	if err != nil {
		atomic.AddInt64(&m.errorCount, 1)
	}
	if duration > m.slowQueryThreshold {
		atomic.AddInt64(&m.slowQueryCount, 1)
	}
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	queryCount := atomic.LoadInt64(&m.queryCount)
	totalDuration := atomic.LoadInt64(&m.queryDuration)

	var avgDuration time.Duration
	if queryCount > 0 {
		avgDuration = time.Duration(totalDuration / queryCount)
	}

	return &MetricsSnapshot{
		QueryCount:       queryCount,
		ErrorCount:       atomic.LoadInt64(&m.errorCount),
		SlowQueryCount:   atomic.LoadInt64(&m.slowQueryCount),
		AvgQueryDuration: avgDuration,
		DBStats:          m.db.Stats(),
		Timestamp:        time.Now(),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.queryCount, 0)
	atomic.StoreInt64(&m.queryDuration, 0)
	atomic.StoreInt64(&m.errorCount, 0)
	atomic.StoreInt64(&m.slowQueryCount, 0)
}
