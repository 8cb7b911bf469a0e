package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	metrics := NewMetrics()

	metrics.RecordRequest("/requests", "POST", 201, 5*time.Millisecond)
	metrics.RecordRequest("/requests", "POST", 201, 7*time.Millisecond)
	metrics.RecordError("/requests", "POST", "VALIDATION_FAILED")

	requests, errors := metrics.Snapshot()
	assert.Equal(t, int64(2), requests["/requests|POST|201"])
	assert.Equal(t, int64(1), errors["/requests|POST|VALIDATION_FAILED"])
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.RecordRequest("/requests", "GET", 200, time.Millisecond)
	metrics.RecordError("/requests", "GET", "NOT_FOUND")
}
