// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful products select",
			operation: "select",
			table:     "products",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful users insert",
			operation: "insert",
			table:     "users",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query",
			operation: "select",
			table:     "users",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "fast query under 1ms",
			operation: "select",
			table:     "products",
			duration:  500 * time.Microsecond,
			err:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the query - should not panic
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
		})
	}
}

func TestRecordDBQueryErrorCounter(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "error_counter_table"))

	RecordDBQuery("select", "error_counter_table", time.Millisecond, nil)
	RecordDBQuery("select", "error_counter_table", time.Millisecond, errors.New("io error"))

	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "error_counter_table"))
	if after-before != 1 {
		t.Errorf("error counter advanced by %v, want 1 (only the failed query counts)", after-before)
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful recommendation",
			method:     "GET",
			endpoint:   "/recommend/{productID}",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "unknown product",
			method:     "GET",
			endpoint:   "/recommend/{productID}",
			statusCode: "400",
			duration:   5 * time.Millisecond,
		},
		{
			name:       "successful login",
			method:     "POST",
			endpoint:   "/api/login",
			statusCode: "200",
			duration:   150 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "GET",
			endpoint:   "/update-and-train-product-recommend",
			statusCode: "429",
			duration:   time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the request - should not panic
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name      string
		duration  time.Duration
		errorType string
	}{
		{
			name:     "served query",
			duration: 2 * time.Millisecond,
		},
		{
			name:      "unknown product error",
			duration:  time.Millisecond,
			errorType: "unknown_product",
		},
		{
			name:      "model unavailable error",
			duration:  time.Millisecond,
			errorType: "model_unavailable",
		},
		{
			name:      "internal error",
			duration:  time.Millisecond,
			errorType: "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordRecommendation(tt.duration, tt.errorType)
		})
	}
}

func TestRecordRecommendationServedCounter(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsServed)

	RecordRecommendation(time.Millisecond, "")
	RecordRecommendation(time.Millisecond, "internal")

	after := testutil.ToFloat64(RecommendationsServed)
	if after-before != 1 {
		t.Errorf("served counter advanced by %v, want 1 (failures do not count as served)", after-before)
	}
}

func TestRecordTraining(t *testing.T) {
	tests := []struct {
		name         string
		trigger      string
		duration     time.Duration
		productCount int
		err          error
	}{
		{
			name:         "startup success",
			trigger:      "startup",
			duration:     time.Second,
			productCount: 100,
		},
		{
			name:         "http trigger success",
			trigger:      "http",
			duration:     5 * time.Second,
			productCount: 2500,
		},
		{
			name:     "periodic failure",
			trigger:  "periodic",
			duration: 100 * time.Millisecond,
			err:      errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordTraining(tt.trigger, tt.duration, tt.productCount, tt.err)
		})
	}
}

func TestRecordTrainingGauges(t *testing.T) {
	RecordTraining("http", time.Second, 42, nil)
	if got := testutil.ToFloat64(ModelProductCount); got != 42 {
		t.Errorf("ModelProductCount = %v, want 42", got)
	}

	// A failed run must not touch the model gauges.
	RecordTraining("http", time.Second, 0, errors.New("fetch failed"))
	if got := testutil.ToFloat64(ModelProductCount); got != 42 {
		t.Errorf("ModelProductCount = %v after failed run, want 42", got)
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates realistic request lifecycle
func TestTrackActiveRequestLifecycle(t *testing.T) {
	// Simulate multiple concurrent requests
	for i := 0; i < 10; i++ {
		TrackActiveRequest(true) // Request starts
	}

	// Some requests complete
	for i := 0; i < 5; i++ {
		TrackActiveRequest(false) // Request ends
	}

	// More requests start
	for i := 0; i < 3; i++ {
		TrackActiveRequest(true)
	}

	// All remaining complete
	for i := 0; i < 8; i++ {
		TrackActiveRequest(false)
	}
}

func TestRecordAppInfo(t *testing.T) {
	// Should not panic and should be idempotent
	RecordAppInfo("test")
	RecordAppInfo("test")
}

func TestTrackUptime(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		TrackUptime(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for testutil.ToFloat64(AppUptime) == 0 {
		select {
		case <-deadline:
			t.Fatal("uptime gauge never updated")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("TrackUptime did not return after cancellation")
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 50
	operationsPerGoroutine := 20

	// Test concurrent DB query recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordDBQuery("select", "products", time.Duration(j)*time.Millisecond, nil)
			}
		}()
	}

	// Test concurrent recommendation recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordRecommendation(time.Millisecond, "")
			}
		}()
	}

	// Test concurrent active request tracking
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}

	wg.Wait()
}

// TestMetricsRegistration tests that all metrics can be collected without panic
func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		RecommendationsServed,
		RecommendationErrors,
		RecommendationDuration,
		TrainingRuns,
		TrainingDuration,
		ModelProductCount,
		ModelLastTrained,
		DBQueryDuration,
		DBQueryErrors,
		AccountRegistrations,
		AccountLogins,
		AppInfo,
		AppUptime,
	}

	// Verify each metric can be described
	for _, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	// Record some metrics
	RecordDBQuery("select", "products", time.Millisecond, nil)
	RecordAPIRequest("GET", "/health", "200", time.Millisecond)

	// Verify we can lint the metrics (checks for consistency issues)
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("select", "products", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordRecommendation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordRecommendation(2*time.Millisecond, "")
	}
}
