package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounts(t *testing.T) {
	m := NewMetrics()
	ctx := context.Background()

	m.RecordAnalysis(ctx, OutcomeSuccess, "", time.Second)
	m.RecordAnalysis(ctx, OutcomeSuccess, "", time.Second)
	m.RecordAnalysis(ctx, OutcomeFailure, StageFaceDetect, time.Millisecond)
	m.RecordAnalysis(ctx, OutcomeCached, "", 0)
	m.RecordShape(ctx, "Pear")

	assert.Equal(t, map[string]int64{
		"analyses{outcome=success}":                   2,
		"analyses{outcome=failure,stage=face_detect}": 1,
		"analyses{outcome=cached}":                    1,
		"body_shapes{shape=Pear}":                     1,
	}, m.Snapshot())

	assert.Equal(t, []string{
		"analyses{outcome=cached}",
		"analyses{outcome=failure,stage=face_detect}",
		"analyses{outcome=success}",
		"body_shapes{shape=Pear}",
	}, m.Keys())
}

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordShape(context.Background(), "Average")
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), m.Snapshot()["body_shapes{shape=Average}"])
}
