package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestCapLessonProgressHonestReport(t *testing.T) {
	// Server and client agree on elapsed time; request within the allowance.
	result := capLessonProgress(0, 15, intPtr(20), 20, 200)

	assert.Equal(t, 16, result.AllowedDeltaPct)
	assert.Equal(t, 15, result.CappedView)
	assert.Equal(t, 20, result.EffectiveDeltaSec)
}

func TestCapLessonProgressInflatedClientDelta(t *testing.T) {
	// Client claims 100s elapsed but the server only saw 10s. The skew
	// grace brings the effective delta to 13s.
	result := capLessonProgress(0, 50, intPtr(10), 100, 200)

	assert.Equal(t, 13, result.EffectiveDeltaSec)
	assert.Equal(t, 11, result.AllowedDeltaPct)
	assert.Equal(t, 11, result.CappedView)
}

func TestCapLessonProgressNeverRegresses(t *testing.T) {
	result := capLessonProgress(40, 30, intPtr(60), 60, 200)
	assert.Equal(t, 40, result.CappedView)

	// Even with zero elapsed time
	result = capLessonProgress(40, 30, intPtr(0), 0, 200)
	assert.Equal(t, 40, result.CappedView)
}

func TestCapLessonProgressZeroDelta(t *testing.T) {
	result := capLessonProgress(25, 80, intPtr(0), 0, 200)

	assert.Equal(t, 0, result.EffectiveDeltaSec)
	assert.Equal(t, 0, result.AllowedDeltaPct)
	assert.Equal(t, 25, result.CappedView)
}

func TestCapLessonProgressNegativeDelta(t *testing.T) {
	result := capLessonProgress(25, 80, intPtr(-10), -5, 200)

	assert.Equal(t, 0, result.EffectiveDeltaSec)
	assert.Equal(t, 25, result.CappedView)
}

func TestCapLessonProgressNoServerDelta(t *testing.T) {
	// First report: no prior record, client delta taken at face value.
	result := capLessonProgress(0, 10, nil, 20, 200)

	assert.Equal(t, 20, result.EffectiveDeltaSec)
	assert.Equal(t, 16, result.AllowedDeltaPct)
	assert.Equal(t, 10, result.CappedView)
}

func TestCapLessonProgressUnknownDurationFallback(t *testing.T) {
	// 5% per 30 effective seconds when the content length is unknown
	result := capLessonProgress(0, 50, intPtr(60), 60, 0)

	assert.Equal(t, 10, result.AllowedDeltaPct)
	assert.Equal(t, 10, result.CappedView)
}

func TestCapLessonProgressMinimumAdvance(t *testing.T) {
	// Any positive elapsed time grants at least 1%
	result := capLessonProgress(0, 5, intPtr(1), 1, 86400)

	assert.Equal(t, 1, result.AllowedDeltaPct)
	assert.Equal(t, 1, result.CappedView)
}

func TestCapLessonProgressCeiling(t *testing.T) {
	result := capLessonProgress(98, 100, intPtr(3600), 3600, 200)
	assert.Equal(t, 100, result.CappedView)

	// Requested above 100 clamps to 100
	result = capLessonProgress(98, 150, intPtr(3600), 3600, 200)
	assert.Equal(t, 100, result.CappedView)
}

func TestCapLessonProgressOutOfRangeInputs(t *testing.T) {
	result := capLessonProgress(-20, -5, intPtr(30), 30, 200)
	assert.Equal(t, 0, result.CappedView)

	result = capLessonProgress(120, 50, intPtr(30), 30, 200)
	assert.Equal(t, 100, result.CappedView)
}

func TestCapLessonProgressMonotonicSequence(t *testing.T) {
	// A stream of reports can only move forward
	prev := 0
	for _, req := range []int{10, 5, 30, 25, 101} {
		result := capLessonProgress(prev, req, intPtr(120), 120, 200)
		assert.GreaterOrEqual(t, result.CappedView, prev)
		assert.LessOrEqual(t, result.CappedView, 100)
		prev = result.CappedView
	}
}

func TestClampPct(t *testing.T) {
	assert.Equal(t, 0, clampPct(-1))
	assert.Equal(t, 0, clampPct(0))
	assert.Equal(t, 55, clampPct(55))
	assert.Equal(t, 100, clampPct(100))
	assert.Equal(t, 100, clampPct(101))
}
