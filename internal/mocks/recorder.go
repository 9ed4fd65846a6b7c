package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain/gamify"
	"github.com/lingueefy/review-engine/internal/service/progress"
)

// MockProgressRecorder implements review.ProgressRecorder with
// call-tracking and optional overrides.
type MockProgressRecorder struct {
	mu sync.Mutex

	// Overrides; when nil the default values below are returned.
	RecordActivityFn func(ctx context.Context, learnerID uuid.UUID, activity progress.Activity) (*progress.ActivityResult, error)
	AwardXpFn        func(ctx context.Context, learnerID uuid.UUID, reason gamify.Reason, referenceType string, referenceID uuid.UUID) (*progress.AwardResult, error)

	ActivityResult *progress.ActivityResult
	AwardResult    *progress.AwardResult
	Err            error

	// Recorded calls.
	Activities []progress.Activity
	Reasons    []gamify.Reason
}

// RecordActivity implements review.ProgressRecorder.
func (m *MockProgressRecorder) RecordActivity(ctx context.Context, learnerID uuid.UUID, activity progress.Activity) (*progress.ActivityResult, error) {
	m.mu.Lock()
	m.Activities = append(m.Activities, activity)
	m.mu.Unlock()

	if m.RecordActivityFn != nil {
		return m.RecordActivityFn(ctx, learnerID, activity)
	}
	return m.ActivityResult, m.Err
}

// AwardXp implements review.ProgressRecorder.
func (m *MockProgressRecorder) AwardXp(ctx context.Context, learnerID uuid.UUID, reason gamify.Reason, referenceType string, referenceID uuid.UUID) (*progress.AwardResult, error) {
	m.mu.Lock()
	m.Reasons = append(m.Reasons, reason)
	m.mu.Unlock()

	if m.AwardXpFn != nil {
		return m.AwardXpFn(ctx, learnerID, reason, referenceType, referenceID)
	}
	return m.AwardResult, m.Err
}
