package scheduler

import (
	"context"

	"trust_insight/pkg/circle"
	"trust_insight/pkg/provider"
)

// CircleRefresher is the slice of the trusted-circle service the
// warmer needs.
type CircleRefresher interface {
	RefreshTrustedCircle(ctx context.Context, userAddress string) ([]circle.TrustedContact, error)
}

// TrackUser schedules periodic trusted-circle refreshes for a user so
// their cache entry stays warm. Tracking an already-tracked user is a
// no-op.
func (s *Scheduler) TrackUser(userAddress string, refresher CircleRefresher) error {
	id := "warm:" + provider.NormalizeAddress(userAddress)

	s.mu.RLock()
	_, exists := s.tasks[id]
	s.mu.RUnlock()
	if exists {
		return nil
	}

	return s.ScheduleTask(&Task{
		ID:       id,
		Name:     "trusted circle warm-up",
		Schedule: s.config.Schedule,
		ExecutionFn: func(ctx context.Context) error {
			_, err := refresher.RefreshTrustedCircle(ctx, userAddress)
			return err
		},
	})
}

// UntrackUser stops refreshing a user's trusted circle.
func (s *Scheduler) UntrackUser(userAddress string) error {
	return s.RemoveTask("warm:" + provider.NormalizeAddress(userAddress))
}
