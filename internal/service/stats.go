package service

import (
	"context"
	"time"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
)

// StatsService aggregates a user's completed workouts into calendar
// date buckets. Buckets are derived on demand, never persisted.
type StatsService struct {
	workouts WorkoutStore
}

func NewStatsService(workouts WorkoutStore) *StatsService {
	return &StatsService{workouts: workouts}
}

// Stats sums duration, calories and count per calendar date over the
// subject's completed workouts. A missing or unparseable range bound
// means unbounded on that side, not an error. Buckets come out in
// ascending date order with no gap filling; totals are a second pass
// over the buckets and are zero, not absent, when there are none.
//
// The bucket key is the stored date as recorded, with no timezone
// normalization.
func (s *StatsService) Stats(ctx context.Context, userID int64, from, to string) (*model.StatsResponse, error) {
	filter := model.WorkoutFilter{
		From: parseBound(from),
		To:   parseBound(to),
	}

	workouts, err := s.workouts.ListCompletedWorkouts(ctx, userID, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "list completed workouts")
	}

	daily := []model.DailyStat{}
	for _, w := range workouts {
		key := w.Date.Format("2006-01-02")
		if n := len(daily); n > 0 && daily[n-1].Date == key {
			daily[n-1].Duration += w.Duration
			daily[n-1].Calories += w.Calories
			daily[n-1].WorkoutCount++
			continue
		}
		daily = append(daily, model.DailyStat{
			Date:         key,
			Duration:     w.Duration,
			Calories:     w.Calories,
			WorkoutCount: 1,
		})
	}

	var totals model.StatsTotals
	for _, d := range daily {
		totals.TotalDuration += d.Duration
		totals.TotalCalories += d.Calories
		totals.TotalWorkouts += d.WorkoutCount
	}

	return &model.StatsResponse{Daily: daily, Totals: totals}, nil
}

func parseBound(raw string) time.Time {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
