package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
)

// fakeWorkoutStore is an in-memory WorkoutStore.
type fakeWorkoutStore struct {
	workouts map[string]*model.Workout
}

func newFakeWorkoutStore() *fakeWorkoutStore {
	return &fakeWorkoutStore{workouts: map[string]*model.Workout{}}
}

func (f *fakeWorkoutStore) CreateWorkout(_ context.Context, w *model.Workout) (*model.Workout, error) {
	w.CreatedAt = time.Now()
	cp := *w
	f.workouts[w.ID] = &cp
	return w, nil
}

func (f *fakeWorkoutStore) GetWorkoutByID(_ context.Context, id string) (*model.Workout, error) {
	if w, ok := f.workouts[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeWorkoutStore) ListWorkouts(_ context.Context, userID int64, filter model.WorkoutFilter) ([]model.Workout, error) {
	list := []model.Workout{}
	for _, w := range f.workouts {
		if w.UserID != userID {
			continue
		}
		if filter.Status != "" && w.Status != filter.Status {
			continue
		}
		list = append(list, *w)
	}
	return list, nil
}

func (f *fakeWorkoutStore) ListCompletedWorkouts(_ context.Context, userID int64, filter model.WorkoutFilter) ([]model.Workout, error) {
	list := []model.Workout{}
	for _, w := range f.workouts {
		if w.UserID != userID || w.Status != model.StatusCompleted {
			continue
		}
		if !filter.From.IsZero() && w.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && w.Date.After(filter.To) {
			continue
		}
		list = append(list, *w)
	}
	// The real store orders by date ascending.
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

func (f *fakeWorkoutStore) UpdateWorkout(_ context.Context, w *model.Workout) (*model.Workout, error) {
	if _, ok := f.workouts[w.ID]; !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *w
	f.workouts[w.ID] = &cp
	return w, nil
}

func (f *fakeWorkoutStore) DeleteWorkout(_ context.Context, id string) error {
	delete(f.workouts, id)
	return nil
}

func workoutReq(date, status string, duration, calories int) model.WorkoutRequest {
	return model.WorkoutRequest{
		Type:     "running",
		Date:     date,
		Duration: duration,
		Calories: calories,
		Status:   status,
	}
}

func TestWorkoutCreateAndGet(t *testing.T) {
	svc := NewWorkoutService(newFakeWorkoutStore())

	w, err := svc.Create(context.Background(), 1, workoutReq("2024-03-01", model.StatusCompleted, 45, 400))
	require.NoError(t, err)
	require.NotEmpty(t, w.ID)
	assert.Equal(t, int64(1), w.UserID)

	got, err := svc.Get(context.Background(), 1, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
}

func TestWorkoutOwnershipGuard(t *testing.T) {
	svc := NewWorkoutService(newFakeWorkoutStore())

	w, err := svc.Create(context.Background(), 1, workoutReq("2024-03-01", model.StatusPlanned, 30, 200))
	require.NoError(t, err)

	// Owner is allowed.
	_, err = svc.Get(context.Background(), 1, w.ID)
	require.NoError(t, err)

	// Another subject gets Forbidden, not NotFound.
	_, err = svc.Get(context.Background(), 2, w.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	// A nonexistent id is NotFound for everyone.
	_, err = svc.Get(context.Background(), 1, "11111111-2222-4333-8444-555555555555")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	// Mutations run the same guard.
	err = svc.Delete(context.Background(), 2, w.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	_, err = svc.Update(context.Background(), 2, w.ID, workoutReq("2024-03-02", model.StatusCompleted, 30, 200))
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestWorkoutUpdate(t *testing.T) {
	svc := NewWorkoutService(newFakeWorkoutStore())

	w, err := svc.Create(context.Background(), 1, workoutReq("2024-03-01", model.StatusPlanned, 30, 200))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), 1, w.ID, workoutReq("2024-03-01", model.StatusCompleted, 35, 250))
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.Equal(t, 35, updated.Duration)
}

func TestWorkoutDelete(t *testing.T) {
	svc := NewWorkoutService(newFakeWorkoutStore())

	w, err := svc.Create(context.Background(), 1, workoutReq("2024-03-01", model.StatusCancelled, 0, 0))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, w.ID))

	_, err = svc.Get(context.Background(), 1, w.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
