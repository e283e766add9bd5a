package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/db"
	"github.com/fittrack/backend/internal/model"
)

// WorkoutStore is the activity store collaborator.
// ListCompletedWorkouts must return records in ascending date order;
// the statistics engine buckets adjacent records.
type WorkoutStore interface {
	CreateWorkout(ctx context.Context, w *model.Workout) (*model.Workout, error)
	GetWorkoutByID(ctx context.Context, id string) (*model.Workout, error)
	ListWorkouts(ctx context.Context, userID int64, filter model.WorkoutFilter) ([]model.Workout, error)
	ListCompletedWorkouts(ctx context.Context, userID int64, filter model.WorkoutFilter) ([]model.Workout, error)
	UpdateWorkout(ctx context.Context, w *model.Workout) (*model.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
}

type WorkoutService struct {
	workouts WorkoutStore
}

func NewWorkoutService(workouts WorkoutStore) *WorkoutService {
	return &WorkoutService{workouts: workouts}
}

func (s *WorkoutService) Create(ctx context.Context, userID int64, req model.WorkoutRequest) (*model.Workout, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperr.New(apperr.BadRequest, "invalid date")
	}

	w := &model.Workout{
		ID:       uuid.NewString(),
		UserID:   userID,
		Type:     req.Type,
		Date:     date,
		Duration: req.Duration,
		Calories: req.Calories,
		Status:   req.Status,
		Notes:    req.Notes,
		Tags:     req.Tags,
	}
	created, err := s.workouts.CreateWorkout(ctx, w)
	if err != nil {
		return nil, apperr.Wrap(err, "create workout")
	}
	return created, nil
}

func (s *WorkoutService) Get(ctx context.Context, userID int64, id string) (*model.Workout, error) {
	return s.authorize(ctx, userID, id)
}

func (s *WorkoutService) List(ctx context.Context, userID int64, filter model.WorkoutFilter) ([]model.Workout, error) {
	list, err := s.workouts.ListWorkouts(ctx, userID, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "list workouts")
	}
	return list, nil
}

func (s *WorkoutService) Update(ctx context.Context, userID int64, id string, req model.WorkoutRequest) (*model.Workout, error) {
	w, err := s.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperr.New(apperr.BadRequest, "invalid date")
	}

	w.Type = req.Type
	w.Date = date
	w.Duration = req.Duration
	w.Calories = req.Calories
	w.Status = req.Status
	w.Notes = req.Notes
	w.Tags = req.Tags

	updated, err := s.workouts.UpdateWorkout(ctx, w)
	if err != nil {
		return nil, apperr.Wrap(err, "update workout")
	}
	return updated, nil
}

func (s *WorkoutService) Delete(ctx context.Context, userID int64, id string) error {
	if _, err := s.authorize(ctx, userID, id); err != nil {
		return err
	}
	if err := s.workouts.DeleteWorkout(ctx, id); err != nil {
		return apperr.Wrap(err, "delete workout")
	}
	return nil
}

// authorize is the ownership guard: existence is resolved first, then
// the owner is compared to the subject. "not found" and "found but not
// yours" stay distinct failure kinds.
func (s *WorkoutService) authorize(ctx context.Context, userID int64, id string) (*model.Workout, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.NotFound, "workout not found")
	}
	w, err := s.workouts.GetWorkoutByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.NotFound, "workout not found")
		}
		return nil, apperr.Wrap(err, "load workout")
	}
	if w.UserID != userID {
		return nil, apperr.New(apperr.Forbidden, "not your workout")
	}
	return w, nil
}
