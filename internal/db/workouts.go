package db

import (
	"context"
	"strconv"

	"github.com/fittrack/backend/internal/model"
)

const workoutColumns = `id, user_id, type, date, duration, calories, status, notes, tags, created_at, updated_at`

func scanWorkout(row interface{ Scan(dest ...any) error }) (*model.Workout, error) {
	var w model.Workout
	var tags []string
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Type,
		&w.Date,
		&w.Duration,
		&w.Calories,
		&w.Status,
		&w.Notes,
		&tags,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Tags = model.StringList(tags)
	return &w, nil
}

func (db *Postgres) CreateWorkout(ctx context.Context, w *model.Workout) (*model.Workout, error) {
	query := `
		INSERT INTO workouts (id, user_id, type, date, duration, calories, status, notes, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + workoutColumns
	return scanWorkout(db.Pool.QueryRow(ctx, query,
		w.ID, w.UserID, w.Type, w.Date, w.Duration, w.Calories, w.Status, w.Notes, []string(w.Tags)))
}

// GetWorkoutByID loads a workout regardless of owner. The service layer
// compares the owner to the acting subject; existence and ownership are
// deliberately separate checks.
func (db *Postgres) GetWorkoutByID(ctx context.Context, id string) (*model.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE id = $1`
	return scanWorkout(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) ListWorkouts(ctx context.Context, userID int64, filter model.WorkoutFilter) ([]model.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id = $1`
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $2`
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND date >= $` + itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND date <= $` + itoa(len(args))
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *w)
	}
	return list, rows.Err()
}

// ListCompletedWorkouts feeds the statistics engine: only completed
// records for the owner, ascending by date. Zero bounds are unbounded.
func (db *Postgres) ListCompletedWorkouts(ctx context.Context, userID int64, filter model.WorkoutFilter) ([]model.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id = $1 AND status = $2`
	args := []any{userID, model.StatusCompleted}

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND date >= $` + itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND date <= $` + itoa(len(args))
	}
	query += ` ORDER BY date ASC, created_at ASC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *w)
	}
	return list, rows.Err()
}

func (db *Postgres) UpdateWorkout(ctx context.Context, w *model.Workout) (*model.Workout, error) {
	query := `
		UPDATE workouts
		SET type = $1, date = $2, duration = $3, calories = $4, status = $5, notes = $6, tags = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING ` + workoutColumns
	return scanWorkout(db.Pool.QueryRow(ctx, query,
		w.Type, w.Date, w.Duration, w.Calories, w.Status, w.Notes, []string(w.Tags), w.ID))
}

func (db *Postgres) DeleteWorkout(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	return err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
