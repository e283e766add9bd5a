package model

import "time"

// Post is a social feed entry, optionally referencing one of the
// author's workouts.
type Post struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	WorkoutID *string   `json:"workoutId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PostRequest struct {
	Content   string  `json:"content" validate:"required,min=1,max=2000"`
	WorkoutID *string `json:"workoutId" validate:"omitempty,uuid4"`
}
