package model

import (
	"encoding/json"
	"time"
)

// Workout statuses. Only StatusCompleted participates in statistics.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

type Workout struct {
	ID        string     `json:"id"`
	UserID    int64      `json:"userId"`
	Type      string     `json:"type"`
	Date      time.Time  `json:"date"`
	Duration  int        `json:"duration"` // minutes
	Calories  int        `json:"calories"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	Tags      StringList `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// StringList accepts either a single JSON string or an array of strings
// and normalizes to a slice, matching what the web client sends for
// multi-select fields.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

type WorkoutRequest struct {
	Type     string     `json:"type" validate:"required,max=50"`
	Date     string     `json:"date" validate:"required,datetime=2006-01-02"`
	Duration int        `json:"duration" validate:"min=0,max=1440"`
	Calories int        `json:"calories" validate:"min=0,max=10000"`
	Status   string     `json:"status" validate:"required,oneof=planned in-progress completed cancelled"`
	Notes    string     `json:"notes" validate:"max=500"`
	Tags     StringList `json:"tags" validate:"dive,max=30"`
}

// WorkoutFilter narrows list queries. Zero time bounds mean unbounded.
type WorkoutFilter struct {
	Status string
	From   time.Time
	To     time.Time
}
