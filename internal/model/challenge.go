package model

import "time"

// Challenge is a shared goal users can join. Joining is unique per
// (challenge, user); a second join is a conflict, not a no-op.
type Challenge struct {
	ID          string    `json:"id"`
	CreatorID   int64     `json:"creatorId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ChallengeRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=1000"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02,enddate"`
}

type Participant struct {
	UserID   int64     `json:"userId"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}
