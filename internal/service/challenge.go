package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/db"
	"github.com/fittrack/backend/internal/model"
)

type ChallengeStore interface {
	CreateChallenge(ctx context.Context, c *model.Challenge) (*model.Challenge, error)
	GetChallengeByID(ctx context.Context, id string) (*model.Challenge, error)
	ListChallenges(ctx context.Context) ([]model.Challenge, error)
	AddParticipant(ctx context.Context, challengeID string, userID int64) error
	ListParticipants(ctx context.Context, challengeID string) ([]model.Participant, error)
}

type ChallengeService struct {
	challenges ChallengeStore
}

func NewChallengeService(challenges ChallengeStore) *ChallengeService {
	return &ChallengeService{challenges: challenges}
}

func (s *ChallengeService) Create(ctx context.Context, userID int64, req model.ChallengeRequest) (*model.Challenge, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperr.New(apperr.BadRequest, "invalid start date")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperr.New(apperr.BadRequest, "invalid end date")
	}

	c := &model.Challenge{
		ID:          uuid.NewString(),
		CreatorID:   userID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	}
	created, err := s.challenges.CreateChallenge(ctx, c)
	if err != nil {
		return nil, apperr.Wrap(err, "create challenge")
	}

	// The creator joins their own challenge; a failure here would leave
	// a challenge without its creator, so it is not best-effort.
	if err := s.challenges.AddParticipant(ctx, created.ID, userID); err != nil {
		return nil, apperr.Wrap(err, "join own challenge")
	}
	return created, nil
}

func (s *ChallengeService) Get(ctx context.Context, id string) (*model.Challenge, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.NotFound, "challenge not found")
	}
	c, err := s.challenges.GetChallengeByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.NotFound, "challenge not found")
		}
		return nil, apperr.Wrap(err, "load challenge")
	}
	return c, nil
}

func (s *ChallengeService) List(ctx context.Context) ([]model.Challenge, error) {
	list, err := s.challenges.ListChallenges(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "list challenges")
	}
	return list, nil
}

// Join adds the subject to a challenge. Joining twice is a conflict,
// never a silent no-op: the second attempt surfaces as such instead of
// being recorded again.
func (s *ChallengeService) Join(ctx context.Context, userID int64, challengeID string) error {
	if _, err := s.Get(ctx, challengeID); err != nil {
		return err
	}
	if err := s.challenges.AddParticipant(ctx, challengeID, userID); err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.New(apperr.Conflict, "already joined this challenge")
		}
		return apperr.Wrap(err, "join challenge")
	}
	return nil
}

func (s *ChallengeService) Participants(ctx context.Context, challengeID string) ([]model.Participant, error) {
	if _, err := s.Get(ctx, challengeID); err != nil {
		return nil, err
	}
	list, err := s.challenges.ListParticipants(ctx, challengeID)
	if err != nil {
		return nil, apperr.Wrap(err, "list participants")
	}
	return list, nil
}
