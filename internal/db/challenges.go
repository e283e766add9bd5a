package db

import (
	"context"

	"github.com/fittrack/backend/internal/model"
)

const challengeColumns = `id, creator_id, name, description, start_date, end_date, created_at`

func scanChallenge(row interface{ Scan(dest ...any) error }) (*model.Challenge, error) {
	var c model.Challenge
	err := row.Scan(
		&c.ID,
		&c.CreatorID,
		&c.Name,
		&c.Description,
		&c.StartDate,
		&c.EndDate,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *Postgres) CreateChallenge(ctx context.Context, c *model.Challenge) (*model.Challenge, error) {
	query := `
		INSERT INTO challenges (id, creator_id, name, description, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + challengeColumns
	return scanChallenge(db.Pool.QueryRow(ctx, query,
		c.ID, c.CreatorID, c.Name, c.Description, c.StartDate, c.EndDate))
}

func (db *Postgres) GetChallengeByID(ctx context.Context, id string) (*model.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	return scanChallenge(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) ListChallenges(ctx context.Context) ([]model.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges ORDER BY start_date DESC`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// AddParticipant records a join. The composite primary key makes a
// second join for the same (challenge, user) a unique violation; the
// service maps that to a conflict.
func (db *Postgres) AddParticipant(ctx context.Context, challengeID string, userID int64) error {
	query := `
		INSERT INTO challenge_participants (challenge_id, user_id, joined_at)
		VALUES ($1, $2, NOW())
	`
	_, err := db.Pool.Exec(ctx, query, challengeID, userID)
	return err
}

func (db *Postgres) ListParticipants(ctx context.Context, challengeID string) ([]model.Participant, error) {
	query := `
		SELECT cp.user_id, u.username, cp.joined_at
		FROM challenge_participants cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.challenge_id = $1
		ORDER BY cp.joined_at ASC
	`
	rows, err := db.Pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Participant{}
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.UserID, &p.Username, &p.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
