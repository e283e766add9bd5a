package db

import (
	"context"

	"github.com/fittrack/backend/internal/model"
)

const postColumns = `p.id, p.user_id, u.username, p.content, p.workout_id, p.created_at, p.updated_at`

func scanPost(row interface{ Scan(dest ...any) error }) (*model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&p.Content,
		&p.WorkoutID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Postgres) CreatePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	query := `
		WITH inserted AS (
			INSERT INTO posts (id, user_id, content, workout_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING *
		)
		SELECT ` + postColumns + `
		FROM inserted p
		JOIN users u ON u.id = p.user_id
	`
	return scanPost(db.Pool.QueryRow(ctx, query, p.ID, p.UserID, p.Content, p.WorkoutID))
}

func (db *Postgres) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	return scanPost(db.Pool.QueryRow(ctx, query, id))
}

// ListPosts returns the feed, newest first.
func (db *Postgres) ListPosts(ctx context.Context, limit, offset int) ([]model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (db *Postgres) UpdatePost(ctx context.Context, id, content string, workoutID *string) (*model.Post, error) {
	query := `
		WITH updated AS (
			UPDATE posts
			SET content = $1, workout_id = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING *
		)
		SELECT ` + postColumns + `
		FROM updated p
		JOIN users u ON u.id = p.user_id
	`
	return scanPost(db.Pool.QueryRow(ctx, query, content, workoutID, id))
}

func (db *Postgres) DeletePost(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}
