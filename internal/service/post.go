package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/db"
	"github.com/fittrack/backend/internal/model"
)

type PostStore interface {
	CreatePost(ctx context.Context, p *model.Post) (*model.Post, error)
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]model.Post, error)
	UpdatePost(ctx context.Context, id, content string, workoutID *string) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
}

type PostService struct {
	posts    PostStore
	workouts WorkoutStore
}

func NewPostService(posts PostStore, workouts WorkoutStore) *PostService {
	return &PostService{posts: posts, workouts: workouts}
}

func (s *PostService) Create(ctx context.Context, userID int64, req model.PostRequest) (*model.Post, error) {
	if err := s.checkWorkoutRef(ctx, userID, req.WorkoutID); err != nil {
		return nil, err
	}

	p := &model.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   req.Content,
		WorkoutID: req.WorkoutID,
	}
	created, err := s.posts.CreatePost(ctx, p)
	if err != nil {
		return nil, apperr.Wrap(err, "create post")
	}
	return created, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}
	p, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.NotFound, "post not found")
		}
		return nil, apperr.Wrap(err, "load post")
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context, limit, offset int) ([]model.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.posts.ListPosts(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(err, "list posts")
	}
	return list, nil
}

// Update replaces the content and the workout reference; a request
// without workoutId clears the reference.
func (s *PostService) Update(ctx context.Context, userID int64, id string, req model.PostRequest) (*model.Post, error) {
	if _, err := s.authorize(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.checkWorkoutRef(ctx, userID, req.WorkoutID); err != nil {
		return nil, err
	}
	updated, err := s.posts.UpdatePost(ctx, id, req.Content, req.WorkoutID)
	if err != nil {
		return nil, apperr.Wrap(err, "update post")
	}
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, userID int64, id string) error {
	if _, err := s.authorize(ctx, userID, id); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return apperr.Wrap(err, "delete post")
	}
	return nil
}

// checkWorkoutRef verifies a referenced workout exists and belongs to
// the author. A nil reference is fine.
func (s *PostService) checkWorkoutRef(ctx context.Context, userID int64, workoutID *string) error {
	if workoutID == nil {
		return nil
	}
	w, err := s.workouts.GetWorkoutByID(ctx, *workoutID)
	if err != nil {
		if db.IsNoRows(err) {
			return apperr.New(apperr.NotFound, "workout not found")
		}
		return apperr.Wrap(err, "load workout")
	}
	if w.UserID != userID {
		return apperr.New(apperr.Forbidden, "not your workout")
	}
	return nil
}

// Same guard ordering as workouts: existence first, then ownership.
func (s *PostService) authorize(ctx context.Context, userID int64, id string) (*model.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, apperr.New(apperr.Forbidden, "not your post")
	}
	return p, nil
}
