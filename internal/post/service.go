package post

import (
	"context"

	"github.com/ovaphlow/gophertalk/internal/post/entity"
	"github.com/ovaphlow/gophertalk/pkg/validation"
)

// Repository is the post store used by Service.
type Repository interface {
	Create(ctx context.Context, in entity.CreateInput) (*entity.Post, error)
	Get(ctx context.Context, id, viewerID int64) (*entity.FeedRow, error)
	List(ctx context.Context, f entity.Filter) ([]entity.FeedRow, error)
	Delete(ctx context.Context, id, ownerID int64) error
	View(ctx context.Context, postID, userID int64) error
	Like(ctx context.Context, postID, userID int64) error
	Dislike(ctx context.Context, postID, userID int64) error
}

// Service validates input and passes results and errors of the
// repository through unchanged.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in entity.CreateInput) (*entity.Post, error) {
	if err := validation.PostText(in.Text); err != nil {
		return nil, err
	}
	if err := validation.PositiveID("user_id", in.UserID); err != nil {
		return nil, err
	}
	if in.ReplyToID != nil {
		if err := validation.PositiveID("reply_to_id", *in.ReplyToID); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Get(ctx context.Context, id, viewerID int64) (*entity.FeedRow, error) {
	return s.repo.Get(ctx, id, viewerID)
}

// List returns a feed page. An empty search term is treated as absent.
func (s *Service) List(ctx context.Context, f entity.Filter) ([]entity.FeedRow, error) {
	if err := validation.Page(f.Limit, f.Offset); err != nil {
		return nil, err
	}
	if f.OwnerID != nil {
		if err := validation.PositiveID("owner_id", *f.OwnerID); err != nil {
			return nil, err
		}
	}
	if f.ReplyToID != nil {
		if err := validation.PositiveID("reply_to_id", *f.ReplyToID); err != nil {
			return nil, err
		}
	}
	if f.Search != nil && *f.Search == "" {
		f.Search = nil
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	return s.repo.Delete(ctx, id, ownerID)
}

func (s *Service) View(ctx context.Context, postID, viewerID int64) error {
	return s.repo.View(ctx, postID, viewerID)
}

func (s *Service) Like(ctx context.Context, postID, viewerID int64) error {
	return s.repo.Like(ctx, postID, viewerID)
}

func (s *Service) Dislike(ctx context.Context, postID, viewerID int64) error {
	return s.repo.Dislike(ctx, postID, viewerID)
}
