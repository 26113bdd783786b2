package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/ovaphlow/gophertalk/internal/auth"
	"github.com/ovaphlow/gophertalk/internal/user/entity"
	"github.com/ovaphlow/gophertalk/pkg/validation"
)

// Repository is the user store used by Service.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
	Update(ctx context.Context, id int64, p entity.Patch) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}

// UpdateInput is a partial profile update. Password and PasswordConfirm
// are only used to derive a new hash.
type UpdateInput struct {
	UserName        *string `json:"user_name"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"password_confirm"`
}

type Service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

func NewService(repo Repository, hasher auth.PasswordHasher) *Service {
	if hasher == nil {
		hasher = auth.BcryptHasher{}
	}
	return &Service{repo: repo, hasher: hasher}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	if err := validation.Page(limit, offset); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update validates the supplied fields and replaces a new password with
// its hash before writing.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*entity.User, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}
	patch := entity.Patch{UserName: in.UserName, FirstName: in.FirstName, LastName: in.LastName}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}
	return s.repo.Update(ctx, id, patch)
}

func validateUpdate(in UpdateInput) error {
	var errs []error
	if in.UserName != nil {
		errs = append(errs, validation.Username(*in.UserName))
	}
	errs = append(errs,
		validation.Name("first_name", in.FirstName),
		validation.Name("last_name", in.LastName),
	)
	if in.Password != nil || in.PasswordConfirm != nil {
		password, confirm := deref(in.Password), deref(in.PasswordConfirm)
		errs = append(errs,
			validation.Password(password),
			validation.PasswordConfirm(password, confirm),
		)
	}
	return errors.Join(errs...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
