package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ovaphlow/gophertalk/internal/user/entity"
	"github.com/ovaphlow/gophertalk/pkg/apperr"
	"github.com/ovaphlow/gophertalk/pkg/validation"
)

// UserStore is the part of the user repository the auth flows need.
type UserStore interface {
	GetByUsername(ctx context.Context, name string) (*entity.AuthView, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	Create(ctx context.Context, u entity.NewUser) (*entity.User, error)
}

// Service implements login, registration and access token refresh.
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens *TokenManager
}

func NewService(users UserStore, hasher PasswordHasher, tokens *TokenManager) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Login checks credentials and issues a token pair. An unknown user is
// NotFound and a mismatching password is WrongPassword.
func (s *Service) Login(ctx context.Context, in LoginInput) (TokenPair, error) {
	if err := validation.Username(in.UserName); err != nil {
		return TokenPair{}, err
	}
	if err := validation.Password(in.Password); err != nil {
		return TokenPair{}, err
	}
	u, err := s.users.GetByUsername(ctx, in.UserName)
	if err != nil {
		return TokenPair{}, err
	}
	if !s.hasher.Verify(u.PasswordHash, in.Password) {
		return TokenPair{}, apperr.ErrWrongPassword
	}
	return s.issue(u.ID)
}

// Register validates the input, stores the user with a hashed password and
// issues a token pair for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (TokenPair, error) {
	if err := validateRegister(in); err != nil {
		return TokenPair{}, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return TokenPair{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, entity.NewUser{
		UserName:     in.UserName,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	})
	if err != nil {
		return TokenPair{}, err
	}
	return s.issue(u.ID)
}

func validateRegister(in RegisterInput) error {
	return errors.Join(
		validation.Username(in.UserName),
		validation.Password(in.Password),
		validation.PasswordConfirm(in.Password, in.PasswordConfirm),
		validation.Name("first_name", in.FirstName),
		validation.Name("last_name", in.LastName),
	)
}

// Refresh trades a valid refresh token for a new access token. The refresh
// token itself is returned unchanged; it stays usable until it expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	id, err := SubjectID(claims)
	if err != nil {
		return TokenPair{}, err
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return TokenPair{}, err
	}
	access, err := s.tokens.Issue(id, AccessToken)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

func (s *Service) issue(userID int64) (TokenPair, error) {
	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}
