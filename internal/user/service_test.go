package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/gophertalk/internal/auth"
	"github.com/ovaphlow/gophertalk/internal/user/entity"
	"github.com/ovaphlow/gophertalk/pkg/apperr"
)

type stubRepo struct {
	getFn    func(ctx context.Context, id int64) (*entity.User, error)
	listFn   func(ctx context.Context, limit, offset int) ([]entity.User, error)
	updateFn func(ctx context.Context, id int64, p entity.Patch) (*entity.User, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubRepo) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *stubRepo) Update(ctx context.Context, id int64, p entity.Patch) (*entity.User, error) {
	return s.updateFn(ctx, id, p)
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func ptr(s string) *string { return &s }

func TestUpdateHashesPassword(t *testing.T) {
	t.Parallel()
	var stored entity.Patch
	repo := &stubRepo{updateFn: func(_ context.Context, id int64, p entity.Patch) (*entity.User, error) {
		stored = p
		return &entity.User{ID: id}, nil
	}}
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}
	svc := NewService(repo, hasher)

	_, err := svc.Update(context.Background(), 3, UpdateInput{Password: ptr("n3w!pass"), PasswordConfirm: ptr("n3w!pass")})
	require.NoError(t, err)

	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "n3w!pass", *stored.PasswordHash)
	assert.True(t, hasher.Verify(*stored.PasswordHash, "n3w!pass"))
	assert.Nil(t, stored.UserName)
}

func TestUpdateValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   UpdateInput
	}{
		{"Confirm Mismatch", UpdateInput{Password: ptr("n3w!pass"), PasswordConfirm: ptr("other1!")}},
		{"Confirm Only", UpdateInput{PasswordConfirm: ptr("n3w!pass")}},
		{"Weak Password", UpdateInput{Password: ptr("weak"), PasswordConfirm: ptr("weak")}},
		{"Bad Username", UpdateInput{UserName: ptr("9lives")}},
		{"Bad Last Name", UpdateInput{LastName: ptr("")}},
		{"Password Over 72 Bytes", UpdateInput{Password: ptr("a1@" + strings.Repeat("€", 27)), PasswordConfirm: ptr("a1@" + strings.Repeat("€", 27))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			repo := &stubRepo{updateFn: func(context.Context, int64, entity.Patch) (*entity.User, error) {
				called = true
				return nil, nil
			}}
			_, err := NewService(repo, nil).Update(context.Background(), 1, tt.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.False(t, called)
		})
	}
}

func TestUpdatePropagatesRepoErrors(t *testing.T) {
	t.Parallel()
	repo := &stubRepo{updateFn: func(context.Context, int64, entity.Patch) (*entity.User, error) {
		return nil, apperr.AlreadyExists("user already exists", nil)
	}}

	_, err := NewService(repo, nil).Update(context.Background(), 1, UpdateInput{UserName: ptr("taken_name")})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestListValidatesPage(t *testing.T) {
	t.Parallel()
	repo := &stubRepo{listFn: func(_ context.Context, limit, offset int) ([]entity.User, error) {
		return []entity.User{{ID: int64(offset + 1)}}, nil
	}}
	svc := NewService(repo, nil)

	users, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = svc.List(context.Background(), 0, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
