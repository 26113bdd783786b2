package repo

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/gophertalk/internal/user/entity"
	"github.com/ovaphlow/gophertalk/pkg/apperr"
)

var userCols = []string{"id", "user_name", "first_name", "last_name", "status", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(sqlx.NewDb(db, "postgres")), mock
}

func TestUserRepo_Create(t *testing.T) {
	now := time.Now()
	first := "Ann"

	tests := []struct {
		name    string
		mock    func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "Success",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (user_name, password_hash, first_name, last_name)`)).
					WithArgs("annie", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "annie", first, nil, 0, now, now))
			},
		},
		{
			name: "Duplicate Name",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
					WillReturnError(&pq.Error{Code: "23505", Constraint: UniqueUserName})
			},
			wantErr: apperr.ErrAlreadyExists,
		},
		{
			name: "Other Failure",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: apperr.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := setupMockDB(t)
			tt.mock(mock)

			u, err := r.Create(context.Background(), entity.NewUser{UserName: "annie", PasswordHash: "hash", FirstName: &first})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), u.ID)
				assert.Equal(t, "Ann", *u.FirstName)
				assert.Nil(t, u.LastName)
				assert.Empty(t, u.PasswordHash)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_GetByUsername(t *testing.T) {
	r, mock := setupMockDB(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_name, password_hash, status FROM users WHERE user_name = $1 AND deleted_at IS NULL`)).
		WithArgs("annie").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_name", "password_hash", "status"}).AddRow(3, "annie", "$2a$hash", 0))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE user_name = $1 AND deleted_at IS NULL`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	view, err := r.GetByUsername(ctx, "annie")
	require.NoError(t, err)
	assert.Equal(t, int64(3), view.ID)
	assert.Equal(t, "$2a$hash", view.PasswordHash)

	_, err = r.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByIDSkipsDeleted(t *testing.T) {
	r, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := r.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Update(t *testing.T) {
	now := time.Now()
	name := "renamed"
	hash := "newhash"

	t.Run("Only Supplied Fields", func(t *testing.T) {
		r, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET user_name = $1, password_hash = $2, updated_at = NOW() WHERE id = $3 AND deleted_at IS NULL RETURNING`)).
			WithArgs("renamed", "newhash", int64(4)).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "renamed", nil, nil, 0, now, now))

		u, err := r.Update(context.Background(), 4, entity.Patch{UserName: &name, PasswordHash: &hash})
		require.NoError(t, err)
		assert.Equal(t, "renamed", u.UserName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Patch Stamps Only", func(t *testing.T) {
		r, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`)).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "same", nil, nil, 0, now, now))

		_, err := r.Update(context.Background(), 4, entity.Patch{})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing User", func(t *testing.T) {
		r, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET`)).WillReturnError(sql.ErrNoRows)

		_, err := r.Update(context.Background(), 4, entity.Patch{UserName: &name})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Name Taken", func(t *testing.T) {
		r, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET`)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: UniqueUserName})

		_, err := r.Update(context.Background(), 4, entity.Patch{UserName: &name})
		assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
	})
}

func TestUserRepo_Delete(t *testing.T) {
	r, mock := setupMockDB(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET deleted_at = NOW()`)).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, r.Delete(ctx, 2))
	assert.ErrorIs(t, r.Delete(ctx, 2), apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_List(t *testing.T) {
	r, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE deleted_at IS NULL ORDER BY id OFFSET $1 LIMIT $2`)).
		WithArgs(10, 5).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(11, "eleventh", nil, nil, 0, now, now).
			AddRow(12, "twelfth", nil, nil, 0, now, now))

	users, err := r.List(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(11), users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
