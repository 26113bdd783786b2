package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/gophertalk/internal/user/entity"
	"github.com/ovaphlow/gophertalk/pkg/apperr"
	"github.com/ovaphlow/gophertalk/pkg/database"
)

// UniqueUserName is the partial unique index over live user names.
const UniqueUserName = "uq__users__user_name"

const userColumns = `id, user_name, first_name, last_name, status, created_at, updated_at`

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table if not exists (idempotent).
// Prefer migrations in production.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  user_name VARCHAR(30) NOT NULL,
  password_hash TEXT NOT NULL,
  first_name VARCHAR(30),
  last_name VARCHAR(30),
  status SMALLINT NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  deleted_at TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS uq__users__user_name ON users(user_name) WHERE deleted_at IS NULL;
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

type userRow struct {
	ID        int64     `db:"id"`
	UserName  string    `db:"user_name"`
	FirstName *string   `db:"first_name"`
	LastName  *string   `db:"last_name"`
	Status    int       `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row userRow) toEntity() *entity.User {
	return &entity.User{
		ID:        row.ID,
		UserName:  row.UserName,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// translate maps driver errors to domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("user not found", err)
	case database.IsViolation(err, database.UniqueViolation, UniqueUserName):
		return apperr.AlreadyExists("user already exists", err)
	default:
		return apperr.Store(err)
	}
}

// Create inserts a new user and returns the stored row.
func (r *UserRepo) Create(ctx context.Context, u entity.NewUser) (*entity.User, error) {
	q := `INSERT INTO users (user_name, password_hash, first_name, last_name)
		VALUES (:user_name, :password_hash, :first_name, :last_name)
		RETURNING ` + userColumns
	params := map[string]any{
		"user_name":     u.UserName,
		"password_hash": u.PasswordHash,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
	}
	rows, err := r.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, translate(err)
		}
		return nil, apperr.Store(errors.New("insert returned no row"))
	}
	var row userRow
	if err := rows.StructScan(&row); err != nil {
		return nil, apperr.Store(err)
	}
	return row.toEntity(), nil
}

// GetByID fetches a live user.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	var row userRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, translate(err)
	}
	return row.toEntity(), nil
}

// GetByUsername fetches the credential view of a live user.
func (r *UserRepo) GetByUsername(ctx context.Context, name string) (*entity.AuthView, error) {
	const q = `SELECT id, user_name, password_hash, status FROM users WHERE user_name = $1 AND deleted_at IS NULL`
	var row struct {
		ID           int64  `db:"id"`
		UserName     string `db:"user_name"`
		PasswordHash string `db:"password_hash"`
		Status       int    `db:"status"`
	}
	if err := r.db.GetContext(ctx, &row, q, name); err != nil {
		return nil, translate(err)
	}
	return &entity.AuthView{ID: row.ID, UserName: row.UserName, PasswordHash: row.PasswordHash, Status: row.Status}, nil
}

// Update applies the non-nil fields of p and stamps updated_at.
func (r *UserRepo) Update(ctx context.Context, id int64, p entity.Patch) (*entity.User, error) {
	var sets []string
	var args []any
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("user_name", p.UserName)
	add("first_name", p.FirstName)
	add("last_name", p.LastName)
	add("password_hash", p.PasswordHash)
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	q := r.db.Rebind(`UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id = ? AND deleted_at IS NULL RETURNING ` + userColumns)
	var row userRow
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		return nil, translate(err)
	}
	return row.toEntity(), nil
}

// Delete soft-deletes a live user.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	const q = `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store(err)
	}
	if n == 0 {
		return apperr.NotFound("user not found", nil)
	}
	return nil
}

// List returns live users ordered by id.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL ORDER BY id OFFSET $1 LIMIT $2`
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, q, offset, limit); err != nil {
		return nil, translate(err)
	}
	out := make([]entity.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.toEntity())
	}
	return out, nil
}
