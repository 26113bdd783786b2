package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/gophertalk/internal/post/entity"
	"github.com/ovaphlow/gophertalk/pkg/apperr"
	"github.com/ovaphlow/gophertalk/pkg/database"
)

// Constraint names the repository translates.
const (
	FKReplyTo = "fk__posts__reply_to_id"
	PKLikes   = "pk__likes"
	PKViews   = "pk__views"
)

// PostRepo provides data access for posts and their like/view edges.
type PostRepo struct {
	db *sqlx.DB
}

func NewPostRepo(db *sqlx.DB) *PostRepo { return &PostRepo{db: db} }

// EnsureTable creates posts, likes and views (idempotent). The users table
// must exist first.
func (r *PostRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS posts (
  id BIGSERIAL PRIMARY KEY,
  text VARCHAR(280) NOT NULL,
  user_id BIGINT NOT NULL,
  reply_to_id BIGINT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  deleted_at TIMESTAMPTZ,
  CONSTRAINT fk__posts__user_id FOREIGN KEY (user_id) REFERENCES users (id),
  CONSTRAINT fk__posts__reply_to_id FOREIGN KEY (reply_to_id) REFERENCES posts (id)
);
CREATE INDEX IF NOT EXISTS idx__posts__reply_to_id ON posts(reply_to_id);
CREATE INDEX IF NOT EXISTS idx__posts__user_id ON posts(user_id);
CREATE TABLE IF NOT EXISTS likes (
  post_id BIGINT NOT NULL,
  user_id BIGINT NOT NULL,
  CONSTRAINT pk__likes PRIMARY KEY (post_id, user_id),
  CONSTRAINT fk__likes__post_id FOREIGN KEY (post_id) REFERENCES posts (id),
  CONSTRAINT fk__likes__user_id FOREIGN KEY (user_id) REFERENCES users (id)
);
CREATE TABLE IF NOT EXISTS views (
  post_id BIGINT NOT NULL,
  user_id BIGINT NOT NULL,
  CONSTRAINT pk__views PRIMARY KEY (post_id, user_id),
  CONSTRAINT fk__views__post_id FOREIGN KEY (post_id) REFERENCES posts (id),
  CONSTRAINT fk__views__user_id FOREIGN KEY (user_id) REFERENCES users (id)
);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a post. A reply is only written when its parent is live;
// otherwise the insert selects nothing and the result is ReplyTargetMissing.
func (r *PostRepo) Create(ctx context.Context, in entity.CreateInput) (*entity.Post, error) {
	const q = `INSERT INTO posts (text, user_id, reply_to_id)
SELECT $1::text, $2::bigint, $3::bigint
WHERE $3::bigint IS NULL OR EXISTS (SELECT 1 FROM posts WHERE id = $3::bigint AND deleted_at IS NULL)
RETURNING id, text, user_id, reply_to_id, created_at`
	var p entity.Post
	err := r.db.QueryRowxContext(ctx, q, in.Text, in.UserID, in.ReplyToID).
		Scan(&p.ID, &p.Text, &p.UserID, &p.ReplyToID, &p.CreatedAt)
	switch {
	case err == nil:
		return &p, nil
	case errors.Is(err, sql.ErrNoRows), database.IsViolation(err, database.ForeignKeyViolation, FKReplyTo):
		return nil, apperr.New(apperr.KindReplyTargetMissing, "reply to post doesn't exist", err)
	default:
		return nil, apperr.Store(err)
	}
}

// Get returns one live post as seen by viewerID.
func (r *PostRepo) Get(ctx context.Context, id, viewerID int64) (*entity.FeedRow, error) {
	q := r.db.Rebind(feedSelect + " AND p.id = ?")
	var row feedRow
	if err := r.db.GetContext(ctx, &row, q, viewerID, viewerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("post not found", err)
		}
		return nil, apperr.Store(err)
	}
	out := row.toEntity()
	return &out, nil
}

// List returns one feed page.
func (r *PostRepo) List(ctx context.Context, f entity.Filter) ([]entity.FeedRow, error) {
	q, args := feedQuery(f)
	var rows []feedRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, apperr.Store(err)
	}
	out := make([]entity.FeedRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Delete soft-deletes a live post owned by ownerID. A post owned by someone
// else is reported exactly like a missing one.
func (r *PostRepo) Delete(ctx context.Context, id, ownerID int64) error {
	const q = `UPDATE posts SET deleted_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	err := r.execOne(ctx, "post not found", q, id, ownerID)
	if err != nil && apperr.KindOf(err) == "" {
		return apperr.Store(err)
	}
	return err
}

// View records that userID has seen a live post. A second view is
// AlreadyViewed.
func (r *PostRepo) View(ctx context.Context, postID, userID int64) error {
	const q = `INSERT INTO views (post_id, user_id)
SELECT p.id, $2::bigint FROM posts p WHERE p.id = $1 AND p.deleted_at IS NULL`
	return translateEdge(r.execOne(ctx, "post not found", q, postID, userID), PKViews, apperr.ErrAlreadyViewed)
}

// Like adds a like edge to a live post. A second like is AlreadyLiked.
func (r *PostRepo) Like(ctx context.Context, postID, userID int64) error {
	const q = `INSERT INTO likes (post_id, user_id)
SELECT p.id, $2::bigint FROM posts p WHERE p.id = $1 AND p.deleted_at IS NULL`
	return translateEdge(r.execOne(ctx, "post not found", q, postID, userID), PKLikes, apperr.ErrAlreadyLiked)
}

// Dislike removes a like edge. Removing a like that does not exist is not
// an error.
func (r *PostRepo) Dislike(ctx context.Context, postID, userID int64) error {
	const q = `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, q, postID, userID); err != nil {
		return apperr.Store(err)
	}
	return nil
}

// execOne runs a statement that must touch exactly one row; zero rows is
// NotFound. Driver errors are returned untranslated.
func (r *PostRepo) execOne(ctx context.Context, notFound, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store(err)
	}
	if n == 0 {
		return apperr.NotFound(notFound, nil)
	}
	return nil
}

func translateEdge(err error, pk string, duplicate *apperr.Error) error {
	var domain *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domain):
		return err
	case database.IsViolation(err, database.UniqueViolation, pk):
		return apperr.New(duplicate.Kind, duplicate.Message, err)
	case database.IsViolation(err, database.ForeignKeyViolation, ""):
		return apperr.NotFound("user or post not found", err)
	default:
		return apperr.Store(err)
	}
}
