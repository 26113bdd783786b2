package repo

import (
	"strings"
	"time"

	"github.com/ovaphlow/gophertalk/internal/post/entity"
)

// feedSelect aggregates counts per post and joins the viewer's own edges.
// Replies are counted only while live, matching what a thread listing shows.
const feedSelect = `
WITH likes_count AS (
  SELECT post_id, COUNT(*) AS likes_count FROM likes GROUP BY post_id
),
views_count AS (
  SELECT post_id, COUNT(*) AS views_count FROM views GROUP BY post_id
),
replies_count AS (
  SELECT reply_to_id, COUNT(*) AS replies_count FROM posts
  WHERE reply_to_id IS NOT NULL AND deleted_at IS NULL GROUP BY reply_to_id
)
SELECT
  p.id, p.text, p.reply_to_id, p.created_at,
  u.id AS user_id, u.user_name, u.first_name, u.last_name,
  COALESCE(lc.likes_count, 0) AS likes_count,
  COALESCE(vc.views_count, 0) AS views_count,
  COALESCE(rc.replies_count, 0) AS replies_count,
  l.user_id IS NOT NULL AS user_liked,
  v.user_id IS NOT NULL AS user_viewed
FROM posts p
JOIN users u ON p.user_id = u.id
LEFT JOIN likes_count lc ON p.id = lc.post_id
LEFT JOIN views_count vc ON p.id = vc.post_id
LEFT JOIN replies_count rc ON p.id = rc.reply_to_id
LEFT JOIN likes l ON l.post_id = p.id AND l.user_id = ?
LEFT JOIN views v ON v.post_id = p.id AND v.user_id = ?
WHERE p.deleted_at IS NULL`

// feedQuery builds the list statement with ? placeholders; callers Rebind.
func feedQuery(f entity.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString(feedSelect)
	args := []any{f.ViewerID, f.ViewerID}

	if f.Search != nil {
		b.WriteString(" AND p.text ILIKE ?")
		args = append(args, "%"+escapeLike(*f.Search)+"%")
	}
	if f.OwnerID != nil {
		b.WriteString(" AND p.user_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.ReplyToID != nil {
		b.WriteString(" AND p.reply_to_id = ? ORDER BY p.created_at ASC, p.id ASC")
		args = append(args, *f.ReplyToID)
	} else {
		b.WriteString(" AND p.reply_to_id IS NULL ORDER BY p.created_at DESC, p.id DESC")
	}
	b.WriteString(" OFFSET ? LIMIT ?")
	args = append(args, f.Offset, f.Limit)
	return b.String(), args
}

// escapeLike makes % and _ in a search term match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type feedRow struct {
	ID           int64     `db:"id"`
	Text         string    `db:"text"`
	ReplyToID    *int64    `db:"reply_to_id"`
	CreatedAt    time.Time `db:"created_at"`
	UserID       int64     `db:"user_id"`
	UserName     string    `db:"user_name"`
	FirstName    *string   `db:"first_name"`
	LastName     *string   `db:"last_name"`
	LikesCount   int64     `db:"likes_count"`
	ViewsCount   int64     `db:"views_count"`
	RepliesCount int64     `db:"replies_count"`
	UserLiked    bool      `db:"user_liked"`
	UserViewed   bool      `db:"user_viewed"`
}

func (row feedRow) toEntity() entity.FeedRow {
	return entity.FeedRow{
		ID:           row.ID,
		Text:         row.Text,
		UserID:       row.UserID,
		ReplyToID:    row.ReplyToID,
		CreatedAt:    row.CreatedAt,
		LikesCount:   row.LikesCount,
		ViewsCount:   row.ViewsCount,
		RepliesCount: row.RepliesCount,
		UserLiked:    row.UserLiked,
		UserViewed:   row.UserViewed,
		User: entity.Author{
			ID:        row.UserID,
			UserName:  row.UserName,
			FirstName: row.FirstName,
			LastName:  row.LastName,
		},
	}
}
