package entity

import "time"

// Post is a live row of the `posts` table; soft-deleted rows are never
// loaded. Text never changes after creation.
type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	UserID    int64     `json:"user_id"`
	ReplyToID *int64    `json:"reply_to_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Author holds the public fields of a post's owner.
type Author struct {
	ID        int64   `json:"id"`
	UserName  string  `json:"user_name"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// FeedRow is a live post with its author, interaction counts and the
// viewer's own like/view flags.
type FeedRow struct {
	ID           int64     `json:"id"`
	Text         string    `json:"text"`
	UserID       int64     `json:"user_id"`
	ReplyToID    *int64    `json:"reply_to_id"`
	CreatedAt    time.Time `json:"created_at"`
	LikesCount   int64     `json:"likes_count"`
	ViewsCount   int64     `json:"views_count"`
	RepliesCount int64     `json:"replies_count"`
	UserLiked    bool      `json:"user_liked"`
	UserViewed   bool      `json:"user_viewed"`
	User         Author    `json:"user"`
}

type CreateInput struct {
	Text      string `json:"text"`
	ReplyToID *int64 `json:"reply_to_id"`
	UserID    int64  `json:"-"`
}

// Filter selects a feed page. A nil ReplyToID lists top-level posts newest
// first; a set ReplyToID lists that post's replies oldest first.
type Filter struct {
	ViewerID  int64
	Search    *string
	OwnerID   *int64
	ReplyToID *int64
	Limit     int
	Offset    int
}
