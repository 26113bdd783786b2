package repo

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/gophertalk/internal/post/entity"
	userentity "github.com/ovaphlow/gophertalk/internal/user/entity"
	userrepo "github.com/ovaphlow/gophertalk/internal/user/repo"
	"github.com/ovaphlow/gophertalk/pkg/apperr"
	"github.com/ovaphlow/gophertalk/pkg/utilities"
)

// openTestDB connects to TEST_DATABASE_URL or skips.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres integration test")
	}
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, userrepo.NewUserRepo(db).EnsureTable(ctx))
	require.NoError(t, NewPostRepo(db).EnsureTable(ctx))
	return db
}

func createUser(t *testing.T, db *sqlx.DB) int64 {
	t.Helper()
	u, err := userrepo.NewUserRepo(db).Create(context.Background(), userentity.NewUser{
		UserName:     "u" + utilities.NewKSUID()[:20],
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return u.ID
}

func ids(rows []entity.FeedRow) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestIntegration_FeedOrdering(t *testing.T) {
	db := openTestDB(t)
	r := NewPostRepo(db)
	ctx := context.Background()
	author := createUser(t, db)

	a, err := r.Create(ctx, entity.CreateInput{Text: "A", UserID: author})
	require.NoError(t, err)
	b, err := r.Create(ctx, entity.CreateInput{Text: "B", UserID: author})
	require.NoError(t, err)
	c, err := r.Create(ctx, entity.CreateInput{Text: "C", UserID: author, ReplyToID: &a.ID})
	require.NoError(t, err)

	top, err := r.List(ctx, entity.Filter{ViewerID: author, OwnerID: &author, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, a.ID}, ids(top))
	assert.Equal(t, int64(1), top[1].RepliesCount)

	thread, err := r.List(ctx, entity.Filter{ViewerID: author, ReplyToID: &a.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, ids(thread))

	page, err := r.List(ctx, entity.Filter{ViewerID: author, OwnerID: &author, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, ids(page))

	missing := c.ID + 1_000_000
	_, err = r.Create(ctx, entity.CreateInput{Text: "orphan", UserID: author, ReplyToID: &missing})
	assert.ErrorIs(t, err, apperr.ErrReplyTargetMissing)
}

func TestIntegration_Interactions(t *testing.T) {
	db := openTestDB(t)
	r := NewPostRepo(db)
	ctx := context.Background()
	author := createUser(t, db)
	viewer := createUser(t, db)

	p, err := r.Create(ctx, entity.CreateInput{Text: "like me", UserID: author})
	require.NoError(t, err)

	require.NoError(t, r.Like(ctx, p.ID, viewer))
	assert.ErrorIs(t, r.Like(ctx, p.ID, viewer), apperr.ErrAlreadyLiked)
	require.NoError(t, r.Dislike(ctx, p.ID, viewer))
	require.NoError(t, r.Dislike(ctx, p.ID, viewer))
	require.NoError(t, r.Like(ctx, p.ID, viewer))

	require.NoError(t, r.View(ctx, p.ID, viewer))
	assert.ErrorIs(t, r.View(ctx, p.ID, viewer), apperr.ErrAlreadyViewed)

	row, err := r.Get(ctx, p.ID, viewer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.LikesCount)
	assert.Equal(t, int64(1), row.ViewsCount)
	assert.True(t, row.UserLiked)
	assert.True(t, row.UserViewed)

	asAuthor, err := r.Get(ctx, p.ID, author)
	require.NoError(t, err)
	assert.False(t, asAuthor.UserLiked)
	assert.False(t, asAuthor.UserViewed)
}

func TestIntegration_SoftDelete(t *testing.T) {
	db := openTestDB(t)
	r := NewPostRepo(db)
	ctx := context.Background()
	author := createUser(t, db)
	other := createUser(t, db)

	p, err := r.Create(ctx, entity.CreateInput{Text: "bye", UserID: author})
	require.NoError(t, err)
	require.NoError(t, r.Like(ctx, p.ID, other))

	assert.ErrorIs(t, r.Delete(ctx, p.ID, other), apperr.ErrNotFound)
	require.NoError(t, r.Delete(ctx, p.ID, author))
	assert.ErrorIs(t, r.Delete(ctx, p.ID, author), apperr.ErrNotFound)

	_, err = r.Get(ctx, p.ID, other)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	rows, err := r.List(ctx, entity.Filter{ViewerID: other, OwnerID: &author, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, r.View(ctx, p.ID, other), apperr.ErrNotFound)
	_, err = r.Create(ctx, entity.CreateInput{Text: "late reply", UserID: other, ReplyToID: &p.ID})
	assert.ErrorIs(t, err, apperr.ErrReplyTargetMissing)
}
