package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := NotFound("post not found", sql.ErrNoRows)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAlreadyExists))
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("like post: %w", ErrAlreadyLiked)

	assert.Equal(t, KindAlreadyLiked, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestStoreKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Store(cause)

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
