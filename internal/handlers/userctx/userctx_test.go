package userctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tastybites/internal/models"
)

func TestUserCtx(t *testing.T) {
	t.Run("principal stored", func(t *testing.T) {
		p := models.Principal{UserID: uuid.New()}

		got, ok := FromContext(New(context.Background(), p))

		require.True(t, ok)
		require.Equal(t, p, got)
	})

	t.Run("empty context", func(t *testing.T) {
		_, ok := FromContext(context.Background())

		require.False(t, ok)
	})
}
