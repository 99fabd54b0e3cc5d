package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("logger in ctx", func(t *testing.T) {
		log := New()
		ctx := context.WithValue(context.Background(), ContextKey, log)
		require.Same(t, log, FromContext(ctx))
	})

	t.Run("missing logger falls back to a new one", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})
}
