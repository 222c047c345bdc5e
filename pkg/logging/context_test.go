package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Igorvich/huizen-holland/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("FromContext falls back to default", func(t *testing.T) {
		assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
		//nolint:staticcheck // nil context is handled explicitly
		assert.Equal(t, logging.Default(), logging.FromContext(nil))
	})

	t.Run("WithFields adds custom fields", func(t *testing.T) {
		testLogger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), testLogger.Logger)
		ctx = logging.WithFields(ctx, map[string]any{
			"year":  1850,
			"input": "huizen.csv",
		})

		logging.Ctx(ctx).Info().Msg("fields")
		testLogger.AssertContains(t, `"year":1850`)
		testLogger.AssertContains(t, `"input":"huizen.csv"`)
	})

	t.Run("RunID is empty without WithRunID", func(t *testing.T) {
		assert.Empty(t, logging.RunID(context.Background()))
	})

	t.Run("chaining context functions", func(t *testing.T) {
		testLogger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), testLogger.Logger)
		ctx = logging.WithInput(ctx, "areas.csv")
		ctx = logging.WithPhase(ctx, "reconcile")

		logging.FromContext(ctx).Debug().Msg("chained")
		entries := testLogger.Entries()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, "areas.csv", entries[0]["input"])
			assert.Equal(t, "reconcile", entries[0]["phase"])
		}
	})
}
