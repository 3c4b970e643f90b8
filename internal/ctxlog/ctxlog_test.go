package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWithLogger_Roundtrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)

	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	ctx = WithRunID(ctx, id)
	assert.Equal(t, id, RunID(ctx))

	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "run_id="+id)
}

func TestRunID_Missing(t *testing.T) {
	assert.Empty(t, RunID(context.Background()))
}
