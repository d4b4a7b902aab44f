package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := globalLogger
	globalLogger = zap.New(core)
	defer func() { globalLogger = prev }()

	ctx := context.WithValue(context.Background(), TableKey, "deck")
	ctx = context.WithValue(ctx, FormatKey, "csv")
	ctx = context.WithValue(ctx, PathKey, "deck.csv")

	WithContext(ctx).Info("table imported")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "deck", fields["table"])
	assert.Equal(t, "csv", fields["format"])
	assert.Equal(t, "deck.csv", fields["path"])
}

func TestWithContextEmpty(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := globalLogger
	globalLogger = zap.New(core)
	defer func() { globalLogger = prev }()

	WithContext(context.Background()).Info("no context values")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ContextMap())
}
