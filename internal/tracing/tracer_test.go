package tracing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/recipego/internal/config"
)

func TestNewProvider_Disabled(t *testing.T) {
	for _, exporter := range []string{"", "none"} {
		provider, err := NewProvider(context.Background(), config.TracingConfig{Exporter: exporter}, nil)
		require.NoError(t, err)
		require.False(t, provider.Enabled())

		// Spans on the no-op tracer must not panic.
		_, span := provider.Tracer().Start(context.Background(), "test-span")
		span.End()

		require.NoError(t, provider.Shutdown(context.Background()))
	}
}

func TestNewProvider_FileExporter(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "traces.jsonl")

	provider, err := NewProvider(context.Background(), config.TracingConfig{
		Exporter:   "file",
		FilePath:   tracePath,
		SampleRate: 1.0,
	}, nil)
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), "recipe build")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	require.Contains(t, string(data), `"Name":"recipe build"`)
}

func TestNewProvider_StdoutExporterWritesToGivenWriter(t *testing.T) {
	var out bytes.Buffer

	provider, err := NewProvider(context.Background(), config.TracingConfig{Exporter: "stdout"}, &out)
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), "command")
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))

	require.Contains(t, out.String(), `"Name": "command"`)
}

func TestNewProvider_FileExporter_MissingPath(t *testing.T) {
	provider, err := NewProvider(context.Background(), config.TracingConfig{Exporter: "file"}, nil)
	require.Error(t, err)
	require.Nil(t, provider)
	require.Contains(t, err.Error(), "file_path required")
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	provider, err := NewProvider(context.Background(), config.TracingConfig{Exporter: "zipkin"}, nil)
	require.Error(t, err)
	require.Nil(t, provider)
	require.Contains(t, err.Error(), "unsupported exporter")
}
