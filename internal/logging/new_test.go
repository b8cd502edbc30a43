package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_SlogRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("slog", "warn", &buf)
	require.NoError(t, err)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.True(t, strings.Contains(out, "msg=shown"))
}

func TestNew_EmptyBackendDefaultsToSlog(t *testing.T) {
	log, err := New("", "", &bytes.Buffer{})
	require.NoError(t, err)
	require.IsType(t, &SlogLogger{}, log)
}

func TestNew_Zap(t *testing.T) {
	log, err := New("zap", "debug", nil)
	require.NoError(t, err)
	require.IsType(t, &ZapLogger{}, log)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New("logrus", "info", nil)
	require.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.With("k", "v").Error(context.Background(), "nothing")
}
