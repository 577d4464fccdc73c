package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, log func(*slog.Logger)) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(NewRedactorHandler(slog.NewJSONHandler(&buf, nil)))
	log(logger)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestRedactsSensitiveFields(t *testing.T) {
	record := capture(t, func(l *slog.Logger) {
		l.Info("registering",
			"push_token", "c2VjcmV0",
			"validation_data", "YWxzbyBzZWNyZXQ=",
			"handles", 2,
		)
	})

	assert.Equal(t, RedactedValue, record["push_token"])
	assert.Equal(t, RedactedValue, record["validation_data"])
	assert.Equal(t, float64(2), record["handles"])
}

func TestRedactsSubstringMatches(t *testing.T) {
	record := capture(t, func(l *slog.Logger) {
		l.Info("signed", "x-auth-cert-0", "MIIB...", "endpoint", "https://example.org")
	})

	assert.Equal(t, RedactedValue, record["x-auth-cert-0"])
	assert.Equal(t, "https://example.org", record["endpoint"])
}

func TestRedactsGroupedAttrs(t *testing.T) {
	record := capture(t, func(l *slog.Logger) {
		l.Info("msg", slog.Group("request", slog.String("push_token", "abc"), slog.Int("services", 4)))
	})

	group, ok := record["request"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, RedactedValue, group["push_token"])
	assert.Equal(t, float64(4), group["services"])
}

func TestWithAttrsKeepsRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRedactorHandler(slog.NewJSONHandler(&buf, nil))).With("token", "abc")
	logger.Info("msg")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, RedactedValue, record["token"])
}
