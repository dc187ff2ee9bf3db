package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	h := NewHealthHandler(map[string]HealthCheck{"postgres": ok, "redis": ok}, zerolog.Nop())
	r := newEngine()
	r.GET("/health", h.Health)

	w := call(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var status healthStatus
	decodeBody(t, w, &status)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "ok", status.Checks["redis"])

	h = NewHealthHandler(map[string]HealthCheck{"postgres": ok, "redis": down}, zerolog.Nop())
	r = newEngine()
	r.GET("/health", h.Health)

	w = call(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "down", status.Checks["redis"])
}
