package cmd

import (
	"net/http/httptest"
	"testing"
	"time"

	"catalog-sync/core/metrics"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/queue"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewApp_ProbesArePublic(t *testing.T) {
	app := newApp("secret", zap.NewNop(), metrics.New())
	app.Get("/products", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, path := range []string{"/health", "/metrics"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/products", nil)
	req.Header.Set(auth.HeaderName, "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
}

func TestJobDuration(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Second)

	assert.Equal(t, 3*time.Second, jobDuration(&queue.Job{StartedAt: &start, FinishedAt: &end}))
	assert.Zero(t, jobDuration(&queue.Job{StartedAt: &start}))
}
