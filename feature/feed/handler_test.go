package feed

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"catalog-sync/core/queue"
	"catalog-sync/feature/feed/pipeline"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) (*fiber.App, *queue.Queue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	q := queue.New(rdb, "test")

	cfg := pipeline.Config{FileName: "TobaccoData.xml", Retention: 30}
	scheduler := pipeline.NewScheduler(q, cfg, zap.NewNop())
	_, err := scheduler.EnsureRecurringDownload(context.Background(), "0 */12 * * *")
	require.NoError(t, err)

	feature := NewFeature(q, scheduler, cfg.FileName, zap.NewNop())
	assert.Equal(t, "feed", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, q, mr
}

func TestHandleTriggerDownload(t *testing.T) {
	app, q, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/jobs/download", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	job, err := q.Claim(context.Background())
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, pipeline.KindDownload, job.Kind)
}

func TestHandleOverview(t *testing.T) {
	app, q, _ := setupApp(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, pipeline.KindProcess, pipeline.Payload{FileName: "TobaccoData.xml"}, queue.Options{RemoveOnComplete: 30})
	require.NoError(t, err)
	job, err := q.Claim(ctx)
	require.NoError(t, err)
	require.NoError(t, q.Complete(ctx, job))

	resp, err := app.Test(httptest.NewRequest("GET", "/jobs", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body Overview
	data, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(data, &body))
	require.Len(t, body.Repeatables, 1)
	assert.Equal(t, pipeline.KindDownload, body.Repeatables[0].Kind)
	require.Len(t, body.Completed, 1)
	assert.Equal(t, job.ID, body.Completed[0].ID)
	assert.Empty(t, body.Failed)
}

func TestHandleTriggerDownload_BrokerDown(t *testing.T) {
	app, _, mr := setupApp(t)
	mr.Close()

	resp, err := app.Test(httptest.NewRequest("POST", "/jobs/download", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
