package temporal

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/workflows"
)

// Warmer implements ports.TileWarmer by starting TileWarmWorkflow runs.
type Warmer struct {
	client    client.Client
	taskQueue string
}

// NewWarmer wraps a connected Temporal client.
func NewWarmer(c client.Client, taskQueue string) *Warmer {
	return &Warmer{client: c, taskQueue: taskQueue}
}

// Warm starts a workflow for req. Runs for the same option and viewport share
// a workflow ID, so a duplicate request while one is running returns the running one.
func (w *Warmer) Warm(ctx context.Context, req domain.WarmRequest) (string, error) {
	opts := client.StartWorkflowOptions{
		ID: fmt.Sprintf("tile-warm-%s-%.3f-%.3f-%.3f-%.3f-%d-%d", req.Option,
			req.Bounds.MinLat, req.Bounds.MinLon, req.Bounds.MaxLat, req.Bounds.MaxLon, req.MinZoom, req.MaxZoom),
		TaskQueue: w.taskQueue,
	}
	run, err := w.client.ExecuteWorkflow(ctx, opts, workflows.TileWarmWorkflow, req)
	if err != nil {
		return "", fmt.Errorf("start tile warm workflow: %w", err)
	}
	return run.GetRunID(), nil
}
