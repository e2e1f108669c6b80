package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// warmBatchSize bounds how many WarmTile activities run at once.
const warmBatchSize = 16

// TileWarmResult summarises a warm run.
type TileWarmResult struct {
	Requested int
	Warmed    int
	Failed    int
}

// TileWarmWorkflow lists the tiles covering the requested bounds and fetches
// each of them into the tile cache. Individual tile failures are counted, not
// propagated.
func TileWarmWorkflow(ctx workflow.Context, req domain.WarmRequest) (TileWarmResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting tile warm workflow", "option", req.Option, "minZoom", req.MinZoom, "maxZoom", req.MaxZoom)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var tiles []domain.TileCoord
	if err := workflow.ExecuteActivity(ctx, "ListTiles", req).Get(ctx, &tiles); err != nil {
		return TileWarmResult{}, err
	}

	result := TileWarmResult{Requested: len(tiles)}
	for start := 0; start < len(tiles); start += warmBatchSize {
		end := start + warmBatchSize
		if end > len(tiles) {
			end = len(tiles)
		}

		futures := make([]workflow.Future, 0, end-start)
		for _, tile := range tiles[start:end] {
			futures = append(futures, workflow.ExecuteActivity(ctx, "WarmTile", req.Option, tile))
		}
		for i, f := range futures {
			if err := f.Get(ctx, nil); err != nil {
				logger.Warn("tile warm failed", "tile", tiles[start+i].String(), "error", err)
				result.Failed++
				continue
			}
			result.Warmed++
		}
	}

	logger.Info("Tile warm finished", "warmed", result.Warmed, "failed", result.Failed)
	return result, nil
}
