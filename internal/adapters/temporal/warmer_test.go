package temporal_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.temporal.io/sdk/client"

	temporaladapter "github.com/samirrijal/solarmap/internal/adapters/temporal"
	"github.com/samirrijal/solarmap/internal/core/domain"
)

// fakeClient overrides ExecuteWorkflow; any other call panics on the nil embedded client.
type fakeClient struct {
	client.Client
	opts    []client.StartWorkflowOptions
	args    [][]interface{}
	startFn func() (client.WorkflowRun, error)
}

func (f *fakeClient) ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.opts = append(f.opts, options)
	f.args = append(f.args, args)
	if f.startFn != nil {
		return f.startFn()
	}
	return fakeRun{id: "run-42"}, nil
}

type fakeRun struct {
	client.WorkflowRun
	id string
}

func (r fakeRun) GetRunID() string { return r.id }

func warmRequest(option domain.MapOption) domain.WarmRequest {
	return domain.WarmRequest{
		Option:  option,
		Bounds:  domain.Bounds{MinLat: 49.4, MinLon: 23.3, MaxLat: 50.2, MaxLon: 24.7},
		MinZoom: 6,
		MaxZoom: 9,
	}
}

func TestWarmer_Warm(t *testing.T) {
	c := &fakeClient{}
	w := temporaladapter.NewWarmer(c, "tile-warm-queue")

	runID, err := w.Warm(context.Background(), warmRequest(domain.OptionTemperature))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runID != "run-42" {
		t.Errorf("expected run-42, got %s", runID)
	}

	opts := c.opts[0]
	if opts.TaskQueue != "tile-warm-queue" {
		t.Errorf("unexpected task queue %s", opts.TaskQueue)
	}
	if want := "tile-warm-temperature-49.400-23.300-50.200-24.700-6-9"; opts.ID != want {
		t.Errorf("workflow ID = %s, want %s", opts.ID, want)
	}
	if req, ok := c.args[0][0].(domain.WarmRequest); !ok || req.Option != domain.OptionTemperature {
		t.Errorf("unexpected workflow args %v", c.args[0])
	}
}

func TestWarmer_WorkflowIDPerOptionAndViewport(t *testing.T) {
	c := &fakeClient{}
	w := temporaladapter.NewWarmer(c, "q")
	ctx := context.Background()

	_, _ = w.Warm(ctx, warmRequest(domain.OptionTemperature))
	_, _ = w.Warm(ctx, warmRequest(domain.OptionTemperature))
	_, _ = w.Warm(ctx, warmRequest(domain.OptionPressure))
	shifted := warmRequest(domain.OptionTemperature)
	shifted.Bounds.MinLat += 0.5
	_, _ = w.Warm(ctx, shifted)

	if c.opts[0].ID != c.opts[1].ID {
		t.Error("identical requests should share a workflow ID")
	}
	if c.opts[0].ID == c.opts[2].ID || c.opts[0].ID == c.opts[3].ID {
		t.Error("different option or viewport should get a new workflow ID")
	}
}

func TestWarmer_StartError(t *testing.T) {
	c := &fakeClient{startFn: func() (client.WorkflowRun, error) {
		return nil, errors.New("frontend unavailable")
	}}
	_, err := temporaladapter.NewWarmer(c, "q").Warm(context.Background(), warmRequest(domain.OptionWindSpeed))
	if err == nil || !strings.Contains(err.Error(), "frontend unavailable") {
		t.Errorf("expected wrapped start error, got %v", err)
	}
}
