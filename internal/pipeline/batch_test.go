package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/causelist/internal/model"
)

type fakeRunner struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeRunner) Run(_ context.Context, req model.FetchRequest) (*model.Outcome, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)

	if req.Side == model.SideOriginal {
		return model.Unavailable(model.ReasonWeekendOrFetchFailure), nil
	}
	return model.Success([]string{req.AdvocateName}), nil
}

func TestBatchProcessor_ProcessBatch(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	bp := NewBatchProcessor(runner, WithConcurrency(2), WithBatchLogger(quietLogger))

	reqs := []model.FetchRequest{
		{Date: "15052025", Side: model.SideOriginal, AdvocateName: "a"},
		{Date: "15052025", Side: model.SideAppellate, AdvocateName: "b"},
		{Date: "16052025", Side: model.SideAppellate, AdvocateName: "c"},
		{Date: "16052025", Side: model.SideOriginal, AdvocateName: "d"},
	}

	results, err := bp.ProcessBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	if len(results) != len(reqs) {
		t.Fatalf("results = %d, want %d", len(results), len(reqs))
	}
	for i, r := range results {
		if r.Request != reqs[i] {
			t.Errorf("results[%d].Request = %+v, want input order", i, r.Request)
		}
		if r.Outcome == nil {
			t.Fatalf("results[%d].Outcome is nil", i)
		}
	}
	if results[0].Outcome.IsSuccess() || !results[1].Outcome.IsSuccess() {
		t.Error("outcomes not matched to their requests")
	}
	if peak := runner.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := NewBatchProcessor(&fakeRunner{}, WithBatchLogger(quietLogger))
	_, err := bp.ProcessBatch(ctx, []model.FetchRequest{{Date: "15052025"}})
	if err == nil {
		t.Error("ProcessBatch() expected error for cancelled context")
	}
}
