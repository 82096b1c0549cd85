package services

import (
	"context"
	"errors"
	"testing"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven/mocks"
)

func newProcessFixture(t *testing.T) (*mocks.MockProcessStore, *mocks.MockStepStore, *mocks.MockDiagramCache, *processService) {
	t.Helper()
	processStore := mocks.NewMockProcessStore()
	stepStore := mocks.NewMockStepStore()
	cache := mocks.NewMockDiagramCache()
	svc := NewProcessService(processStore, stepStore, cache, nil).(*processService)
	return processStore, stepStore, cache, svc
}

func TestProcessGet(t *testing.T) {
	processStore, stepStore, _, svc := newProcessFixture(t)
	process := seedProcess(t, processStore, stepStore)

	got, err := svc.Get(context.Background(), process.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Process.ID != process.ID {
		t.Error("wrong process returned")
	}
	if len(got.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(got.Steps))
	}
	if got.Steps[0].Ordinal != 1 || got.Steps[1].Ordinal != 2 {
		t.Error("steps must be returned in ordinal order")
	}
}

func TestProcessGet_NotFound(t *testing.T) {
	_, _, _, svc := newProcessFixture(t)

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProcessDelete(t *testing.T) {
	processStore, stepStore, cache, svc := newProcessFixture(t)
	process := seedProcess(t, processStore, stepStore)
	ctx := context.Background()

	// Prime the cache so deletion has something to invalidate.
	if err := cache.Set(ctx, process.ID, "fp", "<xml/>"); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, process.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := processStore.Get(ctx, process.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("process must be gone")
	}
	steps, _ := stepStore.ListByProcess(ctx, process.ID)
	if len(steps) != 0 {
		t.Error("steps must be gone")
	}
	if _, ok, _ := cache.Get(ctx, process.ID, "fp"); ok {
		t.Error("cached diagram must be invalidated")
	}
}

func TestProcessDelete_NotFound(t *testing.T) {
	_, _, _, svc := newProcessFixture(t)

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProcessList_ClampsPagination(t *testing.T) {
	processStore, stepStore, _, svc := newProcessFixture(t)
	seedProcess(t, processStore, stepStore)

	got, err := svc.List(context.Background(), -5, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 process, got %d", len(got))
	}
}
