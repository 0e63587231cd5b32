package viewstate

import (
	"context"
	"testing"
	"time"
)

func TestManagerStartsSessionsIndependently(t *testing.T) {
	manager := NewManager(NewMemoryStateStore(), time.Hour)
	ctx := context.Background()

	if _, err := manager.Dispatch(ctx, "session-a", LoginSucceeded{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if _, err := manager.Dispatch(ctx, "session-a", MutationSucceeded{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	a, err := manager.Current(ctx, "session-a")
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if a.DataVersion != 1 {
		t.Fatalf("expected session-a version 1, got %d", a.DataVersion)
	}

	b, err := manager.Current(ctx, "session-b")
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if b != Initial() {
		t.Fatalf("unknown session must start at the initial state, got %+v", b)
	}
}

func TestManagerRejectedEventLeavesStateUntouched(t *testing.T) {
	manager := NewManager(NewMemoryStateStore(), time.Hour)
	ctx := context.Background()

	if _, err := manager.Dispatch(ctx, "s", LoginSucceeded{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if _, err := manager.Dispatch(ctx, "s", Navigated{Page: "Nope"}); err == nil {
		t.Fatal("expected unknown page rejection")
	}

	state, err := manager.Current(ctx, "s")
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if state.ActivePage != Initial().ActivePage {
		t.Fatalf("rejected event must not be persisted, got %+v", state)
	}
}

func TestManagerReset(t *testing.T) {
	manager := NewManager(NewMemoryStateStore(), time.Hour)
	ctx := context.Background()

	if _, err := manager.Dispatch(ctx, "s", LoginSucceeded{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if err := manager.Reset(ctx, "s"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	state, err := manager.Current(ctx, "s")
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if state != Initial() {
		t.Fatalf("expected initial state after reset, got %+v", state)
	}
}
