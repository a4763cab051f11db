package state

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	st := NewCallState("call-1", testDetails(), time.Now())

	if err := store.Create(ctx, st); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, NewCallState("call-1", testDetails(), time.Now())); !errors.Is(err, ErrStateExists) {
		t.Fatalf("Create() duplicate error = %v, want ErrStateExists", err)
	}

	got, err := store.Load(ctx, " call-1 ")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != st {
		t.Fatal("Load() must return the live pointer")
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d", store.Len())
	}

	if err := store.Delete(ctx, "call-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "call-1"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() after delete error = %v", err)
	}
}

func TestMemoryStoreRejectsEmptyID(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if _, err := store.Load(context.Background(), ""); !errors.Is(err, ErrInvalidCall) {
		t.Fatalf("Load() error = %v", err)
	}
	if err := store.Save(context.Background(), &CallState{}); !errors.Is(err, ErrInvalidCall) {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(context.Background(), nil); !errors.Is(err, ErrNilCallState) {
		t.Fatalf("Save(nil) error = %v", err)
	}
}

func TestCallStateRecordInstruction(t *testing.T) {
	t.Parallel()

	st := NewCallState("call-1", testDetails(), time.Now())
	if st.LastInstruction != "" {
		t.Fatal("new call must start with an empty instruction cache")
	}
	if !st.RecordInstruction("confirm_identity", "a") {
		t.Fatal("first record should report change")
	}
	if st.RecordInstruction("confirm_identity", "a") {
		t.Fatal("same text should report no change")
	}
	if !st.RecordInstruction("verify_company", "b") || st.Stage != "verify_company" {
		t.Fatalf("stage = %q", st.Stage)
	}
}

func TestCallStateSetObjectiveAfterDecode(t *testing.T) {
	t.Parallel()

	st := &CallState{CallID: "x", Objectives: Snapshot{ObjectiveNameConfirmed: true}}
	snap := st.SetObjective(ObjectiveCompanyConfirmed, "yes", time.Now())
	if !snap.IsTrue(ObjectiveNameConfirmed) || !snap.IsTrue(ObjectiveCompanyConfirmed) {
		t.Fatalf("snapshot = %#v", snap)
	}
}

func TestFixedDetailsMerge(t *testing.T) {
	t.Parallel()

	got := FixedDetails{ProspectName: "Sam"}.Merge(testDetails())
	if got.ProspectName != "Sam" || got.CustomerName != "Big Retail" {
		t.Fatalf("Merge() = %#v", got)
	}
}
