package state

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "yes", in: "yes", want: true},
		{name: "true string", in: "true", want: true},
		{name: "no", in: "no", want: false},
		{name: "false string", in: "false", want: false},
		{name: "bool passthrough", in: true, want: true},
		{name: "free text", in: "the CFO", want: "the CFO"},
		{name: "case sensitive", in: "Yes", want: "Yes"},
		{name: "number", in: float64(3), want: float64(3)},
		{name: "nil", in: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	falsy := []any{nil, false, "", 0, float64(0), []any{}}
	for _, v := range falsy {
		if Truthy(v) {
			t.Fatalf("Truthy(%#v) = true", v)
		}
	}
	truthy := []any{true, "x", 1, float64(2), []any{1}, map[string]any{}}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Fatalf("Truthy(%#v) = false", v)
		}
	}
}

func TestObjectiveStoreSetIsCopyOnWrite(t *testing.T) {
	t.Parallel()

	store := NewObjectiveStore()
	first := store.Set(ObjectiveNameConfirmed, "yes")
	second := store.Set(ObjectiveCompanyConfirmed, "no")

	if len(first) != 1 {
		t.Fatalf("first snapshot mutated: %#v", first)
	}
	want := Snapshot{ObjectiveNameConfirmed: true, ObjectiveCompanyConfirmed: false}
	if !reflect.DeepEqual(second, want) {
		t.Fatalf("second = %#v, want %#v", second, want)
	}
	if v, ok := store.Get(ObjectiveCompanyConfirmed); !ok || v != false {
		t.Fatalf("Get() = %#v, %v", v, ok)
	}
}

func TestObjectiveStoreSetSameValueTwice(t *testing.T) {
	t.Parallel()

	store := NewObjectiveStore()
	a := store.Set(ObjectiveNameConfirmed, true)
	b := store.Set(ObjectiveNameConfirmed, "true")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("snapshots differ: %#v vs %#v", a, b)
	}
}

func TestObjectiveStoreKeepsUnknownNames(t *testing.T) {
	t.Parallel()

	store := NewObjectiveStore()
	snap := store.Set("favourite_colour", "green")
	if v, _ := snap.Get("favourite_colour"); v != "green" {
		t.Fatalf("unknown objective = %#v", v)
	}
}

func TestSnapshotGuards(t *testing.T) {
	t.Parallel()

	snap := Snapshot{"a": true, "b": false, "c": ""}
	if !snap.IsTrue("a") || snap.IsFalse("a") {
		t.Fatal("a should be true")
	}
	if !snap.IsFalse("b") || !snap.IsFalse("c") {
		t.Fatal("b and c should be false")
	}
	if snap.IsTrue("missing") || snap.IsFalse("missing") || snap.Defined("missing") {
		t.Fatal("missing must be neither true nor false")
	}
}

func TestSnapshotJSON(t *testing.T) {
	t.Parallel()

	var empty Snapshot
	if got, _ := empty.JSON(); got != "{}" {
		t.Fatalf("empty JSON = %q", got)
	}

	snap := Snapshot{"name_confirmed": true, "company_confirmed": true}
	got, err := snap.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	const want = `{"company_confirmed":true,"name_confirmed":true}`
	if got != want {
		t.Fatalf("JSON() = %s, want %s", got, want)
	}
}

func TestSnapshotJSONKeepsMarkup(t *testing.T) {
	t.Parallel()

	snap := Snapshot{"who_oversees_cash_mgmt": "R&D lead <finance>"}
	got, err := snap.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	const want = `{"who_oversees_cash_mgmt":"R&D lead <finance>"}`
	if got != want {
		t.Fatalf("JSON() = %s, want %s", got, want)
	}
}
