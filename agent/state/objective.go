package state

import (
	"bytes"
	"encoding/json"
	"maps"
)

// Objective names consulted by the call policy. Any other name is stored
// verbatim and simply never consulted.
const (
	ObjectiveNameConfirmed           = "name_confirmed"
	ObjectiveCompanyConfirmed        = "company_confirmed"
	ObjectiveFamiliarWithC2FO        = "is_familiar_with_c2fo"
	ObjectiveWouldBeBeneficial       = "would_be_beneficial"
	ObjectiveHasBlockingArrangements = "does_currently_have_blocking_arrangements"
	ObjectiveCashMgmtOwner           = "who_oversees_cash_mgmt"
	ObjectiveAgreedToDemo            = "did_agree_to_demo"
	ObjectiveConfirmedDemoDate       = "confirmed_demo_date"
)

// Snapshot maps objective name to its resolved value for exactly one call.
// Treat it as immutable; ObjectiveStore.Set always produces a new one.
type Snapshot map[string]any

func (s Snapshot) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s[name]
	return v, ok
}

func (s Snapshot) Defined(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// IsTrue reports whether name is defined with a truthy value.
func (s Snapshot) IsTrue(name string) bool {
	v, ok := s.Get(name)
	return ok && Truthy(v)
}

// IsFalse reports whether name is defined with a falsy value.
func (s Snapshot) IsFalse(name string) bool {
	v, ok := s.Get(name)
	return ok && !Truthy(v)
}

func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s)+1)
	maps.Copy(out, s)
	return out
}

// JSON renders the snapshot with sorted keys; an empty snapshot is "{}".
func (s Snapshot) JSON() (string, error) {
	if s == nil {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(s)); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Normalize maps the spoken yes/no forms the model tends to send onto
// booleans. Everything else passes through unchanged.
func Normalize(raw any) any {
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	switch s {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	default:
		return s
	}
}

// Truthy follows template truthiness: false, "", 0 and nil are falsy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

// ObjectiveStore holds the current snapshot for one call. It never triggers
// instruction regeneration on its own.
type ObjectiveStore struct {
	snapshot Snapshot
}

func NewObjectiveStore() *ObjectiveStore {
	return &ObjectiveStore{snapshot: Snapshot{}}
}

func (o *ObjectiveStore) Get(name string) (any, bool) {
	return o.snapshot.Get(name)
}

// Set normalizes raw, stores it under name and returns the new snapshot.
func (o *ObjectiveStore) Set(name string, raw any) Snapshot {
	next := o.snapshot.Clone()
	next[name] = Normalize(raw)
	o.snapshot = next
	return next
}

func (o *ObjectiveStore) Snapshot() Snapshot {
	return o.snapshot
}
