package state

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrNilCallState = errors.New("call state is nil")
	ErrInvalidCall  = errors.New("call id is empty")
)

// CallState is everything the bridge keeps for one live call: the fixed
// details, the objective store and the last instruction that was surfaced.
// It is created when the call starts and dropped when it ends.
type CallState struct {
	mu sync.Mutex

	CallID          string       `json:"call_id"`
	Details         FixedDetails `json:"details"`
	Objectives      Snapshot     `json:"objectives"`
	Stage           string       `json:"stage,omitempty"`
	LastInstruction string       `json:"last_instruction,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`

	store *ObjectiveStore
}

func NewCallState(callID string, details FixedDetails, now time.Time) *CallState {
	store := NewObjectiveStore()
	return &CallState{
		CallID:     callID,
		Details:    details,
		Objectives: store.Snapshot(),
		StartedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
		store:      store,
	}
}

// Lock serializes tool invocations against the same call.
func (c *CallState) Lock()   { c.mu.Lock() }
func (c *CallState) Unlock() { c.mu.Unlock() }

func (c *CallState) Touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

// SetObjective routes through the objective store and mirrors the result into
// Objectives so the exported view never drifts from the store.
func (c *CallState) SetObjective(name string, raw any, now time.Time) Snapshot {
	if c.store == nil {
		c.store = &ObjectiveStore{snapshot: c.Objectives.Clone()}
	}
	c.Objectives = c.store.Set(name, raw)
	c.Touch(now)
	return c.Objectives
}

// RecordInstruction updates the last-emitted cache. It reports false when text
// equals what was already surfaced.
func (c *CallState) RecordInstruction(stage, text string) bool {
	c.Stage = stage
	if text == c.LastInstruction {
		return false
	}
	c.LastInstruction = text
	return true
}

func (c *CallState) Validate() error {
	if c == nil {
		return ErrNilCallState
	}
	if strings.TrimSpace(c.CallID) == "" {
		return ErrInvalidCall
	}
	return nil
}
