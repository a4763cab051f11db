package bridgenode

import (
	"fmt"
	"strings"
)

func ApplyObjective(in *GraphState) (*GraphState, error) {
	if in == nil || in.Call == nil {
		return nil, fmt.Errorf("%w: call is missing", ErrIncompleteState)
	}
	if strings.TrimSpace(in.Objective.Name) == "" {
		return nil, fmt.Errorf("%w: objective name is empty", ErrIncompleteState)
	}
	in.Snapshot = in.Call.SetObjective(in.Objective.Name, in.Objective.Result, in.Now)
	return in, nil
}
