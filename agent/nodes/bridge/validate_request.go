package bridgenode

import (
	"fmt"
	"time"

	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
	toolx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/tool"
)

// ValidateRequest parses the tool arguments. Bad requests are not graph
// errors: they are recorded on the state and routed to Reject.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	if in.Call == nil {
		return nil, fmt.Errorf("%w: call is nil", ErrIncompleteState)
	}

	st := &GraphState{
		Call: in.Call,
		Tool: in.Tool,
		Now:  nowFn().UTC(),
	}

	switch in.Tool {
	case toolx.ToolUpdateObjective:
		st.Objective, st.Rejected = toolx.ParseUpdateObjective(in.Args)
	case toolx.ToolCheckDesiredDate:
		st.Date, st.Rejected = toolx.ParseCheckDesiredDate(in.Args)
	default:
		st.Rejected = fmt.Errorf("%w: %q", contractx.ErrUnknownTool, in.Tool)
	}
	return st, nil
}

// Route picks the branch for a validated state.
func Route(in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: state is nil", ErrIncompleteState)
	}
	if in.Rejected != nil {
		return RouteReject, nil
	}
	switch in.Tool {
	case toolx.ToolUpdateObjective:
		return RouteApplyObjective, nil
	case toolx.ToolCheckDesiredDate:
		return RouteCheckAvailability, nil
	default:
		return RouteReject, nil
	}
}

func Reject(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: state is nil", ErrIncompleteState)
	}
	rejected := in.Rejected
	if rejected == nil {
		rejected = fmt.Errorf("%w: %q", contractx.ErrUnknownTool, in.Tool)
	}
	return GraphOutput{
		Result:   contractx.ToolResult{Tool: in.Tool, Error: rejected.Error()},
		Rejected: rejected,
	}, nil
}
