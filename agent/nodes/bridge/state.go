package bridgenode

import (
	"errors"
	"time"

	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/policy"
	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
	toolx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/tool"
)

// Branch targets after validate_request.
const (
	RouteReject            = "reject"
	RouteApplyObjective    = "apply_objective"
	RouteCheckAvailability = "check_availability"
)

var ErrIncompleteState = errors.New("graph state is incomplete")

// GraphInput is one tool invocation against a call the caller has locked.
type GraphInput struct {
	Call *statex.CallState
	Tool string
	Args map[string]any
}

// GraphOutput carries the tool answer. Rejected is set for requests refused
// before any state was touched; Result.Error then holds the reason.
type GraphOutput struct {
	Result   contractx.ToolResult
	Rejected error
}

type GraphState struct {
	Call *statex.CallState
	Tool string
	Now  time.Time

	Objective toolx.UpdateObjectiveParams
	Date      toolx.CheckDesiredDateParams
	Rejected  error

	Snapshot    statex.Snapshot
	Instruction policy.Instruction
	Changed     bool
}
