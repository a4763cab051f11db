package bridgenode

import (
	"encoding/json"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/availability"
)

type Prober interface {
	CheckRaw(raw string) availability.Result
}

func CheckAvailability(in *GraphState, probe Prober) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: state is nil", ErrIncompleteState)
	}
	if in.Call != nil {
		in.Call.Touch(in.Now)
	}

	raw, err := json.Marshal(probe.CheckRaw(in.Date.Date))
	if err != nil {
		return GraphOutput{}, fmt.Errorf("encode availability: %w", err)
	}
	return GraphOutput{
		Result: contractx.ToolResult{Tool: in.Tool, Result: string(raw)},
	}, nil
}
