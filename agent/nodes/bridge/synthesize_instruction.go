package bridgenode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/policy"
	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, details statex.FixedDetails, snap statex.Snapshot) (policy.Instruction, error)
}

// SynthesizeInstruction recomputes the directive and answers with the
// snapshot, appending the directive only when it differs from the last one.
func SynthesizeInstruction(ctx context.Context, in *GraphState, engine Synthesizer) (GraphOutput, error) {
	if in == nil || in.Call == nil {
		return GraphOutput{}, fmt.Errorf("%w: call is missing", ErrIncompleteState)
	}

	instruction, err := engine.Synthesize(ctx, in.Call.Details, in.Snapshot)
	if err != nil {
		return GraphOutput{}, err
	}
	in.Instruction = instruction
	in.Changed = in.Call.RecordInstruction(string(instruction.Stage), instruction.Text)

	snapJSON, err := in.Snapshot.JSON()
	if err != nil {
		return GraphOutput{}, fmt.Errorf("encode objectives: %w", err)
	}

	payload := snapJSON
	if in.Changed {
		payload = FormatUpdate(snapJSON, instruction.Text)
	}
	return GraphOutput{
		Result: contractx.ToolResult{Tool: in.Tool, Result: payload},
	}, nil
}

// FormatUpdate joins the snapshot and a new directive the way the voice
// model expects them.
func FormatUpdate(snapshotJSON, instruction string) string {
	return snapshotJSON + "\n\n" + WrapInstruction(instruction)
}

func WrapInstruction(text string) string {
	return "<instruction>" + text + "</instruction>"
}
