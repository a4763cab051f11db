package call

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/nodes/bridge"
)

func (b *Bridge) compileHandleToolGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, b.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.RouteReject,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Reject(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node reject: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.RouteApplyObjective,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ApplyObjective(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node apply_objective: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize_instruction",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.SynthesizeInstruction(ctx, in, b.engine)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize_instruction: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.RouteCheckAvailability,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.CheckAvailability(in, b.probe)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node check_availability: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.Route(in)
		},
		map[string]bool{
			nodex.RouteReject:            true,
			nodex.RouteApplyObjective:    true,
			nodex.RouteCheckAvailability: true,
		},
	)
	if err := graph.AddBranch("validate_request", branch); err != nil {
		return nil, fmt.Errorf("add tool branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{nodex.RouteReject, compose.END},
		{nodex.RouteApplyObjective, "synthesize_instruction"},
		{"synthesize_instruction", compose.END},
		{nodex.RouteCheckAvailability, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("call.handle_tool"))
	if err != nil {
		return nil, fmt.Errorf("compile tool graph: %w", err)
	}
	return runner, nil
}
