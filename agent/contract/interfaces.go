package contract

import (
	"context"

	"github.com/tanpawarit/Chative-Sales-Call-Agent/pkg/ultravox"
)

type ToolGateway interface {
	HandleTool(ctx context.Context, req ToolRequest) (ToolResult, error)
}

// CallCreator opens the remote voice call that will later invoke our tools.
type CallCreator interface {
	CreateCall(ctx context.Context, req ultravox.CreateCallRequest) (*ultravox.Call, error)
}
