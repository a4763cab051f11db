package call

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
	nodex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/nodes/bridge"
	promptx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/prompt"
	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
	toolx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/tool"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/pkg/ultravox"
)

type LauncherConfig struct {
	// PublicURL is where the voice platform reaches our tool endpoints.
	PublicURL string
	Defaults  statex.FixedDetails
	Location  *time.Location
}

// Launcher creates the remote call and registers it with the bridge.
type Launcher struct {
	creator   contractx.CallCreator
	bridge    *Bridge
	publicURL string
	defaults  statex.FixedDetails
	loc       *time.Location
}

func NewLauncher(creator contractx.CallCreator, bridge *Bridge, cfg LauncherConfig) (*Launcher, error) {
	if creator == nil {
		return nil, errors.New("call creator is required")
	}
	if bridge == nil {
		return nil, errors.New("bridge is required")
	}
	publicURL := strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/")
	if publicURL == "" {
		return nil, errors.New("public url is required")
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Launcher{
		creator:   creator,
		bridge:    bridge,
		publicURL: publicURL,
		defaults:  cfg.Defaults,
		loc:       loc,
	}, nil
}

// Launch fills empty fields of req from the configured defaults, opens the
// call and starts tracking it.
func (l *Launcher) Launch(ctx context.Context, req contractx.LaunchRequest) (contractx.LaunchResponse, error) {
	details := req.Details.Merge(l.defaults)
	if err := validate.Struct(details); err != nil {
		return contractx.LaunchResponse{}, fmt.Errorf("%w: call details: %v", contractx.ErrValidation, err)
	}

	opening, err := l.bridge.Opening(ctx, details)
	if err != nil {
		return contractx.LaunchResponse{}, err
	}

	systemPrompt, err := promptx.RenderSystem(ctx, details, l.bridge.now(), l.loc)
	if err != nil {
		return contractx.LaunchResponse{}, fmt.Errorf("%w: %v", contractx.ErrCallSetup, err)
	}

	created, err := l.creator.CreateCall(ctx, ultravox.CreateCallRequest{
		SystemPrompt:         systemPrompt,
		FirstSpeakerSettings: &ultravox.FirstSpeakerSettings{User: &struct{}{}},
		InitialMessages: []ultravox.Message{{
			Role: ultravox.RoleUser,
			Text: nodex.WrapInstruction(opening.Text),
		}},
		SelectedTools: toolx.SelectedTools(l.publicURL),
	})
	if err != nil {
		return contractx.LaunchResponse{}, fmt.Errorf("%w: %w", contractx.ErrCallSetup, err)
	}

	if _, err := l.bridge.Start(ctx, created.CallID, details); err != nil {
		return contractx.LaunchResponse{}, err
	}

	log.Info().Str("call_id", created.CallID).Str("prospect", details.ProspectName).Msg("call launched")
	return contractx.LaunchResponse{
		CallID:      created.CallID,
		JoinURL:     created.JoinURL,
		Instruction: opening.Text,
	}, nil
}
