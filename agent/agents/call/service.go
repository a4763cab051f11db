package call

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
	nodex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/nodes/bridge"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/policy"
	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var _ contractx.ToolGateway = (*Bridge)(nil)

type Option func(*Bridge)

// WithArchive stores a final record of every ended call.
func WithArchive(archive statex.Archive) Option {
	return func(b *Bridge) {
		b.archive = archive
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Bridge) {
		if now != nil {
			b.now = now
		}
	}
}

// Bridge owns the live calls and answers their tool invocations.
type Bridge struct {
	live    *statex.MemoryStore
	archive statex.Archive
	engine  nodex.Synthesizer
	probe   nodex.Prober

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(
	live *statex.MemoryStore,
	engine nodex.Synthesizer,
	probe nodex.Prober,
	opts ...Option,
) (*Bridge, error) {
	if live == nil {
		return nil, errors.New("live call store is required")
	}
	if engine == nil {
		return nil, errors.New("instruction engine is required")
	}
	if probe == nil {
		return nil, errors.New("availability probe is required")
	}

	b := &Bridge{
		live:   live,
		engine: engine,
		probe:  probe,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	graphRunner, err := b.compileHandleToolGraph(context.Background())
	if err != nil {
		return nil, err
	}
	b.graphRunner = graphRunner

	return b, nil
}

// Start registers a fresh call and returns its opening instruction. The
// instruction is not cached, so the first objective update always surfaces
// its directive.
func (b *Bridge) Start(ctx context.Context, callID string, details statex.FixedDetails) (policy.Instruction, error) {
	id := strings.TrimSpace(callID)
	if id == "" {
		return policy.Instruction{}, fmt.Errorf("%w: call id is empty", contractx.ErrValidation)
	}
	if err := validate.Struct(details); err != nil {
		return policy.Instruction{}, fmt.Errorf("%w: call details: %v", contractx.ErrValidation, err)
	}

	opening, err := b.Opening(ctx, details)
	if err != nil {
		return policy.Instruction{}, err
	}

	st := statex.NewCallState(id, details, b.now())
	if err := b.live.Create(ctx, st); err != nil {
		if errors.Is(err, statex.ErrStateExists) {
			return policy.Instruction{}, fmt.Errorf("%w: call_id=%s", contractx.ErrCallExists, id)
		}
		return policy.Instruction{}, err
	}

	log.Info().Str("call_id", id).Str("stage", string(opening.Stage)).Msg("call started")
	return opening, nil
}

// Opening is the instruction for a call with no resolved objectives.
func (b *Bridge) Opening(ctx context.Context, details statex.FixedDetails) (policy.Instruction, error) {
	return b.engine.Synthesize(ctx, details, statex.Snapshot{})
}

func (b *Bridge) HandleTool(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	st, err := b.load(ctx, req.CallID)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}, err
	}

	st.Lock()
	defer st.Unlock()

	if !st.EndedAt.IsZero() {
		err := fmt.Errorf("%w: call_id=%s has ended", contractx.ErrCallNotFound, st.CallID)
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}, err
	}

	out, err := b.graphRunner.Invoke(ctx, nodex.GraphInput{
		Call: st,
		Tool: req.Tool,
		Args: req.Args,
	})
	if err != nil {
		log.Error().Err(err).Str("call_id", st.CallID).Str("tool", req.Tool).Msg("tool invocation failed")
		return contractx.ToolResult{Tool: req.Tool, Error: "tool invocation failed"}, err
	}
	if out.Rejected != nil {
		log.Warn().Err(out.Rejected).Str("call_id", st.CallID).Str("tool", req.Tool).Msg("tool request rejected")
		return out.Result, out.Rejected
	}

	log.Debug().
		Str("call_id", st.CallID).
		Str("tool", req.Tool).
		Str("stage", st.Stage).
		Msg("tool invocation handled")
	return out.Result, nil
}

// Inspect returns the live state of a call.
func (b *Bridge) Inspect(ctx context.Context, callID string) (contractx.CallView, error) {
	st, err := b.load(ctx, callID)
	if err != nil {
		return contractx.CallView{}, err
	}
	st.Lock()
	defer st.Unlock()
	return viewOf(st), nil
}

// End drops the call. Its state is archived when an archive is configured
// but is never read back into another call.
func (b *Bridge) End(ctx context.Context, callID string) (contractx.CallView, error) {
	st, err := b.load(ctx, callID)
	if err != nil {
		return contractx.CallView{}, err
	}

	st.Lock()
	defer st.Unlock()

	now := b.now().UTC()
	st.EndedAt = now
	st.Touch(now)
	if err := b.live.Delete(ctx, st.CallID); err != nil {
		return contractx.CallView{}, err
	}

	if b.archive != nil {
		if err := b.archive.Save(ctx, st); err != nil {
			log.Warn().Err(err).Str("call_id", st.CallID).Msg("archive call outcome failed")
		}
	}

	log.Info().Str("call_id", st.CallID).Str("stage", st.Stage).Msg("call ended")
	return viewOf(st), nil
}

func (b *Bridge) Len() int {
	return b.live.Len()
}

func (b *Bridge) load(ctx context.Context, callID string) (*statex.CallState, error) {
	st, err := b.live.Load(ctx, callID)
	switch {
	case err == nil:
		return st, nil
	case errors.Is(err, statex.ErrStateNotFound), errors.Is(err, statex.ErrInvalidCall):
		return nil, fmt.Errorf("%w: call_id=%s", contractx.ErrCallNotFound, strings.TrimSpace(callID))
	default:
		return nil, err
	}
}

func viewOf(st *statex.CallState) contractx.CallView {
	return contractx.CallView{
		CallID:      st.CallID,
		Details:     st.Details,
		Objectives:  st.Objectives.Clone(),
		Stage:       st.Stage,
		Instruction: st.LastInstruction,
		StartedAt:   st.StartedAt,
		UpdatedAt:   st.UpdatedAt,
	}
}
