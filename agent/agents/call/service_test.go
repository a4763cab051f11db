package call

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/availability"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/policy"
	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
	toolx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/tool"
)

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func testDetails() statex.FixedDetails {
	return statex.FixedDetails{
		ProspectName:          "Dana Reyes",
		ProspectCompanyName:   "Acme Supply",
		ProspectBusinessTitle: "Controller",
		CustomerName:          "Big Retail",
	}
}

type fakeArchive struct {
	mu    sync.Mutex
	saved []*statex.CallState
	err   error
}

func (f *fakeArchive) Save(_ context.Context, st *statex.CallState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, st)
	return f.err
}

func newTestBridge(t *testing.T, opts ...Option) *Bridge {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	b, err := New(statex.NewMemoryStore(), policy.NewEngine(), availability.New(time.UTC), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

func startCall(t *testing.T, b *Bridge, callID string) policy.Instruction {
	t.Helper()
	inst, err := b.Start(context.Background(), callID, testDetails())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return inst
}

func update(t *testing.T, b *Bridge, callID, name string, result any) string {
	t.Helper()
	out, err := b.HandleTool(context.Background(), contractx.ToolRequest{
		CallID: callID,
		Tool:   toolx.ToolUpdateObjective,
		Args:   map[string]any{"name": name, "result": result},
	})
	if err != nil {
		t.Fatalf("HandleTool(%s=%v) error = %v", name, result, err)
	}
	return out.Result
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, policy.NewEngine(), availability.New(nil)); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := New(statex.NewMemoryStore(), nil, availability.New(nil)); err == nil {
		t.Fatal("expected error for nil engine")
	}
	if _, err := New(statex.NewMemoryStore(), policy.NewEngine(), nil); err == nil {
		t.Fatal("expected error for nil probe")
	}
}

func TestStartReturnsOpeningWithoutCaching(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	inst := startCall(t, b, "call-1")
	if inst.Stage != policy.StageConfirmIdentity {
		t.Fatalf("stage = %s", inst.Stage)
	}

	view, err := b.Inspect(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if view.Instruction != "" || len(view.Objectives) != 0 {
		t.Fatalf("fresh call view = %+v", view)
	}
	if !view.StartedAt.Equal(fixedNow) {
		t.Fatalf("StartedAt = %v", view.StartedAt)
	}
}

func TestStartRejectsDuplicatesAndBadInput(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	startCall(t, b, "call-1")

	if _, err := b.Start(context.Background(), "call-1", testDetails()); !errors.Is(err, contractx.ErrCallExists) {
		t.Fatalf("duplicate Start() error = %v", err)
	}
	if _, err := b.Start(context.Background(), " ", testDetails()); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("empty id Start() error = %v", err)
	}
	if _, err := b.Start(context.Background(), "call-2", statex.FixedDetails{ProspectName: "x"}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("incomplete details Start() error = %v", err)
	}
}

func TestHandleToolUnknownCall(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	out, err := b.HandleTool(context.Background(), contractx.ToolRequest{CallID: "missing", Tool: toolx.ToolCheckDesiredDate})
	if !errors.Is(err, contractx.ErrCallNotFound) {
		t.Fatalf("error = %v", err)
	}
	if out.Error == "" {
		t.Fatal("expected error text in result")
	}
}

func TestHandleToolIdempotentUpdate(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	startCall(t, b, "call-1")

	first := update(t, b, "call-1", statex.ObjectiveNameConfirmed, true)
	if !strings.Contains(first, "<instruction>") {
		t.Fatalf("first update must surface an instruction: %q", first)
	}

	second := update(t, b, "call-1", statex.ObjectiveNameConfirmed, true)
	if second != `{"name_confirmed":true}` {
		t.Fatalf("second update = %q", second)
	}

	third := update(t, b, "call-1", statex.ObjectiveNameConfirmed, "yes")
	if third != `{"name_confirmed":true}` {
		t.Fatalf("normalized repeat = %q", third)
	}
}

func TestHandleToolTerminalBranchHolds(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	startCall(t, b, "call-1")

	first := update(t, b, "call-1", statex.ObjectiveNameConfirmed, "no")
	if !strings.HasPrefix(first, `{"name_confirmed":false}`+"\n\n<instruction>It appears that you have a wrong number") {
		t.Fatalf("wrong-number update = %q", first)
	}

	for _, name := range []string{statex.ObjectiveCompanyConfirmed, statex.ObjectiveAgreedToDemo} {
		got := update(t, b, "call-1", name, true)
		if strings.Contains(got, "<instruction>") {
			t.Fatalf("terminal branch re-emitted after %s: %q", name, got)
		}
	}

	view, err := b.Inspect(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if view.Stage != string(policy.StageWrongNumber) {
		t.Fatalf("stage = %s", view.Stage)
	}
}

func TestHandleToolReachesScheduling(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	startCall(t, b, "call-1")

	steps := []struct {
		name   string
		result any
		stage  policy.Stage
	}{
		{statex.ObjectiveNameConfirmed, true, policy.StageVerifyCompany},
		{statex.ObjectiveCompanyConfirmed, "yes", policy.StageDiscovery},
		{statex.ObjectiveFamiliarWithC2FO, true, policy.StageDiscovery},
		{statex.ObjectiveWouldBeBeneficial, true, policy.StageDiscovery},
		{statex.ObjectiveHasBlockingArrangements, "no", policy.StageDiscovery},
		{statex.ObjectiveCashMgmtOwner, "CFO", policy.StagePersuasion},
		{statex.ObjectiveAgreedToDemo, true, policy.StageScheduling},
		{statex.ObjectiveConfirmedDemoDate, "2024-03-12T10:00:00-07:00", policy.StageConfirmed},
	}

	for _, step := range steps {
		got := update(t, b, "call-1", step.name, step.result)
		if !strings.Contains(got, "<instruction>") {
			t.Fatalf("%s: expected new instruction, got %q", step.name, got)
		}
		view, err := b.Inspect(context.Background(), "call-1")
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if view.Stage != string(step.stage) {
			t.Fatalf("%s: stage = %s, want %s", step.name, view.Stage, step.stage)
		}
	}

	view, _ := b.Inspect(context.Background(), "call-1")
	if !strings.Contains(view.Instruction, "2024-03-12T10:00:00-07:00") {
		t.Fatalf("confirmed instruction = %q", view.Instruction)
	}
	if view.Objectives[statex.ObjectiveHasBlockingArrangements] != false {
		t.Fatalf("objectives = %v", view.Objectives)
	}
}

func TestHandleToolRejectsBadRequests(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	startCall(t, b, "call-1")

	tests := []struct {
		name string
		req  contractx.ToolRequest
		want error
	}{
		{
			name: "missing result",
			req:  contractx.ToolRequest{CallID: "call-1", Tool: toolx.ToolUpdateObjective, Args: map[string]any{"name": "x"}},
			want: contractx.ErrValidation,
		},
		{
			name: "missing date",
			req:  contractx.ToolRequest{CallID: "call-1", Tool: toolx.ToolCheckDesiredDate},
			want: contractx.ErrValidation,
		},
		{
			name: "unknown tool",
			req:  contractx.ToolRequest{CallID: "call-1", Tool: "transfer"},
			want: contractx.ErrUnknownTool,
		},
	}

	for _, tt := range tests {
		out, err := b.HandleTool(context.Background(), tt.req)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
		if out.Error == "" || out.Result != "" {
			t.Fatalf("%s: result = %+v", tt.name, out)
		}
	}

	view, _ := b.Inspect(context.Background(), "call-1")
	if len(view.Objectives) != 0 {
		t.Fatalf("rejected requests changed state: %v", view.Objectives)
	}
}

func TestHandleToolCheckDesiredDate(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	startCall(t, b, "call-1")

	out, err := b.HandleTool(context.Background(), contractx.ToolRequest{
		CallID: "call-1",
		Tool:   toolx.ToolCheckDesiredDate,
		Args:   map[string]any{"date": "2024-03-08T15:00:00Z"},
	})
	if err != nil {
		t.Fatalf("HandleTool() error = %v", err)
	}

	var res availability.Result
	if err := json.Unmarshal([]byte(out.Result), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.IsExactAvailable || len(res.SuggestedTimes) != 5 {
		t.Fatalf("result = %+v", res)
	}
	if res.SuggestedTimes[0].Day() != 5 {
		t.Fatalf("first suggestion = %v", res.SuggestedTimes[0])
	}

	out, err = b.HandleTool(context.Background(), contractx.ToolRequest{
		CallID: "call-1",
		Tool:   toolx.ToolCheckDesiredDate,
		Args:   map[string]any{"date": "someday"},
	})
	if err != nil {
		t.Fatalf("HandleTool() invalid date error = %v", err)
	}
	if out.Result != `{"isExactAvailable":false,"suggestedTimes":[]}` {
		t.Fatalf("invalid date result = %s", out.Result)
	}

	out, err = b.HandleTool(context.Background(), contractx.ToolRequest{
		CallID: "call-1",
		Tool:   toolx.ToolCheckDesiredDate,
		Args:   map[string]any{"date": ""},
	})
	if err != nil {
		t.Fatalf("HandleTool() empty date error = %v", err)
	}
	if out.Result != `{"isExactAvailable":false,"suggestedTimes":[]}` {
		t.Fatalf("empty date result = %s", out.Result)
	}
}

func TestHandleToolConcurrentUpdates(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	startCall(t, b, "call-1")

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := b.HandleTool(context.Background(), contractx.ToolRequest{
				CallID: "call-1",
				Tool:   toolx.ToolUpdateObjective,
				Args:   map[string]any{"name": fmt.Sprintf("note_%d", i), "result": "x"},
			})
			if err != nil {
				t.Errorf("HandleTool() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	view, _ := b.Inspect(context.Background(), "call-1")
	if len(view.Objectives) != 16 {
		t.Fatalf("lost updates: %d objectives", len(view.Objectives))
	}
}

func TestEndDiscardsAndArchives(t *testing.T) {
	t.Parallel()

	archive := &fakeArchive{}
	b := newTestBridge(t, WithArchive(archive))
	startCall(t, b, "call-1")
	update(t, b, "call-1", statex.ObjectiveNameConfirmed, true)

	view, err := b.End(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if view.Objectives[statex.ObjectiveNameConfirmed] != true {
		t.Fatalf("final view = %+v", view)
	}
	if b.Len() != 0 {
		t.Fatalf("live calls = %d", b.Len())
	}
	if len(archive.saved) != 1 || archive.saved[0].EndedAt.IsZero() {
		t.Fatalf("archive = %+v", archive.saved)
	}

	if _, err := b.HandleTool(context.Background(), contractx.ToolRequest{CallID: "call-1", Tool: toolx.ToolCheckDesiredDate}); !errors.Is(err, contractx.ErrCallNotFound) {
		t.Fatalf("HandleTool() after End error = %v", err)
	}
	if _, err := b.End(context.Background(), "call-1"); !errors.Is(err, contractx.ErrCallNotFound) {
		t.Fatalf("second End() error = %v", err)
	}

	// A new call with the same id starts from scratch.
	startCall(t, b, "call-1")
	fresh, _ := b.Inspect(context.Background(), "call-1")
	if len(fresh.Objectives) != 0 || fresh.Instruction != "" {
		t.Fatalf("state leaked across calls: %+v", fresh)
	}
}

func TestEndArchiveFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t, WithArchive(&fakeArchive{err: errors.New("redis down")}))
	startCall(t, b, "call-1")
	if _, err := b.End(context.Background(), "call-1"); err != nil {
		t.Fatalf("End() error = %v", err)
	}
}
