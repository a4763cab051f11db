package policy

import (
	"context"
	"errors"
	"fmt"
	"maps"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
)

var ErrNoRuleMatched = errors.New("no instruction rule matched")

// Instruction is the directive selected for a snapshot.
type Instruction struct {
	Stage    Stage    `json:"stage"`
	Text     string   `json:"text"`
	Requests []string `json:"requests"`
	Terminal bool     `json:"terminal"`
}

// Engine evaluates an ordered rule table, first match wins. It reads nothing
// but its inputs, so equal inputs always give equal text.
type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

func (e *Engine) Rules() []Rule {
	return e.rules
}

// Match returns the first rule whose guard accepts snap.
func (e *Engine) Match(snap statex.Snapshot) (Rule, bool) {
	for _, rule := range e.rules {
		if rule.Guard != nil && rule.Guard(snap) {
			return rule, true
		}
	}
	return Rule{}, false
}

func (e *Engine) Synthesize(ctx context.Context, details statex.FixedDetails, snap statex.Snapshot) (Instruction, error) {
	rule, ok := e.Match(snap)
	if !ok {
		return Instruction{}, ErrNoRuleMatched
	}

	text, err := render(ctx, rule.Template(snap), templateVars(details, snap))
	if err != nil {
		return Instruction{}, fmt.Errorf("%w: stage %s: %v", contractx.ErrRender, rule.Stage, err)
	}

	var reqs []string
	if rule.Requests != nil {
		reqs = rule.Requests(snap)
	}
	if reqs == nil {
		reqs = []string{}
	}

	return Instruction{
		Stage:    rule.Stage,
		Text:     text,
		Requests: reqs,
		Terminal: rule.Terminal,
	}, nil
}

func templateVars(details statex.FixedDetails, snap statex.Snapshot) map[string]any {
	vars := details.Vars()
	extra := map[string]any{statex.ObjectiveConfirmedDemoDate: ""}
	if v, ok := snap.Get(statex.ObjectiveConfirmedDemoDate); ok {
		extra[statex.ObjectiveConfirmedDemoDate] = fmt.Sprint(v)
	}
	maps.Copy(vars, extra)
	return vars
}

func render(ctx context.Context, source string, vars map[string]any) (string, error) {
	tpl := einoprompt.FromMessages(schema.FString, schema.UserMessage(source))
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", errors.New("template produced no message")
	}
	return msgs[0].Content, nil
}
