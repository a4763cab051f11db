package prompt

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
)

//go:embed template/system.txt
var systemRaw string

// DatetimeLayout matches the en-US short form the agent is used to hearing.
const DatetimeLayout = "01/02/2006, 03:04:05 PM"

// System returns the system prompt source with indentation and blank lines
// removed, as the voice model receives it.
func System() string {
	return Compact(systemRaw)
}

// Compact strips leading whitespace from every line and drops empty lines.
func Compact(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimLeft(strings.TrimRight(line, "\r"), " \t")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// RenderSystem fills the system prompt for one call.
func RenderSystem(ctx context.Context, details statex.FixedDetails, now time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	vars := details.Vars()
	vars["current_datetime"] = now.In(loc).Format(DatetimeLayout)

	tpl := einoprompt.FromMessages(schema.FString, schema.SystemMessage(System()))
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", errors.New("render system prompt: no message")
	}
	return msgs[0].Content, nil
}
