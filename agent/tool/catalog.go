package tool

import (
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/pkg/ultravox"
)

const (
	ToolUpdateObjective  = "updateObjective"
	ToolCheckDesiredDate = "checkDesiredDate"
	ToolHangUp           = "hangUp"

	// CallIDParam carries the call id on every tool request.
	CallIDParam = "call_id"
)

type param struct {
	name     string
	info     *schema.ParameterInfo
	jsonSpec map[string]any
}

type declaration struct {
	name     string
	desc     string
	params   []param
	reaction string
}

var declarations = []declaration{
	{
		name: ToolUpdateObjective,
		desc: "Updates an objective status",
		params: []param{
			{
				name: "name",
				info: &schema.ParameterInfo{
					Type:     schema.String,
					Desc:     "The objective to update. Must match a specific objective name.",
					Required: true,
				},
				jsonSpec: map[string]any{
					"type":        "string",
					"description": "The objective to update. Must match a specific objective name.",
				},
			},
			{
				name: "result",
				info: &schema.ParameterInfo{
					Type:     schema.String,
					Desc:     "The objective result.",
					Required: true,
				},
				jsonSpec: map[string]any{
					"anyOf":       []any{map[string]any{"type": "boolean"}, map[string]any{"type": "string"}},
					"description": "The objective result.",
				},
			},
		},
		reaction: ultravox.ReactionSpeaksOnce,
	},
	{
		name: ToolCheckDesiredDate,
		desc: "Check if the desired date is available for a demo.",
		params: []param{
			{
				name: "date",
				info: &schema.ParameterInfo{
					Type:     schema.String,
					Desc:     "The ISO 8601 datetime to check.",
					Required: true,
				},
				jsonSpec: map[string]any{
					"type":        "string",
					"format":      "date-time",
					"description": "The ISO 8601 datetime to check.",
				},
			},
		},
	},
}

// Infos describes the call tools in eino form.
func Infos() []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(declarations))
	for _, decl := range declarations {
		params := make(map[string]*schema.ParameterInfo, len(decl.params))
		for _, p := range decl.params {
			params[p.name] = p.info
		}
		out = append(out, &schema.ToolInfo{
			Name:        decl.name,
			Desc:        decl.desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return out
}

// Known reports whether name is a tool this service answers.
func Known(name string) bool {
	for _, decl := range declarations {
		if decl.name == name {
			return true
		}
	}
	return false
}

// SelectedTools is the tool list registered when a call is created. Each
// temporary tool posts back to {baseURL}/v1/tools/{name} with the call id
// as a query parameter.
func SelectedTools(baseURL string) []ultravox.SelectedTool {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	out := make([]ultravox.SelectedTool, 0, len(declarations)+1)
	out = append(out, ultravox.SelectedTool{ToolName: ToolHangUp})

	for _, decl := range declarations {
		dynamic := make([]ultravox.DynamicParameter, 0, len(decl.params))
		for _, p := range decl.params {
			dynamic = append(dynamic, ultravox.DynamicParameter{
				Name:     p.name,
				Location: ultravox.LocationBody,
				Schema:   p.jsonSpec,
				Required: p.info.Required,
			})
		}
		out = append(out, ultravox.SelectedTool{
			TemporaryTool: &ultravox.TemporaryTool{
				ModelToolName:     decl.name,
				Description:       decl.desc,
				DynamicParameters: dynamic,
				AutomaticParameters: []ultravox.AutomaticParameter{{
					Name:       CallIDParam,
					Location:   ultravox.LocationQuery,
					KnownValue: ultravox.KnownParamCallID,
				}},
				HTTP: &ultravox.HTTPImplementation{
					BaseURLPattern: base + "/v1/tools/" + decl.name,
					HTTPMethod:     http.MethodPost,
				},
				DefaultReaction: decl.reaction,
			},
		})
	}
	return out
}
