package ultravox

import "time"

const (
	RoleUser = "MESSAGE_ROLE_USER"

	LocationBody  = "PARAMETER_LOCATION_BODY"
	LocationQuery = "PARAMETER_LOCATION_QUERY"

	KnownParamCallID = "KNOWN_PARAM_CALL_ID"

	ReactionSpeaksOnce = "AGENT_REACTION_SPEAKS_ONCE"
)

// CreateCallRequest is the body of POST /calls.
type CreateCallRequest struct {
	SystemPrompt         string                `json:"systemPrompt"`
	Voice                string                `json:"voice,omitempty"`
	Model                string                `json:"model,omitempty"`
	FirstSpeakerSettings *FirstSpeakerSettings `json:"firstSpeakerSettings,omitempty"`
	InitialMessages      []Message             `json:"initialMessages,omitempty"`
	SelectedTools        []SelectedTool        `json:"selectedTools,omitempty"`
	MaxDuration          string                `json:"maxDuration,omitempty"`
}

type FirstSpeakerSettings struct {
	User  *struct{} `json:"user,omitempty"`
	Agent *struct{} `json:"agent,omitempty"`
}

type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// SelectedTool references a built-in tool by name or declares a temporary one.
type SelectedTool struct {
	ToolName      string         `json:"toolName,omitempty"`
	TemporaryTool *TemporaryTool `json:"temporaryTool,omitempty"`
}

type TemporaryTool struct {
	ModelToolName       string               `json:"modelToolName"`
	Description         string               `json:"description"`
	DynamicParameters   []DynamicParameter   `json:"dynamicParameters,omitempty"`
	AutomaticParameters []AutomaticParameter `json:"automaticParameters,omitempty"`
	HTTP                *HTTPImplementation  `json:"http,omitempty"`
	Client              *struct{}            `json:"client,omitempty"`
	DefaultReaction     string               `json:"defaultReaction,omitempty"`
}

type DynamicParameter struct {
	Name     string         `json:"name"`
	Location string         `json:"location"`
	Schema   map[string]any `json:"schema"`
	Required bool           `json:"required,omitempty"`
}

type AutomaticParameter struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	KnownValue string `json:"knownValue"`
}

type HTTPImplementation struct {
	BaseURLPattern string `json:"baseUrlPattern"`
	HTTPMethod     string `json:"httpMethod"`
}

// Call is the subset of the created call we use.
type Call struct {
	CallID  string    `json:"callId"`
	JoinURL string    `json:"joinUrl"`
	Created time.Time `json:"created"`
}
