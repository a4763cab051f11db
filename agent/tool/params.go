package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type UpdateObjectiveParams struct {
	Name   string `json:"name" validate:"required,max=128"`
	Result any    `json:"result"`
}

// CheckDesiredDateParams requires the key only; an empty or unparsable date
// is answered as unavailable.
type CheckDesiredDateParams struct {
	Date string `json:"date" validate:"max=256"`
}

// ParseUpdateObjective accepts a string name and a boolean or string result.
func ParseUpdateObjective(args map[string]any) (UpdateObjectiveParams, error) {
	var p UpdateObjectiveParams

	name, err := stringArg(args, "name")
	if err != nil {
		return p, err
	}
	if strings.TrimSpace(name) == "" {
		return p, invalid("name is required")
	}
	p.Name = name

	raw, ok := args["result"]
	if !ok || raw == nil {
		return p, invalid("result is required")
	}
	switch raw.(type) {
	case bool, string:
		p.Result = raw
	default:
		return p, invalid(fmt.Sprintf("result must be a boolean or string, got %T", raw))
	}

	if err := validate.Struct(p); err != nil {
		return p, translate(err)
	}
	return p, nil
}

func ParseCheckDesiredDate(args map[string]any) (CheckDesiredDateParams, error) {
	var p CheckDesiredDateParams

	date, err := stringArg(args, "date")
	if err != nil {
		return p, err
	}
	p.Date = strings.TrimSpace(date)

	if err := validate.Struct(p); err != nil {
		return p, translate(err)
	}
	return p, nil
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", invalid(key + " is required")
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalid(fmt.Sprintf("%s must be a string, got %T", key, raw))
	}
	return s, nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", contractx.ErrValidation, msg)
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid(err.Error())
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return invalid(field + " is required")
	case "max":
		return invalid(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	default:
		return invalid(fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
}
