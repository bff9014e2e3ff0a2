package actions

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError reports parameters that failed the action's input schema.
type ValidationError struct {
	Action string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameters for action %q: %s",
		e.Action, strings.Join(e.Issues, "; "))
}

// ValidateParams checks raw parameters against the action's input schema and
// returns them as a validated Params record. Actions without a schema accept
// any parameters.
func ValidateParams(a Action, raw map[string]any) (Params, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	if a.InputSchema == nil {
		return Params(raw), nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(a.InputSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed for action %q: %w", a.Name, err)
	}

	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, &ValidationError{Action: a.Name, Issues: issues}
	}

	return Params(raw), nil
}
