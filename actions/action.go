// Package actions defines the capability descriptors exposed to AI agents
// and the registry that composes them. Handlers only ever run on input that
// already passed schema validation.
package actions

import (
	"context"

	"github.com/dexfra-fun/dexfra-agent/balance"
	"github.com/dexfra-fun/dexfra-agent/discovery"
	"github.com/dexfra-fun/dexfra-agent/logger"
	"github.com/dexfra-fun/dexfra-agent/x402"
)

// Params is a parameter record that has been validated against the action's
// input schema before any handler sees it.
type Params map[string]any

// String returns the named string parameter, or the empty string when absent.
func (p Params) String(key string) string {
	v, _ := p[key].(string)
	return v
}

// Float returns the named numeric parameter and whether it was present.
func (p Params) Float(key string) (float64, bool) {
	v, ok := p[key].(float64)
	return v, ok
}

// Context carries the collaborators handlers may use.
type Context struct {
	Payments  *x402.Client
	Discovery *discovery.Client
	Balances  *balance.Reader
	Logger    logger.Logger
}

// HandlerFunc executes an action with validated parameters.
type HandlerFunc func(ctx context.Context, deps *Context, params Params) (any, error)

// Example illustrates one invocation of an action for agent prompting.
type Example struct {
	Description string         `json:"description"`
	Input       map[string]any `json:"input"`
}

// Action is the uniform capability descriptor exposed to agents.
type Action struct {
	// Name uniquely identifies the action within a registry.
	Name string

	// Description tells the agent what the action does.
	Description string

	// Similes are alternative phrasings agents may use to refer to the
	// action.
	Similes []string

	// InputSchema is a JSON schema document the parameters must satisfy.
	InputSchema map[string]any

	// Examples illustrate typical invocations.
	Examples []Example

	// Handler executes the action.
	Handler HandlerFunc
}
