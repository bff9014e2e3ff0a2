// Package mcptools exposes an action registry as MCP tools using the
// official Go MCP SDK.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dexfra-fun/dexfra-agent/actions"
	"github.com/dexfra-fun/dexfra-agent/logger"
)

// MaxTools is the hard cap on how many actions are exposed to a single MCP
// server. Registries beyond the cap are truncated with a warning.
const MaxTools = 128

// Adapter converts action descriptors into MCP tools.
type Adapter struct {
	registry *actions.Registry
	deps     *actions.Context
	log      logger.Logger
}

// NewAdapter creates an adapter for the given registry and handler
// dependencies.
func NewAdapter(registry *actions.Registry, deps *actions.Context, log logger.Logger) (*Adapter, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if deps == nil {
		deps = &actions.Context{}
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Adapter{registry: registry, deps: deps, log: log}, nil
}

// Register adds every action in the registry to the MCP server as a tool, up
// to MaxTools. Returns the number of tools registered.
func (a *Adapter) Register(server *mcpsdk.Server) (int, error) {
	if server == nil {
		return 0, fmt.Errorf("mcp server is required")
	}

	all := a.registry.List()
	if len(all) > MaxTools {
		a.log.Warn("action registry exceeds the MCP tool cap, truncating", map[string]any{
			"actions": len(all),
			"cap":     MaxTools,
		})
		all = all[:MaxTools]
	}

	for _, action := range all {
		server.AddTool(toolFromAction(action), a.handlerFor(action.Name))
	}
	return len(all), nil
}

// toolFromAction builds the MCP tool descriptor. Similes are folded into the
// description since MCP has no dedicated field for them.
func toolFromAction(action actions.Action) *mcpsdk.Tool {
	description := action.Description
	if len(action.Similes) > 0 {
		description += " Also known as: " + strings.Join(action.Similes, ", ") + "."
	}

	schema := action.InputSchema
	if schema == nil {
		schema = map[string]any{"type": "object"}
	}

	return &mcpsdk.Tool{
		Name:        action.Name,
		Description: description,
		InputSchema: schema,
	}
}

// toolFailure is the shape every handler failure is reported in. Errors
// never propagate to the MCP server.
type toolFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Action  string `json:"action"`
}

// handlerFor wraps an action handler into the MCP tool handler signature.
func (a *Adapter) handlerFor(name string) func(context.Context, *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		args := make(map[string]any)
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return a.failureResult(name, fmt.Errorf("arguments are not a JSON object: %w", err)), nil
			}
		}

		result, err := a.execute(ctx, name, args)
		if err != nil {
			return a.failureResult(name, err), nil
		}

		payload, err := json.Marshal(result)
		if err != nil {
			return a.failureResult(name, fmt.Errorf("failed to encode result: %w", err)), nil
		}

		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: string(payload)},
			},
		}, nil
	}
}

// execute runs the action, converting a panic into an error.
func (a *Adapter) execute(ctx context.Context, name string, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return a.registry.Execute(ctx, a.deps, name, args)
}

func (a *Adapter) failureResult(name string, err error) *mcpsdk.CallToolResult {
	a.log.Warn("action failed", map[string]any{
		"action": name,
		"error":  err.Error(),
	})

	payload, _ := json.Marshal(toolFailure{
		Success: false,
		Error:   err.Error(),
		Action:  name,
	})
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(payload)},
		},
	}
}
