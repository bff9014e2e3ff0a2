package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/dexfra-fun/dexfra-agent/discovery"
	"github.com/dexfra-fun/dexfra-agent/x402"
)

// maxFetchResultSize bounds how much of a paid response is returned to the
// agent.
const maxFetchResultSize = 1 << 20

// PaidFetchAction fetches a URL, transparently paying an x402 challenge if
// the endpoint demands one.
func PaidFetchAction() Action {
	return Action{
		Name:        "paid_fetch",
		Description: "Fetch a URL, automatically paying a micropayment if the endpoint requires one.",
		Similes:     []string{"fetch_paid_url", "call_paid_api", "pay_and_fetch"},
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The URL to fetch",
				},
				"method": map[string]any{
					"type":        "string",
					"enum":        []any{"GET", "POST"},
					"description": "HTTP method, defaults to GET",
				},
				"body": map[string]any{
					"type":        "string",
					"description": "Request body for POST requests",
				},
			},
			"required": []any{"url"},
		},
		Examples: []Example{
			{
				Description: "Fetch a paid market data endpoint",
				Input:       map[string]any{"url": "https://api.example.com/v1/prices"},
			},
		},
		Handler: func(ctx context.Context, deps *Context, params Params) (any, error) {
			if deps.Payments == nil {
				return nil, fmt.Errorf("payment client is not configured")
			}

			opts := &x402.RequestOptions{Method: params.String("method")}
			if body := params.String("body"); body != "" {
				opts.Body = []byte(body)
			}

			resp, err := deps.Payments.Fetch(ctx, params.String("url"), opts)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchResultSize))
			if err != nil {
				return nil, fmt.Errorf("failed to read response body: %w", err)
			}

			return map[string]any{
				"status": resp.StatusCode,
				"body":   string(data),
			}, nil
		},
	}
}

// DiscoverServicesAction searches the marketplace catalog.
func DiscoverServicesAction() Action {
	return Action{
		Name:        "discover_services",
		Description: "Search the dexfra marketplace for paid API services by category, text, tags and price range.",
		Similes:     []string{"search_marketplace", "find_services", "browse_apis"},
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"category": map[string]any{"type": "string"},
				"search":   map[string]any{"type": "string"},
				"tags": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"minPrice": map[string]any{"type": "number", "minimum": 0},
				"maxPrice": map[string]any{"type": "number", "minimum": 0},
				"limit":    map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
				"offset":   map[string]any{"type": "integer", "minimum": 0},
			},
		},
		Examples: []Example{
			{
				Description: "Find cheap token data services",
				Input:       map[string]any{"category": "Token Data", "maxPrice": 0.01},
			},
		},
		Handler: func(ctx context.Context, deps *Context, params Params) (any, error) {
			if deps.Discovery == nil {
				return nil, fmt.Errorf("discovery client is not configured")
			}

			filters := discovery.Filters{
				Category: params.String("category"),
				Query:    params.String("search"),
			}
			if v, ok := params.Float("minPrice"); ok {
				filters.MinPrice = &v
			}
			if v, ok := params.Float("maxPrice"); ok {
				filters.MaxPrice = &v
			}
			if v, ok := params.Float("limit"); ok {
				filters.Limit = int(v)
			}
			if v, ok := params.Float("offset"); ok {
				filters.Offset = int(v)
			}
			if tags, ok := params["tags"].([]any); ok {
				for _, t := range tags {
					if s, ok := t.(string); ok {
						filters.Tags = append(filters.Tags, s)
					}
				}
			}

			services, err := deps.Discovery.Search(ctx, filters)
			if err != nil {
				return nil, err
			}
			return map[string]any{"services": services, "count": len(services)}, nil
		},
	}
}

// GetBalanceAction reads the agent wallet's balance for a token, or the
// native balance when no token is given.
func GetBalanceAction() Action {
	return Action{
		Name:        "get_balance",
		Description: "Read the agent wallet's balance. Returns the native SOL balance unless a token mint is given.",
		Similes:     []string{"check_balance", "wallet_balance", "token_balance"},
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"token": map[string]any{
					"type":        "string",
					"description": "Token mint address; omit for the native balance",
				},
			},
		},
		Examples: []Example{
			{
				Description: "Check the native balance",
				Input:       map[string]any{},
			},
		},
		Handler: func(ctx context.Context, deps *Context, params Params) (any, error) {
			if deps.Balances == nil {
				return nil, fmt.Errorf("balance reader is not configured")
			}
			return deps.Balances.Get(ctx, params.String("token"))
		},
	}
}

// DefaultRegistry composes the built-in actions.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(PaidFetchAction(), DiscoverServicesAction(), GetBalanceAction())
}
