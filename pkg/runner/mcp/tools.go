package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/sidenav/pkg/layout"
)

var (
	getPreferenceTool = mcp.NewTool(
		"get_preference",
		mcp.WithDescription("Read one stored navigation preference."),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Preference key, e.g. layout or sidebarCollapsed."),
		),
	)

	setPreferenceTool = mcp.NewTool(
		"set_preference",
		mcp.WithDescription("Store one navigation preference. Values are JSON literals."),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Preference key, e.g. layout or sidebarCollapsed."),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description(`JSON literal such as "horizontal", true or 300.`),
		),
	)

	setLayoutTool = mcp.NewTool(
		"set_layout",
		mcp.WithDescription("Switch the navigation layout."),
		mcp.WithString("layout",
			mcp.Required(),
			mcp.Description("Layout to show."),
			mcp.Enum(layout.Layouts...),
		),
	)

	matchPathTool = mcp.NewTool(
		"match_path",
		mcp.WithDescription("Report which navigation item paths are active for a URL path."),
		mcp.WithString("current",
			mcp.Required(),
			mcp.Description("The current URL path."),
		),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description("Comma separated item paths."),
		),
		mcp.WithBoolean("exact",
			mcp.Description("Only match the item path itself."),
		),
	)
)

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(getPreferenceTool, handleGetPreference(svc))
	srv.AddTool(setPreferenceTool, handleSetPreference(svc))
	srv.AddTool(setLayoutTool, handleSetLayout(svc))
	srv.AddTool(matchPathTool, handleMatchPath(svc))
}

type toolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

func handleGetPreference(svc *Service) toolHandler {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := request.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: key"), nil
		}
		v, err := svc.Preference(key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{key: v})
	}
}

func handleSetPreference(svc *Service) toolHandler {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := request.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: key"), nil
		}
		raw, err := request.RequireString("value")
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: value"), nil
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("value is not a JSON literal: %v", err)), nil
		}
		if err := svc.SetPreference(key, value); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(svc.Preferences())
	}
}

func handleSetLayout(svc *Service) toolHandler {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v, err := request.RequireString("layout")
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: layout"), nil
		}
		if err := svc.SetPreference(layout.KeyLayout, v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("layout set to " + v), nil
	}
}

func handleMatchPath(svc *Service) toolHandler {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		current, err := request.RequireString("current")
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: current"), nil
		}
		raw, err := request.RequireString("items")
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: items"), nil
		}
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return toJSONResult(svc.Match(current, items, request.GetBool("exact", false)))
	}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
