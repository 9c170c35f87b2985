package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"sidenav://preferences",
		"Preferences",
		mcp.WithResourceDescription("The stored navigation preference record."),
		mcp.WithMIMEType("application/json"),
	)
	srv.AddResource(resource, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return encodeResourceJSON(request.Params.URI, svc.Preferences())
	})

	template := mcp.NewResourceTemplate(
		"sidenav://preferences/{key}",
		"Preference",
		mcp.WithTemplateDescription("One stored navigation preference."),
		mcp.WithTemplateMIMEType("application/json"),
	)
	srv.AddResourceTemplate(template, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		key, _ := request.Params.Arguments["key"].(string)
		if key == "" {
			return nil, fmt.Errorf("preference key is required")
		}
		v, err := svc.Preference(key)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{key: v})
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
