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
		"daybook://agenda/today",
		"Today's agenda",
		mcp.WithResourceDescription("The resolved agenda for today."),
		mcp.WithMIMEType("application/json"),
	)
	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.GetAgenda(ctx, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})

	template := mcp.NewResourceTemplate(
		"daybook://agenda/{date}",
		"Agenda of a day",
		mcp.WithTemplateDescription("The resolved agenda for a YYYY-MM-DD date."),
		mcp.WithTemplateMIMEType("application/json"),
	)
	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		date := argument(request.Params.Arguments, "date")
		if date == "" {
			return nil, fmt.Errorf("date is required")
		}
		dto, err := svc.GetAgenda(ctx, date)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

// argument reads a template variable, which may arrive as a string or a one-element list.
func argument(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
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
