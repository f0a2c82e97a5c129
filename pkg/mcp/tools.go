package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerGetAgendaTool(srv, svc)
	registerToggleItemTool(srv, svc)
	registerStartFocusTool(srv, svc)
	registerStopFocusTool(srv, svc)
	registerAddTaskTool(srv, svc)
}

var kinds = []string{"intro", "review", "task", "habit", "goal", "step"}

func registerGetAgendaTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_agenda",
		mcp.WithDescription("Resolve the agenda of a day: intros, reviews, tasks and habits, ordered, with lock and focus state."),
		mcp.WithString("date",
			mcp.Description("Day as YYYY-MM-DD. Defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.GetAgenda(ctx, request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerToggleItemTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_item",
		mcp.WithDescription("Mark an agenda item done, or undo it. Locked items are refused."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Item id as returned by get_agenda."),
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Item kind."),
			mcp.Enum(kinds...),
		),
		mcp.WithString("date",
			mcp.Description("Day the completion is recorded on, YYYY-MM-DD. Defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
			Date string `json:"date"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.ToggleItem(ctx, args.Kind, args.ID, args.Date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerStartFocusTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"start_focus",
		mcp.WithDescription("Start a focus countdown on one of today's items. Only one session runs at a time."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Item id as returned by get_agenda."),
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Item kind."),
			mcp.Enum(kinds...),
		),
		mcp.WithNumber("minutes",
			mcp.Description("Session length. Defaults to the item's duration, then the configured default."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		kind, err := request.RequireString("kind")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := svc.StartFocus(ctx, kind, id, request.GetInt("minutes", 0))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(sess)
	})
}

func registerStopFocusTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"stop_focus",
		mcp.WithDescription("Stop the running focus session."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := svc.StopFocus(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(sess)
	})
}

func registerAddTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_task",
		mcp.WithDescription("Add a one-day task."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("What needs doing."),
		),
		mcp.WithString("date",
			mcp.Description("Day as YYYY-MM-DD. Defaults to today."),
		),
		mcp.WithString("priority",
			mcp.Description("Priority."),
			mcp.Enum("high", "medium", "low", "none"),
		),
		mcp.WithString("time",
			mcp.Description("Optional HH:MM start time."),
		),
		mcp.WithNumber("minutes",
			mcp.Description("Optional estimated duration."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := request.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		task, err := svc.AddTask(ctx, AddTaskOptions{
			Title:    title,
			Date:     request.GetString("date", ""),
			Priority: request.GetString("priority", ""),
			Time:     request.GetString("time", ""),
			Minutes:  request.GetInt("minutes", 0),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(task)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
