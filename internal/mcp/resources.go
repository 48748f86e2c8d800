package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) routinesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	routines, err := h.ds.Routines(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, routines)
}

func (h *handlers) currentAttendance(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	now := h.today()
	summary, err := h.ds.Attendance(ctx, now.Year(), int(now.Month())-1)
	if err != nil {
		return nil, err
	}

	return jsonContents(req.Params.URI, map[string]any{
		"month":              now.Format("2006-01"),
		"daysTrainedInMonth": summary.DaysTrainedInMonth,
		"currentStreakDays":  summary.CurrentStreakDays,
	})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
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
