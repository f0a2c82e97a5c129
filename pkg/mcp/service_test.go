package mcp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/daybook/pkg/app"
	"github.com/stefanpenner/daybook/pkg/config"
	"github.com/stefanpenner/daybook/pkg/logging"
	"github.com/stefanpenner/daybook/pkg/model"
)

var now = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func newApp(t *testing.T) *app.Service {
	t.Helper()
	cfg := &config.Config{DataDir: t.TempDir()}
	cfg.Agenda.ReviewIntervals = config.DefaultReviewIntervals
	a, err := app.New(cfg, logging.Discard(), app.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return a
}

func TestServiceAddTaskDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newApp(t))

	task, err := svc.AddTask(ctx, AddTaskOptions{Title: "Write report", Priority: "high", Time: "9:30"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", task.Date)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, "09:30", task.Time)
	assert.Equal(t, model.TaskDay, task.Type)

	_, err = svc.AddTask(ctx, AddTaskOptions{Title: "x", Date: "tomorrow"})
	assert.Error(t, err)
}

func TestServiceAgendaAndToggle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newApp(t))

	task, err := svc.AddTask(ctx, AddTaskOptions{Title: "Report"})
	require.NoError(t, err)

	dto, err := svc.GetAgenda(ctx, "")
	require.NoError(t, err)
	require.Len(t, dto.Tasks, 1)
	assert.Equal(t, 0, dto.Done)
	assert.Equal(t, 1, dto.Total)

	res, err := svc.ToggleItem(ctx, "task", task.ID, "")
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Equal(t, "2024-03-04", res.Date)

	dto, err = svc.GetAgenda(ctx, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, 1, dto.Done)

	_, err = svc.ToggleItem(ctx, "bogus", task.ID, "")
	assert.Error(t, err)
	_, err = svc.GetAgenda(ctx, "03/04/2024")
	assert.Error(t, err)
}

func TestServiceFocus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newApp(t))

	task, err := svc.AddTask(ctx, AddTaskOptions{Title: "Deep work", Minutes: 50})
	require.NoError(t, err)

	sess, err := svc.StartFocus(ctx, "task", task.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, task.ID, sess.ItemID)
	assert.Equal(t, 50, sess.DurationMinutes)

	dto, err := svc.GetAgenda(ctx, "")
	require.NoError(t, err)
	require.Len(t, dto.Tasks, 1)
	assert.True(t, dto.Tasks[0].Common().IsFocused)

	_, err = svc.StopFocus(ctx)
	require.NoError(t, err)
	_, err = svc.StopFocus(ctx)
	assert.Error(t, err)
}

func TestToJSONResult(t *testing.T) {
	res, err := toJSONResult(map[string]int{"done": 2})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var got map[string]int
	require.NoError(t, json.Unmarshal([]byte(text.Text), &got))
	assert.Equal(t, 2, got["done"])
}

func TestEncodeResourceJSON(t *testing.T) {
	contents, err := encodeResourceJSON("daybook://agenda/today", map[string]string{"date": "2024-03-04"})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.JSONEq(t, `{"date":"2024-03-04"}`, text.Text)
}

func TestArgument(t *testing.T) {
	assert.Equal(t, "2024-03-04", argument(map[string]any{"date": "2024-03-04"}, "date"))
	assert.Equal(t, "2024-03-05", argument(map[string]any{"date": []string{"2024-03-05"}}, "date"))
	assert.Equal(t, "", argument(map[string]any{}, "date"))
}

func TestRunnerHTTPStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var addr net.Addr
	r := Runner{
		App:            newApp(t),
		Transport:      TransportHTTP,
		HTTPListenAddr: "127.0.0.1:0",
		OnHTTPListening: func(a net.Addr) {
			addr = a
			cancel()
		},
	}
	require.NoError(t, r.Do(ctx))
	assert.NotNil(t, addr)
}

func TestRunnerRequiresApp(t *testing.T) {
	assert.Error(t, Runner{}.Do(context.Background()))
}
