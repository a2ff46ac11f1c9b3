package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskchat/repository/bolt"
	"github.com/fastygo/taskchat/usecase/access"
	taskUC "github.com/fastygo/taskchat/usecase/task"
)

type toolRecorder struct {
	calls map[string]int
	errs  map[string]int
}

func (r *toolRecorder) RecordTaskOperation(string, string) {}
func (r *toolRecorder) RecordChatIntent(string)            {}
func (r *toolRecorder) RecordToolCall(tool string, isError bool) {
	r.calls[tool]++
	if isError {
		r.errs[tool]++
	}
}

func newDispatcher(t *testing.T) (*Dispatcher, *taskUC.UseCase, *toolRecorder) {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "tools.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := db.Store()
	rec := &toolRecorder{calls: map[string]int{}, errs: map[string]int{}}
	tasks := taskUC.New(store.Tasks, store.Users, rec, nil)
	d := NewDispatcher(access.NewGuard(nil), rec, nil)
	RegisterTaskTools(d, tasks)
	return d, tasks, rec
}

func decodeError(t *testing.T, env Envelope) string {
	t.Helper()
	require.True(t, env.IsError, env.Content)
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(env.Content), &payload))
	assert.Equal(t, "error", payload["status"])
	return payload["error"]
}

func TestDefinitions(t *testing.T) {
	d, _, _ := newDispatcher(t)

	defs := d.Definitions()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"add_task", "list_tasks", "complete_task", "delete_task", "update_task"}, names)

	var schema struct {
		Type       string                            `json:"type"`
		Required   []string                          `json:"required"`
		Properties map[string]map[string]interface{} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(defs[1].InputSchema, &schema))
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"user_id"}, schema.Required)
	assert.Equal(t, []interface{}{"all", "pending", "completed"}, schema.Properties["status"]["enum"])
	assert.Equal(t, "all", schema.Properties["status"]["default"])

	require.NoError(t, json.Unmarshal(defs[2].InputSchema, &schema))
	assert.ElementsMatch(t, []string{"user_id", "task_id"}, schema.Required)
	assert.Equal(t, "integer", schema.Properties["task_id"]["type"])
}

func TestCall_AddAndList(t *testing.T) {
	d, _, rec := newDispatcher(t)
	ctx := context.Background()

	env := d.Call(ctx, "u1", "add_task", map[string]interface{}{"user_id": "u1", "title": "Buy milk"})
	require.False(t, env.IsError, env.Content)

	var created taskUC.Result
	require.NoError(t, json.Unmarshal([]byte(env.Content), &created))
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, taskUC.StatusCreated, created.Status)

	env = d.Call(ctx, "u1", "list_tasks", map[string]interface{}{"user_id": "u1"})
	require.False(t, env.IsError, env.Content)

	var listed []taskUC.Result
	require.NoError(t, json.Unmarshal([]byte(env.Content), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	assert.Equal(t, 1, rec.calls["add_task"])
	assert.Equal(t, 0, rec.errs["add_task"])
}

func TestCall_CompleteUpdateDelete(t *testing.T) {
	d, tasks, _ := newDispatcher(t)
	ctx := context.Background()

	created, err := tasks.AddTask(ctx, "u1", taskUC.CreateRequest{Title: "Draft"})
	require.NoError(t, err)
	id := float64(created.ID)

	env := d.Call(ctx, "u1", "complete_task", map[string]interface{}{"user_id": "u1", "task_id": id})
	require.False(t, env.IsError, env.Content)
	var res taskUC.Result
	require.NoError(t, json.Unmarshal([]byte(env.Content), &res))
	assert.True(t, res.Completed)
	assert.Equal(t, taskUC.StatusCompleted, res.Status)

	env = d.Call(ctx, "u1", "update_task", map[string]interface{}{
		"user_id": "u1", "task_id": id, "title": "Final", "completed": false,
	})
	require.False(t, env.IsError, env.Content)
	require.NoError(t, json.Unmarshal([]byte(env.Content), &res))
	assert.Equal(t, "Final", res.Title)
	assert.False(t, res.Completed)
	assert.Equal(t, taskUC.StatusUpdated, res.Status)

	env = d.Call(ctx, "u1", "delete_task", map[string]interface{}{"user_id": "u1", "task_id": id})
	require.False(t, env.IsError, env.Content)
	require.NoError(t, json.Unmarshal([]byte(env.Content), &res))
	assert.Equal(t, taskUC.StatusDeleted, res.Status)
}

func TestCall_Errors(t *testing.T) {
	d, tasks, rec := newDispatcher(t)
	ctx := context.Background()

	created, err := tasks.AddTask(ctx, "u2", taskUC.CreateRequest{Title: "Not yours"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		identity string
		tool     string
		args     map[string]interface{}
		want     string
	}{
		{
			name:     "unknown tool",
			identity: "u1",
			tool:     "rename_task",
			args:     map[string]interface{}{"user_id": "u1"},
			want:     "unknown tool: rename_task",
		},
		{
			name:     "missing required",
			identity: "u1",
			tool:     "add_task",
			args:     map[string]interface{}{"user_id": "u1"},
			want:     "missing required argument: title",
		},
		{
			name:     "wrong type",
			identity: "u1",
			tool:     "delete_task",
			args:     map[string]interface{}{"user_id": "u1", "task_id": "7"},
			want:     "argument task_id must be integer",
		},
		{
			name:     "fractional id",
			identity: "u1",
			tool:     "delete_task",
			args:     map[string]interface{}{"user_id": "u1", "task_id": 1.5},
			want:     "argument task_id must be integer",
		},
		{
			name:     "bad enum",
			identity: "u1",
			tool:     "list_tasks",
			args:     map[string]interface{}{"user_id": "u1", "status": "archived"},
			want:     "argument status must be one of all, pending, completed",
		},
		{
			name:     "foreign owner",
			identity: "u1",
			tool:     "list_tasks",
			args:     map[string]interface{}{"user_id": "u2"},
			want:     "not authorized to access this user's resources",
		},
		{
			name:     "no identity",
			identity: "",
			tool:     "list_tasks",
			args:     map[string]interface{}{"user_id": "u1"},
			want:     "not authorized to access this user's resources",
		},
		{
			name:     "task of another user is not found",
			identity: "u1",
			tool:     "complete_task",
			args:     map[string]interface{}{"user_id": "u1", "task_id": float64(created.ID)},
			want:     "Task " + jsonNumber(created.ID) + " not found for user u1",
		},
		{
			name:     "empty title",
			identity: "u1",
			tool:     "add_task",
			args:     map[string]interface{}{"user_id": "u1", "title": "  "},
			want:     "title must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := d.Call(ctx, tt.identity, tt.tool, tt.args)
			assert.Equal(t, tt.want, decodeError(t, env))
		})
	}

	got, err := tasks.GetTask(ctx, "u2", created.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Equal(t, 1, rec.errs["rename_task"])
}

func TestCall_CompleteMissingTaskIsError(t *testing.T) {
	d, _, _ := newDispatcher(t)

	env := d.Call(context.Background(), "u1", "complete_task", map[string]interface{}{"user_id": "u1", "task_id": float64(999)})
	assert.Equal(t, "Task 999 not found for user u1", decodeError(t, env))
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(float64(id))
	return string(b)
}

func TestCall_UnknownToolsShareOneMetricLabel(t *testing.T) {
	d, _, rec := newDispatcher(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		env := d.Call(ctx, "u1", fmt.Sprintf("made-up-%d", i), nil)
		assert.True(t, env.IsError)
	}
	d.Call(ctx, "u1", "list_tasks", map[string]interface{}{"user_id": "u1"})

	assert.Equal(t, map[string]int{UnknownToolLabel: 50, "list_tasks": 1}, rec.calls)
	assert.Equal(t, 50, rec.errs[UnknownToolLabel])
}
