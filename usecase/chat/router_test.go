package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskchat/domain"
	taskUC "github.com/fastygo/taskchat/usecase/task"
)

type fakeTasks struct {
	added   []taskUC.CreateRequest
	filters []domain.TaskStatus
	listed  []taskUC.Result
	addErr  error
	listErr error
}

func (f *fakeTasks) AddTask(_ context.Context, _ string, req taskUC.CreateRequest) (*taskUC.Result, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, req)
	return &taskUC.Result{ID: int64(len(f.added)), Title: req.Title, Status: taskUC.StatusCreated}, nil
}

func (f *fakeTasks) ListTasks(_ context.Context, _ string, status domain.TaskStatus) ([]taskUC.Result, error) {
	f.filters = append(f.filters, status)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"add buy eggs", IntentAdd},
		{"Please CREATE a report", IntentAdd},
		{"I need to call mom", IntentAdd},
		{"remember the milk", IntentAdd},
		{"show my tasks", IntentList},
		{"What is pending?", IntentList},
		{"display completed", IntentList},
		{"I finished it", IntentComplete},
		{"done", IntentComplete},
		{"remove the old one", IntentDelete},
		{"delete everything", IntentDelete},
		{"hello there", IntentUnknown},
		// add wins over list when both appear
		{"add what I said", IntentAdd},
		// list wins over complete
		{"show completed", IntentList},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"add buy eggs", "buy eggs"},
		{"  add   ", ""},
		{"I need to call mom", "I  call mom"},
		{"add task to create a resume", "task to  a resume"},
		{"Add buy eggs", "Add buy eggs"},
		{"remember", ""},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.message))
		})
	}
}

func TestListFilter(t *testing.T) {
	assert.Equal(t, domain.TaskStatusCompleted, ListFilter("show Completed and pending"))
	assert.Equal(t, domain.TaskStatusPending, ListFilter("list PENDING"))
	assert.Equal(t, domain.TaskStatusAll, ListFilter("what do I have"))
}

func TestRouter_Route(t *testing.T) {
	ctx := context.Background()

	t.Run("add", func(t *testing.T) {
		tasks := &fakeTasks{}
		reply, intent := NewRouter(tasks, nil).Route(ctx, "u1", "add buy eggs")
		assert.Equal(t, IntentAdd, intent)
		assert.Equal(t, "I've added the task 'buy eggs' to your list.", reply)
		require.Len(t, tasks.added, 1)
		assert.Equal(t, "buy eggs", tasks.added[0].Title)
	})

	t.Run("add without title asks", func(t *testing.T) {
		tasks := &fakeTasks{}
		reply, _ := NewRouter(tasks, nil).Route(ctx, "u1", "add")
		assert.Equal(t, "What task would you like me to add?", reply)
		assert.Empty(t, tasks.added)
	})

	t.Run("list", func(t *testing.T) {
		tasks := &fakeTasks{listed: []taskUC.Result{{Title: "t1"}, {Title: "t2"}}}
		reply, intent := NewRouter(tasks, nil).Route(ctx, "u1", "show pending")
		assert.Equal(t, IntentList, intent)
		assert.Equal(t, "Here are your tasks:\n- t1\n- t2", reply)
		assert.Equal(t, []domain.TaskStatus{domain.TaskStatusPending}, tasks.filters)
	})

	t.Run("list empty", func(t *testing.T) {
		tasks := &fakeTasks{}
		reply, _ := NewRouter(tasks, nil).Route(ctx, "u1", "show completed")
		assert.Equal(t, "You don't have any tasks.", reply)
		assert.Equal(t, []domain.TaskStatus{domain.TaskStatusCompleted}, tasks.filters)
	})

	t.Run("complete asks which", func(t *testing.T) {
		reply, intent := NewRouter(&fakeTasks{}, nil).Route(ctx, "u1", "mark it done")
		assert.Equal(t, IntentComplete, intent)
		assert.Equal(t, "Please specify which task you'd like to mark as complete.", reply)
	})

	t.Run("delete asks which", func(t *testing.T) {
		reply, intent := NewRouter(&fakeTasks{}, nil).Route(ctx, "u1", "remove groceries")
		assert.Equal(t, IntentDelete, intent)
		assert.Equal(t, "Please specify which task you'd like to delete.", reply)
	})

	t.Run("fallback echoes", func(t *testing.T) {
		reply, intent := NewRouter(&fakeTasks{}, nil).Route(ctx, "u1", "hello")
		assert.Equal(t, IntentUnknown, intent)
		assert.Equal(t, "I understand you said: 'hello'. You can ask me to add, list, complete, or delete tasks.", reply)
	})

	t.Run("failures degrade", func(t *testing.T) {
		boom := errors.New("boom")
		router := NewRouter(&fakeTasks{addErr: boom, listErr: boom}, nil)

		reply, _ := router.Route(ctx, "u1", "add x")
		assert.Equal(t, replyDegraded, reply)
		reply, _ = router.Route(ctx, "u1", "list")
		assert.Equal(t, replyDegraded, reply)
	})
}
