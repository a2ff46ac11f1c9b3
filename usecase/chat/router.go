package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/taskchat/domain"
	appLogger "github.com/fastygo/taskchat/pkg/logger"
	taskUC "github.com/fastygo/taskchat/usecase/task"
)

// Intent is the classification the router picked for a message.
type Intent string

const (
	IntentAdd      Intent = "add"
	IntentList     Intent = "list"
	IntentComplete Intent = "complete"
	IntentDelete   Intent = "delete"
	IntentUnknown  Intent = "unknown"
)

// Replies.
const (
	replyAskTitle       = "What task would you like me to add?"
	replyNoTasks        = "You don't have any tasks."
	replyAskComplete    = "Please specify which task you'd like to mark as complete."
	replyAskDelete      = "Please specify which task you'd like to delete."
	replyDegraded       = "Sorry, I couldn't complete that right now. Please try again."
	replyAddedFormat    = "I've added the task '%s' to your list."
	replyFallbackFormat = "I understand you said: '%s'. You can ask me to add, list, complete, or delete tasks."
)

var (
	addTriggers      = []string{"add", "create", "remember", "need to"}
	listTriggers     = []string{"show", "list", "display", "what"}
	completeTriggers = []string{"complete", "done", "finish"}
	deleteTriggers   = []string{"delete", "remove"}
)

// TaskOperations is the part of the task use case the router drives.
type TaskOperations interface {
	AddTask(ctx context.Context, owner string, req taskUC.CreateRequest) (*taskUC.Result, error)
	ListTasks(ctx context.Context, owner string, status domain.TaskStatus) ([]taskUC.Result, error)
}

// Router maps a free-text message onto one task operation using fixed keyword
// triggers. It keeps no state between messages.
type Router struct {
	tasks  TaskOperations
	logger *zap.Logger
}

func NewRouter(tasks TaskOperations, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{tasks: tasks, logger: logger}
}

// Classify returns the first intent whose triggers occur in message, ignoring case.
func Classify(message string) Intent {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, addTriggers):
		return IntentAdd
	case containsAny(lower, listTriggers):
		return IntentList
	case containsAny(lower, completeTriggers):
		return IntentComplete
	case containsAny(lower, deleteTriggers):
		return IntentDelete
	default:
		return IntentUnknown
	}
}

// Route answers message on behalf of owner. Failures of the task operations are
// logged and turned into an apology reply.
func (r *Router) Route(ctx context.Context, owner, message string) (string, Intent) {
	intent := Classify(message)
	switch intent {
	case IntentAdd:
		return r.add(ctx, owner, message), intent
	case IntentList:
		return r.list(ctx, owner, message), intent
	case IntentComplete:
		return replyAskComplete, intent
	case IntentDelete:
		return replyAskDelete, intent
	default:
		return fmt.Sprintf(replyFallbackFormat, message), intent
	}
}

func (r *Router) add(ctx context.Context, owner, message string) string {
	title := ExtractTitle(message)
	if title == "" {
		return replyAskTitle
	}
	created, err := r.tasks.AddTask(ctx, owner, taskUC.CreateRequest{Title: title})
	if err != nil {
		r.degrade(ctx, IntentAdd, err)
		return replyDegraded
	}
	return fmt.Sprintf(replyAddedFormat, created.Title)
}

func (r *Router) list(ctx context.Context, owner, message string) string {
	results, err := r.tasks.ListTasks(ctx, owner, ListFilter(message))
	if err != nil {
		r.degrade(ctx, IntentList, err)
		return replyDegraded
	}
	if len(results) == 0 {
		return replyNoTasks
	}

	var b strings.Builder
	b.WriteString("Here are your tasks:")
	for _, res := range results {
		b.WriteString("\n- ")
		b.WriteString(res.Title)
	}
	return b.String()
}

func (r *Router) degrade(ctx context.Context, intent Intent, err error) {
	appLogger.WithRequestID(ctx, r.logger).Warn("chat command failed",
		zap.String("intent", string(intent)),
		zap.Error(err),
	)
}

// ExtractTitle removes every add trigger from message exactly as written and
// trims the rest. Triggers inside other words are removed too.
func ExtractTitle(message string) string {
	title := message
	for _, trigger := range addTriggers {
		title = strings.ReplaceAll(title, trigger, "")
	}
	return strings.TrimSpace(title)
}

// ListFilter picks the status filter named in message, completed first.
func ListFilter(message string) domain.TaskStatus {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "completed"):
		return domain.TaskStatusCompleted
	case strings.Contains(lower, "pending"):
		return domain.TaskStatusPending
	default:
		return domain.TaskStatusAll
	}
}

func containsAny(s string, triggers []string) bool {
	for _, trigger := range triggers {
		if strings.Contains(s, trigger) {
			return true
		}
	}
	return false
}
