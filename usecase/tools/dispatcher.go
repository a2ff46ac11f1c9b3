// Package tools exposes the task operations as named, schema-checked calls for
// external agents.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/domain"
	appLogger "github.com/fastygo/taskchat/pkg/logger"
	"github.com/fastygo/taskchat/usecase"
)

// Authorizer checks the caller's identity against the owner named in the arguments.
type Authorizer interface {
	Authorize(ctx context.Context, identity, owner string) error
}

// Envelope is the uniform result of a tool call.
type Envelope struct {
	Content string `json:"content"`
	IsError bool   `json:"isError"`
}

// Definition describes a registered tool to callers.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Handler runs a tool for an already authorized owner with decoded arguments.
type Handler func(ctx context.Context, owner string, args json.RawMessage) (interface{}, error)

type tool struct {
	name        string
	description string
	schema      *jsonschema.Schema
	raw         json.RawMessage
	handler     Handler
}

type Dispatcher struct {
	guard    Authorizer
	recorder usecase.Recorder
	logger   *zap.Logger

	mu    sync.RWMutex
	tools map[string]*tool
	order []string
}

func NewDispatcher(guard Authorizer, recorder usecase.Recorder, logger *zap.Logger) *Dispatcher {
	if recorder == nil {
		recorder = usecase.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		guard:    guard,
		recorder: recorder,
		logger:   logger,
		tools:    make(map[string]*tool),
	}
}

var reflector = &jsonschema.Reflector{
	AllowAdditionalProperties:  true,
	DoNotReference:             true,
	ExpandedStruct:             true,
	RequiredFromJSONSchemaTags: true,
}

// Register adds a tool whose input schema is reflected from the argument type A.
// Registering a name twice replaces the earlier tool but keeps its position.
func Register[A any](d *Dispatcher, name, description string, fn func(ctx context.Context, owner string, args A) (interface{}, error)) {
	var zero A
	schema := reflector.Reflect(&zero)
	schema.Version = ""
	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: schema for %s: %v", name, err))
	}

	handler := func(ctx context.Context, owner string, payload json.RawMessage) (interface{}, error) {
		var args A
		if err := json.Unmarshal(payload, &args); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid arguments", err)
		}
		return fn(ctx, owner, args)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.tools[name]; !exists {
		d.order = append(d.order, name)
	}
	d.tools[name] = &tool{
		name:        name,
		description: description,
		schema:      schema,
		raw:         raw,
		handler:     handler,
	}
}

// Definitions lists the registered tools in registration order.
func (d *Dispatcher) Definitions() []Definition {
	d.mu.RLock()
	defer d.mu.RUnlock()

	defs := make([]Definition, 0, len(d.order))
	for _, name := range d.order {
		t := d.tools[name]
		defs = append(defs, Definition{Name: t.name, Description: t.description, InputSchema: t.raw})
	}
	return defs
}

// UnknownToolLabel is recorded for calls naming an unregistered tool.
const UnknownToolLabel = "unknown"

// Call validates args against the tool's schema, checks that identity owns the
// user_id argument and runs the tool. Every failure becomes an error envelope.
func (d *Dispatcher) Call(ctx context.Context, identity, name string, args map[string]interface{}) Envelope {
	env := d.call(ctx, identity, name, args)
	d.recorder.RecordToolCall(d.metricLabel(name), env.IsError)
	return env
}

// metricLabel keeps caller-chosen names out of metric labels.
func (d *Dispatcher) metricLabel(name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.tools[name]; ok {
		return name
	}
	return UnknownToolLabel
}

func (d *Dispatcher) call(ctx context.Context, identity, name string, args map[string]interface{}) Envelope {
	log := appLogger.WithRequestID(ctx, d.logger).With(zap.String("tool", name))

	d.mu.RLock()
	t, ok := d.tools[name]
	d.mu.RUnlock()
	if !ok {
		return errorEnvelope(fmt.Sprintf("unknown tool: %s", name))
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if err := validate(t.schema, args); err != nil {
		log.Debug("tool arguments rejected", zap.Error(err))
		return errorEnvelope(err.Error())
	}

	owner, _ := args["user_id"].(string)
	if err := d.guard.Authorize(ctx, identity, owner); err != nil {
		return errorEnvelope(message(err, args))
	}

	payload, err := json.Marshal(args)
	if err != nil {
		return errorEnvelope("invalid arguments")
	}
	result, err := t.handler(ctx, owner, payload)
	if err != nil {
		if domain.CodeOf(err) == domain.ErrCodeInternal {
			log.Error("tool call failed", zap.Error(err))
		}
		return errorEnvelope(message(err, args))
	}

	content, err := json.Marshal(result)
	if err != nil {
		log.Error("tool result encoding failed", zap.Error(err))
		return errorEnvelope("internal error")
	}
	return Envelope{Content: string(content), IsError: false}
}

func message(err error, args map[string]interface{}) string {
	var dErr *domain.Error
	if !errors.As(err, &dErr) {
		return "internal error"
	}
	switch dErr.Code {
	case domain.ErrCodeInternal:
		return "internal error"
	case domain.ErrCodeNotFound:
		if taskID, ok := args["task_id"]; ok && errors.Is(err, domain.ErrTaskNotFound) {
			return fmt.Sprintf("Task %v not found for user %v", taskID, args["user_id"])
		}
	}
	return dErr.Message
}

func errorEnvelope(msg string) Envelope {
	content, _ := json.Marshal(map[string]string{"error": msg, "status": "error"})
	return Envelope{Content: string(content), IsError: true}
}
