package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/firebase/genkit/go/ai"
	logcontext "github.com/va6996/agenttools/context"
	"github.com/va6996/agenttools/log"
)

// ToolExecutor is the function signature for executing a tool
type ToolExecutor func(ctx context.Context, args map[string]interface{}) (*TextResponse, error)

// Registry manages the registration of AI tools
type Registry struct {
	tools     []ai.Tool
	executors map[string]ToolExecutor
	recorder  Recorder
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools:     make([]ai.Tool, 0),
		executors: make(map[string]ToolExecutor),
	}
}

// SetRecorder installs a recorder notified after every ExecuteTool call.
func (r *Registry) SetRecorder(rec Recorder) {
	r.recorder = rec
}

// Register adds a tool to the registry with its executor
func (r *Registry) Register(tool ai.Tool, executor ToolExecutor) {
	r.tools = append(r.tools, tool)
	r.executors[tool.Definition().Name] = executor
}

// GetTools returns all registered tools
func (r *Registry) GetTools() []ai.Tool {
	return r.tools
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.executors))
	for name := range r.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToolNotFoundError is returned by ExecuteTool for unregistered names.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}

// ExecuteTool runs a registered tool by name. Calls arriving through the
// genkit tool definitions land here too, so every call is logged and recorded.
func (r *Registry) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (*TextResponse, error) {
	executor, ok := r.executors[name]
	if !ok {
		return nil, &ToolNotFoundError{Name: name}
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	if logcontext.RequestIDFromContext(ctx) == "" {
		ctx = logcontext.WithRequestID(ctx, logcontext.NewRequestID())
	}
	ctx = logcontext.WithToolName(ctx, name)
	start := time.Now()
	resp, err := executor(ctx, args)
	elapsed := time.Since(start)

	if err != nil {
		log.Errorf(ctx, "Tool failed after %s: %v", elapsed, err)
	} else {
		log.Debugf(ctx, "Tool completed in %s", elapsed)
	}

	if r.recorder != nil {
		inv := Invocation{
			RequestID: logcontext.RequestIDFromContext(ctx),
			Tool:      name,
			Args:      args,
			Err:       err,
			Duration:  elapsed,
		}
		if recErr := r.recorder.Record(ctx, inv); recErr != nil {
			log.Warnf(ctx, "Failed to record invocation: %v", recErr)
		}
	}

	return resp, err
}
