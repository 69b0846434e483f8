// ABOUTME: Thread-safe registry and dispatcher for gateway operations
// ABOUTME: Maps names to resource/tool/prompt handlers with fault containment

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrDuplicateOperation indicates an operation name is already registered.
var ErrDuplicateOperation = errors.New("operation already registered")

// ErrUnknownOperation indicates the requested operation was not found.
var ErrUnknownOperation = errors.New("unknown operation")

// Kind classifies an operation.
type Kind string

// Operation kinds.
const (
	KindResource Kind = "resource"
	KindTool     Kind = "tool"
	KindPrompt   Kind = "prompt"
)

// ResourceHandler serves a read-only lookup keyed by a single identifier
// extracted from the resource URI.
type ResourceHandler func(ctx context.Context, lc *Lifecycle, id string) (Result, error)

// ToolHandler performs an action, possibly calling external services
// through the injected lifecycle clients.
type ToolHandler func(ctx context.Context, lc *Lifecycle, input json.RawMessage) (Result, error)

// PromptHandler generates a scripted conversation from its arguments.
// Prompts are pure: they receive no lifecycle clients.
type PromptHandler func(input json.RawMessage) (Result, error)

// PromptArgument describes one declared prompt parameter for discovery.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Operation is a registered gateway operation. For resources, Name is a URI
// template with exactly one {placeholder}; for tools and prompts it is a
// plain unique name. Operations are immutable after registration.
type Operation struct {
	Name        string
	Kind        Kind
	Description string
	InputSchema string           // JSON Schema for tool inputs
	Arguments   []PromptArgument // declared prompt parameters

	resource ResourceHandler
	tool     ToolHandler
	prompt   PromptHandler

	// precomputed from the URI template for resource matching
	uriPrefix string
	uriSuffix string
}

// MatchURI reports whether uri matches this resource operation's template
// and returns the extracted identifier.
func (op *Operation) MatchURI(uri string) (string, bool) {
	if op.Kind != KindResource {
		return "", false
	}
	if !strings.HasPrefix(uri, op.uriPrefix) || !strings.HasSuffix(uri, op.uriSuffix) {
		return "", false
	}
	id := uri[len(op.uriPrefix) : len(uri)-len(op.uriSuffix)]
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// Registry maintains the set of registered operations and dispatches
// requests to them. Registration happens once at startup; lookups are
// concurrent afterwards. Operation names share one namespace across kinds.
type Registry struct {
	mu        sync.RWMutex
	ops       map[string]*Operation
	order     []string // registration order, for stable listings
	lifecycle *Lifecycle
	logger    *slog.Logger
}

// NewRegistry creates a Registry that injects the given lifecycle context
// into resource and tool handlers at dispatch time.
func NewRegistry(lc *Lifecycle, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		ops:       make(map[string]*Operation),
		lifecycle: lc,
		logger:    logger,
	}
}

// RegisterResource adds a read-only resource keyed by a URI template with
// exactly one {placeholder}, e.g. "user://profile/{user_id}".
// Returns ErrDuplicateOperation if the template is already registered.
func (r *Registry) RegisterResource(template, description string, handler ResourceHandler) error {
	start := strings.Index(template, "{")
	end := strings.Index(template, "}")
	if start < 0 || end < start {
		return fmt.Errorf("resource template %q must contain one {placeholder}", template)
	}
	if end != len(template)-1 && strings.ContainsAny(template[end+1:], "{}") {
		return fmt.Errorf("resource template %q must contain exactly one {placeholder}", template)
	}

	op := &Operation{
		Name:        template,
		Kind:        KindResource,
		Description: description,
		resource:    handler,
		uriPrefix:   template[:start],
		uriSuffix:   template[end+1:],
	}
	return r.add(op)
}

// RegisterTool adds an action operation with a JSON Schema describing its
// input. Returns ErrDuplicateOperation if the name is already registered.
func (r *Registry) RegisterTool(name, description, inputSchema string, handler ToolHandler) error {
	return r.add(&Operation{
		Name:        name,
		Kind:        KindTool,
		Description: description,
		InputSchema: inputSchema,
		tool:        handler,
	})
}

// RegisterPrompt adds a scripted conversation generator with its declared
// arguments. Returns ErrDuplicateOperation if the name is already registered.
func (r *Registry) RegisterPrompt(name, description string, args []PromptArgument, handler PromptHandler) error {
	return r.add(&Operation{
		Name:        name,
		Kind:        KindPrompt,
		Description: description,
		Arguments:   args,
		prompt:      handler,
	})
}

func (r *Registry) add(op *Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.ops[op.Name]; exists {
		return fmt.Errorf("%w: %q already registered as %s", ErrDuplicateOperation, op.Name, existing.Kind)
	}
	r.ops[op.Name] = op
	r.order = append(r.order, op.Name)

	r.logger.Debug("operation registered", "name", op.Name, "kind", op.Kind)
	return nil
}

// byKind returns all operations of the given kind in registration order.
func (r *Registry) byKind(kind Kind) []*Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Operation
	for _, name := range r.order {
		if op := r.ops[name]; op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Resources returns all registered resources in registration order.
func (r *Registry) Resources() []*Operation { return r.byKind(KindResource) }

// Tools returns all registered tools in registration order.
func (r *Registry) Tools() []*Operation { return r.byKind(KindTool) }

// Prompts returns all registered prompts in registration order.
func (r *Registry) Prompts() []*Operation { return r.byKind(KindPrompt) }

// Lookup returns the operation registered under name, if any.
func (r *Registry) Lookup(name string) (*Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// resolve finds the operation for a dispatch name. Tools and prompts match
// by exact name; resource URIs match their registered template and yield
// the extracted identifier.
func (r *Registry) resolve(name string) (*Operation, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if op, ok := r.ops[name]; ok {
		return op, "", true
	}
	for _, opName := range r.order {
		op := r.ops[opName]
		if id, ok := op.MatchURI(name); ok {
			return op, id, true
		}
	}
	return nil, "", false
}

// Dispatch resolves name to a registered operation and executes it.
//
// The returned error is non-nil only for registry misuse (unknown
// operation). Every fault raised inside a handler body — including panics —
// is contained and converted into a Result carrying the fault, so the
// caller always receives something it can render as text. Resource and
// tool handlers receive the live lifecycle context; prompt handlers receive
// only their declared parameters.
func (r *Registry) Dispatch(ctx context.Context, name string, params json.RawMessage) (result Result, err error) {
	op, id, ok := r.resolve(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	if len(params) == 0 || string(params) == "null" {
		params = json.RawMessage("{}")
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panic contained", "operation", op.Name, "panic", rec)
			result = Fail(fmt.Errorf("executing %s: internal fault: %v", op.Name, rec))
			err = nil
		}
	}()

	var handlerErr error
	switch op.Kind {
	case KindResource:
		result, handlerErr = op.resource(ctx, r.lifecycle, id)
	case KindTool:
		result, handlerErr = op.tool(ctx, r.lifecycle, params)
	case KindPrompt:
		result, handlerErr = op.prompt(params)
	}

	if handlerErr != nil {
		r.logger.Warn("operation failed", "operation", op.Name, "error", handlerErr)
		return Fail(handlerErr), nil
	}
	return result, nil
}
