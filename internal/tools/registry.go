package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var ErrDuplicateTool = errors.New("tool already registered")

// NotFoundResult is returned by Invoke for a tool name the registry does not
// know. It goes back to the model as an ordinary tool result so an unknown
// call never stalls the protocol.
const NotFoundResult = "Function not found"

// Handler executes a tool with arguments already coerced to the types its
// specification declares.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Registry maps tool names to handlers and keeps their specifications in
// registration order.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	specs    map[string]Specification
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		specs:    make(map[string]Specification),
	}
}

func (r *Registry) Register(spec Specification, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("tool %s: handler is nil", spec.Name)
	}
	if spec.Name == "" {
		return errors.New("tool name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, spec.Name)
	}

	r.handlers[spec.Name] = handler
	r.specs[spec.Name] = spec
	r.order = append(r.order, spec.Name)
	return nil
}

// DescribeAll returns the specifications in registration order.
func (r *Registry) DescribeAll() []Specification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Specification, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.specs[name])
	}
	return specs
}

// Invoke runs the named tool with the raw JSON arguments the model produced
// and always returns a textual result. Unknown tools, malformed arguments
// and handler failures become result text, never errors: every tool call
// request must yield exactly one result.
func (r *Registry) Invoke(ctx context.Context, name, arguments string) string {
	r.mu.RLock()
	handler, exists := r.handlers[name]
	spec := r.specs[name]
	r.mu.RUnlock()

	if !exists {
		return NotFoundResult
	}

	args, err := parseArguments(arguments)
	if err != nil {
		return fmt.Sprintf("%s failed: invalid arguments: %v", name, err)
	}

	coerced, err := coerceArguments(spec, args)
	if err != nil {
		return fmt.Sprintf("%s failed: %v", name, err)
	}

	result, err := handler(ctx, coerced)
	if err != nil {
		return fmt.Sprintf("%s failed: %v", name, err)
	}
	return result
}

func parseArguments(arguments string) (map[string]any, error) {
	if strings.TrimSpace(arguments) == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// coerceArguments checks required fields and converts each value to the type
// its parameter declares before the handler ever sees it.
func coerceArguments(spec Specification, args map[string]any) (map[string]any, error) {
	for _, field := range spec.Required {
		if _, ok := args[field]; !ok {
			return nil, fmt.Errorf("missing required argument %q", field)
		}
	}

	coerced := make(map[string]any, len(args))
	for key, value := range args {
		prop, ok := spec.Parameters.Properties[key]
		if !ok {
			coerced[key] = value
			continue
		}

		converted, err := coerceValue(value, prop.Type)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %q: %v", key, err)
		}
		coerced[key] = converted
	}
	return coerced, nil
}

func coerceValue(value any, declared string) (any, error) {
	switch declared {
	case "", "object", "array":
		return value, nil
	case "string":
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected string, got %T", value)
	case "integer":
		switch v := value.(type) {
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			return int(v), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", v)
			}
			return n, nil
		}
		return nil, fmt.Errorf("expected integer, got %T", value)
	case "number":
		switch v := value.(type) {
		case float64:
			return v, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", v)
			}
			return f, nil
		}
		return nil, fmt.Errorf("expected number, got %T", value)
	case "boolean":
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("expected boolean, got %q", v)
			}
			return b, nil
		}
		return nil, fmt.Errorf("expected boolean, got %T", value)
	}
	return nil, fmt.Errorf("unsupported parameter type %q", declared)
}
