package storefront

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Function is a helper callable from rules, either directly by name or
// through call(name, args...).
type Function func(args ...any) (any, error)

// FunctionRegistry maps case-insensitive names to rule helpers. Rules see
// each helper under the name it was registered with.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]namedFunction
}

type namedFunction struct {
	name string
	fn   Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]namedFunction{}}
}

// Register adds fn. Names are unique regardless of case.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	name = strings.TrimSpace(name)
	key := strings.ToLower(name)
	switch {
	case key == "":
		return fmt.Errorf("storefront: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("storefront: function %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]namedFunction{}
	}
	if _, taken := r.functions[key]; taken {
		return fmt.Errorf("storefront: function %q already registered", name)
	}
	r.functions[key] = namedFunction{name: name, fn: fn}
	return nil
}

func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{functions: maps.Clone(r.functions)}
}

func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("storefront: no functions registered")
	}
	r.mu.RLock()
	entry, ok := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storefront: function %q not registered", name)
	}
	return entry.fn(args...)
}

// Names returns the registered names, sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for _, entry := range r.functions {
		names = append(names, entry.name)
	}
	slices.Sort(names)
	return names
}

func (r *FunctionRegistry) bind(name string) Function {
	return func(args ...any) (any, error) {
		return r.Call(name, args...)
	}
}

// CatalogFunctions returns helpers for merchandising rules:
//
//	onSale(originalPrice, price)  true when price is below a set original price
//	savings(originalPrice, price) the amount saved, or 0
//	between(x, lo, hi)            inclusive range check
func CatalogFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	_ = registry.Register("onSale", func(args ...any) (any, error) {
		original, price, err := twoNumbers("onSale", args)
		if err != nil {
			return nil, err
		}
		return original > 0 && price < original, nil
	})
	_ = registry.Register("savings", func(args ...any) (any, error) {
		original, price, err := twoNumbers("savings", args)
		if err != nil {
			return nil, err
		}
		return max(original-price, 0), nil
	})
	_ = registry.Register("between", func(args ...any) (any, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("between expects 3 arguments, got %d", len(args))
		}
		values := make([]float64, 3)
		for i, arg := range args {
			v, ok := toFloat(arg)
			if !ok {
				return nil, fmt.Errorf("between: argument %d is %T, want number", i+1, arg)
			}
			values[i] = v
		}
		return values[0] >= values[1] && values[0] <= values[2], nil
	})
	return registry
}

func twoNumbers(name string, args []any) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
	}
	a, okA := toFloat(args[0])
	b, okB := toFloat(args[1])
	if !okA || !okB {
		return 0, 0, fmt.Errorf("%s: arguments must be numbers, got %T and %T", name, args[0], args[1])
	}
	return a, b, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
