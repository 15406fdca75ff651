package storefront

import (
	"errors"
	"strings"
	"sync"
)

// ProgramCache stores compiled rule programs. Keys are prefixed with the
// engine name, so one cache can serve several evaluators.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryProgramCache is an unbounded ProgramCache safe for concurrent use.
// Rules come from a small set of UI presets, so entries are never evicted.
type MemoryProgramCache struct {
	programs sync.Map
}

func NewMemoryProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{}
}

func (c *MemoryProgramCache) Get(key string) (any, bool) {
	return c.programs.Load(key)
}

func (c *MemoryProgramCache) Set(key string, value any) {
	c.programs.Store(key, value)
}

var errEmptyExpression = errors.New("expression must not be empty")

// compileCached returns the program cached under key, compiling and storing
// it on a miss.
func compileCached[P any](cache ProgramCache, engine, key, expression string, compile func(string) (P, error)) (P, error) {
	var zero P
	if strings.TrimSpace(expression) == "" {
		return zero, wrapEvaluatorError(engine, errEmptyExpression)
	}
	if cache != nil {
		if cached, ok := cache.Get(key); ok {
			if program, ok := cached.(P); ok {
				return program, nil
			}
		}
	}
	program, err := compile(expression)
	if err != nil {
		return zero, wrapEvaluationError(engine, expression, "", err)
	}
	if cache != nil {
		cache.Set(key, program)
	}
	return program, nil
}
