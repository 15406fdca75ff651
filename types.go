package storefront

import (
	"maps"
	"time"
)

// RuleContext is the input of one rule evaluation. Snapshot is usually the
// product binding built by the engine; Subject names it in errors and logs.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Subject  string
}

func (ctx RuleContext) timestamp() time.Time {
	if ctx.Now == nil {
		return time.Now()
	}
	return *ctx.Now
}

func (ctx RuleContext) subjectLabel() string {
	if ctx.Subject == "" {
		return "unknown"
	}
	return ctx.Subject
}

// variables returns the names visible to a rule: the snapshot's top-level
// keys plus now and args.
func (ctx RuleContext) variables() map[string]any {
	vars := map[string]any{}
	if snapshot, ok := ctx.Snapshot.(map[string]any); ok {
		maps.Copy(vars, snapshot)
	}
	vars["now"] = ctx.timestamp()
	args := ctx.Args
	if args == nil {
		args = map[string]any{}
	}
	vars["args"] = args
	return vars
}

// Evaluator runs rule expressions.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a parsed expression that can be run many times.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// compiledRule pairs a backend program with the function that runs it.
type compiledRule[P any] struct {
	engine     string
	expression string
	program    P
	run        func(P, RuleContext) (any, error)
}

func (r *compiledRule[P]) Evaluate(ctx RuleContext) (any, error) {
	value, err := r.run(r.program, ctx)
	if err != nil {
		return nil, wrapEvaluationError(r.engine, r.expression, ctx.subjectLabel(), err)
	}
	return value, nil
}
