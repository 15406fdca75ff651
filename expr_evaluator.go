package storefront

import (
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// exprEvaluator runs rules on github.com/expr-lang/expr. Unknown variables
// evaluate to nil rather than failing compilation.
type exprEvaluator struct {
	evaluatorConfig
}

// NewExprEvaluator returns the default rule backend.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	return &exprEvaluator{evaluatorConfig: newEvaluatorConfig(opts)}
}

func (e *exprEvaluator) EngineName() string { return "expr" }

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *exprEvaluator) Compile(expression string) (CompiledRule, error) {
	program, err := compileCached(e.cache, "expr", "expr:"+expression, expression, e.compile)
	if err != nil {
		return nil, err
	}
	return &compiledRule[*exprvm.Program]{
		engine:     "expr",
		expression: expression,
		program:    program,
		run:        e.run,
	}, nil
}

func (e *exprEvaluator) compile(expression string) (*exprvm.Program, error) {
	options := []exprlang.Option{
		// now is the rule clock, not expr's now() builtin
		exprlang.Env(map[string]any{"now": time.Time{}}),
		exprlang.DisableBuiltin("now"),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registry.Names() {
		options = append(options, exprlang.Function(name, e.registry.bind(name)))
	}
	return exprlang.Compile(expression, options...)
}

func (e *exprEvaluator) run(program *exprvm.Program, ctx RuleContext) (any, error) {
	env := ctx.variables()
	if e.registry != nil {
		env["call"] = e.registry.Call
	}
	return exprlang.Run(program, env)
}
