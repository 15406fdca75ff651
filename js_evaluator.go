//go:build js_eval

package storefront

import (
	"fmt"

	"github.com/dop251/goja"
)

// jsEvaluator runs rules as JavaScript expressions on goja. Every evaluation
// gets a fresh runtime; compiled programs are shared.
type jsEvaluator struct {
	evaluatorConfig
}

// NewJSEvaluator returns a goja-backed evaluator.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	return &jsEvaluator{evaluatorConfig: newEvaluatorConfig(opts)}
}

func (e *jsEvaluator) EngineName() string { return "js" }

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string) (CompiledRule, error) {
	program, err := compileCached(e.cache, "js", "js:"+expression, expression, compileJS)
	if err != nil {
		return nil, err
	}
	return &compiledRule[*goja.Program]{
		engine:     "js",
		expression: expression,
		program:    program,
		run:        e.run,
	}, nil
}

// compileJS wraps the rule in a function so its variables stay local.
func compileJS(expression string) (*goja.Program, error) {
	return goja.Compile("rule", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
}

func (e *jsEvaluator) run(program *goja.Program, ctx RuleContext) (any, error) {
	vm := goja.New()
	for name, value := range ctx.variables() {
		if err := vm.Set(name, value); err != nil {
			return nil, err
		}
	}
	if e.registry != nil {
		if err := vm.Set("call", e.registry.Call); err != nil {
			return nil, err
		}
		for _, name := range e.registry.Names() {
			if err := vm.Set(name, e.registry.bind(name)); err != nil {
				return nil, err
			}
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func jsEvaluatorAvailable() bool { return true }
