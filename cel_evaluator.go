package storefront

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// maxCELArity bounds the overloads declared for registry helpers.
const maxCELArity = 3

// celEvaluator runs rules on cel-go. Variables are declared dyn, so a price
// compared with a literal needs a double: `price < 1000.0`.
type celEvaluator struct {
	evaluatorConfig
}

func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	return &celEvaluator{evaluatorConfig: newEvaluatorConfig(opts)}
}

func (e *celEvaluator) EngineName() string { return "cel" }

// Evaluate declares the variables present in ctx.Snapshot, so it also works
// on snapshots that are not products.
func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.compileFor(expression, ctx.variables())
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

// Compile type-checks expression against the product variables.
func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	return e.compileFor(expression, RuleContext{Snapshot: productBinding(Product{})}.variables())
}

func (e *celEvaluator) compileFor(expression string, vars map[string]any) (CompiledRule, error) {
	names := slices.Sorted(maps.Keys(vars))
	key := "cel:" + strings.Join(names, ",") + ":" + expression
	program, err := compileCached(e.cache, "cel", key, expression, func(expression string) (celgo.Program, error) {
		return e.compile(expression, names)
	})
	if err != nil {
		return nil, err
	}
	return &compiledRule[celgo.Program]{
		engine:     "cel",
		expression: expression,
		program:    program,
		run:        runCEL,
	}, nil
}

func (e *celEvaluator) compile(expression string, names []string) (celgo.Program, error) {
	opts := make([]celgo.EnvOption, 0, len(names)+2)
	for _, name := range names {
		if name == "now" {
			opts = append(opts, celgo.Variable(name, celgo.TimestampType))
			continue
		}
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	opts = append(opts, e.functionDecls()...)

	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	return env.Program(ast)
}

func runCEL(program celgo.Program, ctx RuleContext) (any, error) {
	out, _, err := program.Eval(ctx.variables())
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

// functionDecls exposes every registry helper by name with one to
// maxCELArity dyn arguments, plus call(name, arg).
func (e *celEvaluator) functionDecls() []celgo.EnvOption {
	if e.registry == nil {
		return nil
	}
	decls := []celgo.EnvOption{
		celgo.Function("call", celgo.Overload("call_string_dyn",
			[]*celgo.Type{celgo.StringType, celgo.DynType},
			celgo.DynType,
			celgo.FunctionBinding(e.callByName),
		)),
	}
	for _, name := range e.registry.Names() {
		overloads := make([]celgo.FunctionOpt, 0, maxCELArity)
		for arity := 1; arity <= maxCELArity; arity++ {
			args := make([]*celgo.Type, arity)
			for i := range args {
				args[i] = celgo.DynType
			}
			overloads = append(overloads, celgo.Overload(
				fmt.Sprintf("%s_dyn%d", strings.ToLower(name), arity),
				args,
				celgo.DynType,
				celgo.FunctionBinding(e.callNamed(name)),
			))
		}
		decls = append(decls, celgo.Function(name, overloads...))
	}
	return decls
}

func (e *celEvaluator) callByName(values ...ref.Val) ref.Val {
	if len(values) == 0 {
		return types.NewErr("storefront: call requires a function name")
	}
	name, ok := values[0].Value().(string)
	if !ok {
		return types.NewErr("storefront: call name must be a string")
	}
	return e.callNamed(name)(values[1:]...)
}

func (e *celEvaluator) callNamed(name string) functions.FunctionOp {
	return func(values ...ref.Val) ref.Val {
		args := make([]any, len(values))
		for i, val := range values {
			args[i] = val.Value()
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
