package storefront

import (
	"fmt"
	"time"
)

// Engine runs catalog queries. The zero value is not usable; construct with
// NewEngine. An Engine is safe for concurrent use when its evaluator and
// cache are.
type Engine struct {
	cfg engineConfig
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       EvaluatorLogger
	now          func() time.Time
}

// WithEvaluator selects the evaluator used for FilterCriteria.Rule.
func WithEvaluator(e Evaluator) EngineOption {
	return func(cfg *engineConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a program cache used by the default evaluator.
func WithProgramCache(cache ProgramCache) EngineOption {
	return func(cfg *engineConfig) {
		cfg.programCache = cache
	}
}

// WithFunctionRegistry exposes registry functions to rules.
func WithFunctionRegistry(registry *FunctionRegistry) EngineOption {
	return func(cfg *engineConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for rules.
func WithCustomFunction(name string, fn Function) EngineOption {
	return func(cfg *engineConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithEvaluatorLogger attaches a logger that receives every rule evaluation.
func WithEvaluatorLogger(logger EvaluatorLogger) EngineOption {
	return func(cfg *engineConfig) {
		cfg.logger = logger
	}
}

// WithNow overrides the clock bound as `now` inside rules.
func WithNow(now func() time.Time) EngineOption {
	return func(cfg *engineConfig) {
		cfg.now = now
	}
}

// NewEngine builds an engine. Without WithEvaluator, rules run on expr with a
// per-engine program cache.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopEvaluatorLogger{}
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	if cfg.evaluator == nil {
		if cfg.programCache == nil {
			cfg.programCache = NewMemoryProgramCache()
		}
		exprOpts := []ExprEvaluatorOption{ExprWithProgramCache(cfg.programCache)}
		if cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		cfg.evaluator = NewExprEvaluator(exprOpts...)
	}
	return &Engine{cfg: cfg}
}

// Query filters catalog with criteria and search, then orders the survivors
// by sortKey. Identical inputs always produce the same ordering. It never
// fails: an impossible price window or a rule that does not compile yields an
// empty result.
func (e *Engine) Query(catalog *Catalog, criteria FilterCriteria, sortKey SortKey, search string) []Product {
	out := []Product{}
	if catalog.Len() == 0 || criteria.PriceRange.Min > criteria.PriceRange.Max {
		return out
	}
	rule, ok := e.compileRule(criteria.Rule)
	if !ok {
		return out
	}
	needle := normalizeSearch(search)
	for _, product := range catalog.products {
		if !matches(product, criteria, needle) {
			continue
		}
		if rule != nil && !e.evaluateRule(rule, criteria.Rule, product) {
			continue
		}
		out = append(out, product.Clone())
	}
	sortProducts(out, sortKey)
	return out
}

// Count returns how many products Query would return for criteria and search.
func (e *Engine) Count(catalog *Catalog, criteria FilterCriteria, search string) int {
	return len(e.Query(catalog, criteria, DefaultSortKey, search))
}

func (e *Engine) compileRule(expr string) (CompiledRule, bool) {
	if expr == "" {
		return nil, true
	}
	start := time.Now()
	rule, err := e.cfg.evaluator.Compile(expr)
	if err != nil {
		e.cfg.logger.LogEvaluation(EvaluatorLogEvent{
			Engine:   evaluatorEngineName(e.cfg.evaluator),
			Expr:     expr,
			Subject:  "compile",
			Duration: time.Since(start),
			Err:      wrapEvaluationError(evaluatorEngineName(e.cfg.evaluator), expr, "compile", err),
		})
		return nil, false
	}
	return rule, true
}

func (e *Engine) evaluateRule(rule CompiledRule, expr string, product Product) bool {
	now := e.cfg.now()
	ctx := RuleContext{
		Snapshot: productBinding(product),
		Now:      &now,
		Subject:  product.ID,
	}
	engine := evaluatorEngineName(e.cfg.evaluator)
	start := time.Now()
	value, err := rule.Evaluate(ctx)
	if err == nil {
		if _, isBool := value.(bool); !isBool {
			err = fmt.Errorf("rule returned %T, want bool", value)
		}
	}
	err = wrapEvaluationError(engine, expr, product.ID, err)
	e.cfg.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Subject:  product.ID,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return false
	}
	return value.(bool)
}

// productBinding flattens a product into the variables visible to rules.
func productBinding(p Product) map[string]any {
	colors := make([]any, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = c
	}
	return map[string]any{
		"id":            p.ID,
		"brand":         p.Brand,
		"name":          p.Name,
		"price":         p.Price,
		"originalPrice": p.OriginalPrice,
		"discount":      p.Discount,
		"rating":        p.Rating,
		"reviews":       p.Reviews,
		"inStock":       p.InStock,
		"category":      string(p.Category),
		"colors":        colors,
		"specs": map[string]any{
			"ram":       p.Specs.RAM,
			"storage":   p.Specs.Storage,
			"battery":   p.Specs.Battery,
			"camera":    p.Specs.Camera,
			"display":   p.Specs.Display,
			"processor": p.Specs.Processor,
			"os":        p.Specs.OS,
			"network":   p.Specs.Network,
		},
	}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(interface{ EngineName() string }); ok {
		return named.EngineName()
	}
	return "custom"
}
