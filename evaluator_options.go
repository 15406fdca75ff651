package storefront

// evaluatorConfig is shared by every rule backend.
type evaluatorConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

type (
	// ExprEvaluatorOption configures NewExprEvaluator.
	ExprEvaluatorOption func(*evaluatorConfig)
	// CELEvaluatorOption configures NewCELEvaluator.
	CELEvaluatorOption func(*evaluatorConfig)
	// JSEvaluatorOption configures NewJSEvaluator.
	JSEvaluatorOption func(*evaluatorConfig)
)

func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption { return withCache(cache) }

func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return withRegistry(registry)
}

func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption { return withCache(cache) }

func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return withRegistry(registry)
}

func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption { return withCache(cache) }

func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return withRegistry(registry)
}

func withCache(cache ProgramCache) func(*evaluatorConfig) {
	return func(cfg *evaluatorConfig) {
		cfg.cache = cache
	}
}

// withRegistry snapshots registry so later registrations do not leak into
// compiled programs.
func withRegistry(registry *FunctionRegistry) func(*evaluatorConfig) {
	return func(cfg *evaluatorConfig) {
		if registry != nil {
			cfg.registry = registry.Clone()
		}
	}
}

func newEvaluatorConfig[O ~func(*evaluatorConfig)](opts []O) evaluatorConfig {
	var cfg evaluatorConfig
	for _, opt := range opts {
		if apply := (func(*evaluatorConfig))(opt); apply != nil {
			apply(&cfg)
		}
	}
	return cfg
}
