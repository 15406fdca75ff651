//go:build !js_eval

package storefront

// NewJSEvaluator returns nil unless the binary is built with the js_eval tag.
func NewJSEvaluator(...JSEvaluatorOption) Evaluator {
	return nil
}

func jsEvaluatorAvailable() bool { return false }
