package storefront

import (
	"reflect"
	"strings"
	"testing"
)

func TestFunctionRegistryRegister(t *testing.T) {
	registry := NewFunctionRegistry()
	noop := func(...any) (any, error) { return true, nil }

	if err := registry.Register("inBudget", noop); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register("INBUDGET", noop); err == nil {
		t.Fatalf("expected duplicate error for case-insensitive name")
	}
	if err := registry.Register(" ", noop); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if err := registry.Register("nilFn", nil); err == nil {
		t.Fatalf("expected error for nil function")
	}

	if got := registry.Names(); !reflect.DeepEqual([]string{"inBudget"}, got) {
		t.Fatalf("unexpected names %v", got)
	}
	if value, err := registry.Call("inbudget"); err != nil || value != true {
		t.Fatalf("unexpected call result %v %v", value, err)
	}
	if _, err := registry.Call("missing"); err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("expected not registered error, got %v", err)
	}

	clone := registry.Clone()
	_ = clone.Register("extra", noop)
	if len(registry.Names()) != 1 {
		t.Fatalf("clone must not share registrations")
	}

	var unset *FunctionRegistry
	if unset.Names() != nil || unset.Clone() != nil {
		t.Fatalf("nil registry should report nothing")
	}
}

func TestCatalogFunctions(t *testing.T) {
	registry := CatalogFunctions()

	cases := []struct {
		name string
		args []any
		want any
	}{
		{"onSale", []any{1299.0, 1199.0}, true},
		{"onSale", []any{0.0, 599.0}, false},
		{"savings", []any{1099, 999.0}, 100.0},
		{"savings", []any{0.0, 599.0}, 0.0},
		{"between", []any{799.0, 700, 800}, true},
		{"between", []any{800.5, int64(700), int64(800)}, false},
	}
	for _, tc := range cases {
		got, err := registry.Call(tc.name, tc.args...)
		if err != nil {
			t.Fatalf("%s%v: %v", tc.name, tc.args, err)
		}
		if got != tc.want {
			t.Fatalf("%s%v = %v, want %v", tc.name, tc.args, got, tc.want)
		}
	}

	if _, err := registry.Call("between", 1.0); err == nil {
		t.Fatalf("expected arity error")
	}
	if _, err := registry.Call("onSale", "a", 1.0); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestCatalogFunctionsInRules(t *testing.T) {
	evaluators := map[string]Evaluator{
		"expr": NewExprEvaluator(ExprWithFunctionRegistry(CatalogFunctions())),
		"cel":  NewCELEvaluator(CELWithFunctionRegistry(CatalogFunctions())),
	}
	for name, evaluator := range evaluators {
		t.Run(name, func(t *testing.T) {
			engine := NewEngine(WithEvaluator(evaluator))
			criteria := DefaultCriteria()
			criteria.Rule = `between(price, 700, 1000) && onSale(originalPrice, price)`

			got := ids(engine.Query(sampleCatalog(), criteria, SortPriceAsc, ""))
			if !reflect.DeepEqual([]string{"4", "3"}, got) {
				t.Fatalf("unexpected result %v", got)
			}
		})
	}
}

func TestCELCallByName(t *testing.T) {
	evaluator := NewCELEvaluator(CELWithFunctionRegistry(CatalogFunctions()))
	value, err := evaluator.Evaluate(RuleContext{Snapshot: map[string]any{"was": 50.0, "now_price": 40.0}}, `call("onSale", [was, now_price])`)
	if err == nil {
		t.Fatalf("expected list argument to be rejected, got %v", value)
	}

	value, err = evaluator.Evaluate(RuleContext{Snapshot: map[string]any{"was": 50.0, "price": 40.0}}, `savings(was, price) == 10.0`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if value != true {
		t.Fatalf("expected true, got %v", value)
	}
}
