package storefront

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError reports a rule that failed to compile or run. Subject is
// the product id, or "compile" for compile failures.
type EvaluationError struct {
	Engine  string
	Expr    string
	Subject string
	Err     error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	expr := "expr=<empty>"
	if e.Expr != "" {
		expr = fmt.Sprintf("expr=%q", e.Expr)
	}
	return fmt.Sprintf("storefront: %s evaluator %s subject=%s: %v", e.Engine, expr, e.Subject, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapEvaluatorError prefixes err with the engine unless it already carries
// storefront context.
func wrapEvaluatorError(engine string, err error) error {
	var evalErr *EvaluationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &evalErr), strings.HasPrefix(err.Error(), "storefront:"):
		return err
	default:
		return fmt.Errorf("storefront: %s evaluator: %w", engine, err)
	}
}

// wrapEvaluationError returns err as an EvaluationError. An existing one only
// has its empty fields filled.
func wrapEvaluationError(engine, expr, subject string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return &EvaluationError{Engine: engine, Expr: expr, Subject: subject, Err: err}
	}
	fill := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	fill(&evalErr.Engine, engine)
	fill(&evalErr.Expr, expr)
	fill(&evalErr.Subject, subject)
	return evalErr
}
