package sysconfig

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"campuscore/internal/core/apperror"
)

// RuleEngine evaluates CEL validation rules against candidate config
// values. Rules see one variable, `value`, holding the decoded JSON value.
// Compiled programs are cached per rule text.
type RuleEngine struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewRuleEngine creates the shared CEL environment.
func NewRuleEngine() (*RuleEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("value", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}
	return &RuleEngine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// CheckRule compiles the rule, verifying it produces a boolean.
// Used when a rule is attached to a config entry.
func (e *RuleEngine) CheckRule(rule string) error {
	_, err := e.compile(rule)
	return err
}

// Evaluate runs the rule against the candidate value. A false result or an
// evaluation error rejects the value.
func (e *RuleEngine) Evaluate(rule string, value any) error {
	prg, err := e.compile(rule)
	if err != nil {
		return err
	}

	out, _, err := prg.Eval(map[string]any{"value": value})
	if err != nil {
		return apperror.NewValidation("validation rule evaluation failed").
			WithDetail("rule", rule).
			WithCause(err)
	}

	ok, isBool := out.Value().(bool)
	if !isBool {
		return apperror.NewValidation("validation rule must produce a boolean").
			WithDetail("rule", rule)
	}
	if !ok {
		return apperror.NewValidation("value rejected by validation rule").
			WithDetail("rule", rule)
	}
	return nil
}

func (e *RuleEngine) compile(rule string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[rule]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(rule)
	if issues != nil && issues.Err() != nil {
		return nil, apperror.NewValidation("invalid validation rule").
			WithDetail("rule", rule).
			WithCause(issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, apperror.NewValidation("invalid validation rule").
			WithDetail("rule", rule).
			WithCause(err)
	}

	e.mu.Lock()
	e.programs[rule] = prg
	e.mu.Unlock()
	return prg, nil
}
