package programs

import (
	"context"
	"fmt"

	"rpgexec/engine"
	"rpgexec/errors"
	"rpgexec/values"
)

// NativeFunc implements a program in Go. It returns the parameter values in
// declaration order.
type NativeFunc func(ctx context.Context, sys engine.SystemInterface, args map[string]values.Value) ([]values.Value, error)

// NativeProgram is a callable program implemented by a Go function
type NativeProgram struct {
	name   string
	params []string
	fn     NativeFunc
}

// NewNativeProgram creates a program named name with the given parameters
func NewNativeProgram(name string, params []string, fn NativeFunc) *NativeProgram {
	return &NativeProgram{name: name, params: params, fn: fn}
}

// Params returns the parameter names
func (p *NativeProgram) Params() []string { return p.params }

// Execute calls the function. Parameters the function leaves out keep the
// value they were called with.
func (p *NativeProgram) Execute(ctx context.Context, sys engine.SystemInterface, args map[string]values.Value) ([]values.Value, error) {
	results, err := p.fn(ctx, sys, args)
	if err != nil {
		if _, ok := errors.AsExecutionError(err); ok {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CodeProgramFailed, fmt.Sprintf("program %s failed", p.name)).WithProgram(p.name)
	}
	if len(results) > len(p.params) {
		return nil, errors.NewTypeMismatchError("program %s returned %d values for %d parameters", p.name, len(results), len(p.params))
	}
	full := make([]values.Value, len(p.params))
	for i, name := range p.params {
		if i < len(results) && results[i] != nil {
			full[i] = results[i]
			continue
		}
		full[i] = args[name]
	}
	return trimMissing(full), nil
}

// trimMissing cuts the values at the first parameter that was never passed
func trimMissing(results []values.Value) []values.Value {
	for i, v := range results {
		if v == nil {
			return results[:i]
		}
	}
	return results
}
