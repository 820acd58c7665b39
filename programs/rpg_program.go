package programs

import (
	"context"

	"rpgexec/ast"
	"rpgexec/engine"
	"rpgexec/values"
)

// RpgProgram is an interpreted program unit. The first call initializes its
// storage; later calls lay the arguments over the storage left by the
// previous call, the way an activated RPG program keeps its variables.
type RpgProgram struct {
	program *ast.Program
	config  engine.ExecutionEngineConfig
	engine  *engine.ExecutionEngine
	active  chan struct{}
}

// NewRpgProgram wraps a resolved program unit
func NewRpgProgram(program *ast.Program, config engine.ExecutionEngineConfig) *RpgProgram {
	return &RpgProgram{
		program: program,
		config:  config,
		active:  make(chan struct{}, 1),
	}
}

// Params returns the entry parameter names
func (p *RpgProgram) Params() []string { return p.program.Params }

// Program returns the wrapped program unit
func (p *RpgProgram) Program() *ast.Program { return p.program }

// Engine returns the engine of the activation, nil before the first call
func (p *RpgProgram) Engine() *engine.ExecutionEngine { return p.engine }

// Execute runs the program and returns its parameter values in declaration
// order. A call made while the activation is already running, such as a
// recursive one, gets fresh storage of its own.
func (p *RpgProgram) Execute(ctx context.Context, sys engine.SystemInterface, args map[string]values.Value) ([]values.Value, error) {
	select {
	case p.active <- struct{}{}:
		defer func() { <-p.active }()
	default:
		return p.run(ctx, engine.NewExecutionEngine(sys, p.config), args, true)
	}

	reinitialization := p.engine == nil
	if reinitialization {
		p.engine = engine.NewExecutionEngine(sys, p.config)
	}
	return p.run(ctx, p.engine, args, reinitialization)
}

func (p *RpgProgram) run(ctx context.Context, e *engine.ExecutionEngine, args map[string]values.Value, reinitialization bool) ([]values.Value, error) {
	if err := e.Execute(ctx, p.program, args, reinitialization); err != nil {
		return nil, err
	}
	results := make([]values.Value, len(p.program.Params))
	for i, name := range p.program.Params {
		value, err := e.Value(name)
		if err != nil {
			return nil, err
		}
		results[i] = value
	}
	return results, nil
}
