package engine

import (
	"context"

	"rpgexec/values"
)

// Display receives rendered DSPLY output
type Display interface {
	Display(text string)
}

// Program is an externally callable program unit
type Program interface {
	// Params returns the entry parameter names in declaration order
	Params() []string
	// Execute runs the program with arguments bound by parameter name and
	// returns the final parameter values in declaration order
	Execute(ctx context.Context, sys SystemInterface, args map[string]values.Value) ([]values.Value, error)
}

// ProgramFinder resolves program names for CALL
type ProgramFinder interface {
	FindProgram(name string) (Program, bool)
}

// SystemInterface is everything the engine needs from its host
type SystemInterface interface {
	Display
	ProgramFinder
}

type callDepthKey struct{}

// CallDepth returns the number of program calls enclosing ctx
func CallDepth(ctx context.Context) int {
	depth, _ := ctx.Value(callDepthKey{}).(int)
	return depth
}

func withCallDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, callDepthKey{}, depth)
}
