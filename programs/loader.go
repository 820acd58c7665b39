package programs

import (
	"rpgexec/ast"
	"rpgexec/config"
	"rpgexec/engine"
)

// RegisterRpgProgram registers an interpreted program under its own name. A
// singleton keeps its storage between calls; a transient one starts from
// fresh storage on every call.
func (r *Registry) RegisterRpgProgram(program *ast.Program, engineConfig engine.ExecutionEngineConfig, lifetime Lifetime) error {
	return r.Register(program.Name, func() (engine.Program, error) {
		return NewRpgProgram(program, engineConfig), nil
	}, lifetime)
}

// RegisterNativeProgram registers a Go function as a singleton program
func (r *Registry) RegisterNativeProgram(name string, params []string, fn NativeFunc) error {
	return r.RegisterProgram(name, NewNativeProgram(name, params, fn))
}

// RegisterScripts registers the Lua programs declared in the configuration.
// A transient script is read again on every call.
func (r *Registry) RegisterScripts(scripts []config.ProgramConfig) error {
	for _, script := range scripts {
		script := script
		lifetime := Singleton
		if script.Transient {
			lifetime = Transient
		}
		err := r.Register(script.Name, func() (engine.Program, error) {
			return LoadLuaProgram(script.Name, script.Params, script.Script)
		}, lifetime)
		if err != nil {
			return err
		}
	}
	return nil
}

// NewSystemFromConfig builds a registry with the configured scripts and a
// system displaying to display
func NewSystemFromConfig(cfg *config.Config, display engine.Display) (*System, error) {
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	registry := NewRegistry()
	if err := registry.RegisterScripts(cfg.Programs); err != nil {
		return nil, err
	}
	return NewSystem(registry, display, logger), nil
}
