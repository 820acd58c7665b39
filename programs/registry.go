// Package programs provides the program lookup and invocation service the
// engine calls through: an activation registry, interpreted RPG programs,
// native Go programs, Lua-scripted programs and display sinks.
package programs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"rpgexec/engine"
	"rpgexec/errors"
)

// Lifetime defines how long a program activation lives
type Lifetime int

const (
	// Transient creates a new activation on every lookup
	Transient Lifetime = iota
	// Singleton keeps one activation whose storage survives between calls
	Singleton
)

func (l Lifetime) String() string {
	if l == Singleton {
		return "singleton"
	}
	return "transient"
}

// Factory creates a program activation
type Factory func() (engine.Program, error)

type registration struct {
	factory   Factory
	lifetime  Lifetime
	instance  engine.Program
	resolving bool
	mutex     sync.Mutex
}

// Registry maps program names to factories. Names are case-insensitive.
type Registry struct {
	programs map[string]*registration
	mutex    sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{programs: make(map[string]*registration)}
}

// Register adds a program under name
func (r *Registry) Register(name string, factory Factory, lifetime Lifetime) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewValidationError("EMPTY_PROGRAM_NAME", "program name cannot be empty")
	}
	if factory == nil {
		return errors.NewValidationError("NIL_PROGRAM_FACTORY", fmt.Sprintf("factory for %s cannot be nil", name))
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := strings.ToUpper(name)
	if _, exists := r.programs[key]; exists {
		return errors.NewValidationError("PROGRAM_ALREADY_REGISTERED", fmt.Sprintf("program %s is already registered", name))
	}
	r.programs[key] = &registration{factory: factory, lifetime: lifetime}
	return nil
}

// RegisterProgram adds a ready-made program as a singleton
func (r *Registry) RegisterProgram(name string, program engine.Program) error {
	if program == nil {
		return errors.NewValidationError("NIL_PROGRAM", fmt.Sprintf("program %s cannot be nil", name))
	}
	return r.Register(name, func() (engine.Program, error) { return program, nil }, Singleton)
}

// Resolve returns the activation of name, creating it when needed
func (r *Registry) Resolve(name string) (engine.Program, error) {
	r.mutex.RLock()
	reg, exists := r.programs[strings.ToUpper(name)]
	r.mutex.RUnlock()
	if !exists {
		return nil, errors.NewProgramNotFoundError(name)
	}

	reg.mutex.Lock()
	if reg.lifetime == Singleton && reg.instance != nil {
		reg.mutex.Unlock()
		return reg.instance, nil
	}
	if reg.resolving {
		reg.mutex.Unlock()
		return nil, errors.NewSystemError("CIRCULAR_PROGRAM_FACTORY", fmt.Sprintf("factory of %s resolves itself", name))
	}
	reg.resolving = true
	reg.mutex.Unlock()

	program, err := reg.factory()

	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	reg.resolving = false
	if err != nil {
		return nil, errors.WrapError(err, errors.CodeProgramFailed, fmt.Sprintf("failed to create program %s", name))
	}
	if reg.lifetime == Singleton {
		reg.instance = program
	}
	return program, nil
}

// IsRegistered reports whether name has a registration
func (r *Registry) IsRegistered(name string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, exists := r.programs[strings.ToUpper(name)]
	return exists
}

// GetLifetime returns the lifetime name was registered with
func (r *Registry) GetLifetime(name string) (Lifetime, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	reg, exists := r.programs[strings.ToUpper(name)]
	if !exists {
		return Transient, errors.NewProgramNotFoundError(name)
	}
	return reg.lifetime, nil
}

// List returns the registered names in order
func (r *Registry) List() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.programs))
	for name := range r.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
