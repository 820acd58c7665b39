// Package symbols stores the values of a program unit's data definitions and
// resolves names to references, including projected views onto the fields
// of data structures.
package symbols

import (
	"fmt"
	"strings"

	"rpgexec/ast"
	"rpgexec/errors"
	"rpgexec/values"
)

// Ref is a readable and writable location in the table: a top-level
// variable, a field projected out of a data structure or an array element.
// A Ref borrows its container and must not be kept past the statement that
// resolved it.
type Ref interface {
	Name() string
	Type() ast.Type
	Get() (values.Value, error)
	// Set stores a value already coerced to Type
	Set(values.Value) error
}

type entry struct {
	def   *ast.DataDefinition
	value values.Value
}

type fieldOwner struct {
	entry *entry
	field ast.FieldDefinition
}

// Table holds one value per data definition of a program unit
type Table struct {
	program string
	defs    []*ast.DataDefinition
	entries map[string]*entry
	fields  map[string]fieldOwner
}

// NewTable creates a table for the given definitions, every entry holding
// the blank value of its type. Data structure fields are indexed so that
// they can be resolved by their bare name; a top-level definition shadows a
// field of the same name and the first data structure declaring a field wins.
func NewTable(program string, defs []*ast.DataDefinition) (*Table, error) {
	t := &Table{
		program: program,
		defs:    defs,
		entries: make(map[string]*entry, len(defs)),
		fields:  make(map[string]fieldOwner),
	}
	for _, def := range defs {
		key := strings.ToUpper(def.Name)
		if _, exists := t.entries[key]; exists {
			return nil, errors.NewValidationError(errors.CodeTypeMismatch,
				fmt.Sprintf("duplicate data definition %s", def.Name)).WithProgram(program).WithPosition(def.Pos)
		}
		blank, err := values.Blank(def.Type)
		if err != nil {
			return nil, err
		}
		t.entries[key] = &entry{def: def, value: blank}
	}
	for _, def := range defs {
		ds, ok := ast.ElementType(def.Type).(ast.DataStructureType)
		if !ok {
			continue
		}
		if err := ds.Validate(); err != nil {
			return nil, errors.NewValidationError(errors.CodeTypeMismatch,
				fmt.Sprintf("data structure %s: %v", def.Name, err)).WithProgram(program).WithPosition(def.Pos)
		}
		e := t.entries[strings.ToUpper(def.Name)]
		for _, f := range ds.Fields {
			key := strings.ToUpper(f.Name)
			if _, shadowed := t.entries[key]; shadowed {
				continue
			}
			if _, taken := t.fields[key]; !taken {
				t.fields[key] = fieldOwner{entry: e, field: f}
			}
		}
	}
	return t, nil
}

// Program returns the name of the program unit owning the table
func (t *Table) Program() string { return t.program }

// Definitions returns the data definitions in declaration order
func (t *Table) Definitions() []*ast.DataDefinition { return t.defs }

// Contains reports whether name is a top-level definition
func (t *Table) Contains(name string) bool {
	_, ok := t.entries[strings.ToUpper(name)]
	return ok
}

// Resolve returns a reference to a top-level definition or to a field of a
// data structure
func (t *Table) Resolve(name string) (Ref, error) {
	key := strings.ToUpper(name)
	if e, ok := t.entries[key]; ok {
		return &entryRef{entry: e}, nil
	}
	if owner, ok := t.fields[key]; ok {
		return &fieldRef{entry: owner.entry, field: owner.field}, nil
	}
	return nil, errors.NewUnresolvedReferenceError(name).WithProgram(t.program)
}

// ResolveDefinition returns a reference to the storage of def. def must be
// one of the definitions the table was created with.
func (t *Table) ResolveDefinition(def *ast.DataDefinition) (Ref, error) {
	if def == nil {
		return nil, errors.NewUnresolvedReferenceError("<nil>").WithProgram(t.program)
	}
	if e, ok := t.entries[strings.ToUpper(def.Name)]; ok && e.def == def {
		return &entryRef{entry: e}, nil
	}
	return nil, errors.NewUnresolvedReferenceError(def.Name).WithProgram(t.program).WithPosition(def.Pos)
}

// Get returns the current value of name
func (t *Table) Get(name string) (values.Value, error) {
	ref, err := t.Resolve(name)
	if err != nil {
		return nil, err
	}
	return ref.Get()
}

// Set coerces value to the type of name and stores it
func (t *Table) Set(name string, value values.Value) error {
	ref, err := t.Resolve(name)
	if err != nil {
		return err
	}
	return Assign(ref, value)
}

// Clear resets a top-level definition to the blank value of its type
func (t *Table) Clear(name string) error {
	e, ok := t.entries[strings.ToUpper(name)]
	if !ok {
		return errors.NewUnresolvedReferenceError(name).WithProgram(t.program)
	}
	blank, err := values.Blank(e.def.Type)
	if err != nil {
		return err
	}
	e.value = blank
	return nil
}

// Assign coerces value to the type of ref and writes it. A value the type
// cannot hold fails before anything is written.
func Assign(ref Ref, value values.Value) error {
	coerced, err := values.Coerce(value, ref.Type())
	if err != nil {
		return err
	}
	return ref.Set(coerced)
}

// Element returns a reference to the 1-based element index of an
// array-typed reference
func Element(ref Ref, index int) (Ref, error) {
	at, ok := ref.Type().(ast.ArrayType)
	if !ok {
		return nil, errors.NewTypeMismatchError("%s of type %s is not an array", ref.Name(), ref.Type())
	}
	if index < 1 || index > at.Count {
		return nil, errors.NewRuntimeError(errors.CodeInvalidIndex,
			fmt.Sprintf("index %d out of range 1..%d for %s", index, at.Count, ref.Name()))
	}
	return &elementRef{parent: ref, element: at.Element, index: index}, nil
}

func checkAssignable(ref Ref, value values.Value) error {
	if !values.AssignableTo(value, ref.Type()) {
		return errors.NewAssignmentPreconditionError(ref.Name(), value, ref.Type())
	}
	return nil
}

type entryRef struct {
	entry *entry
}

func (r *entryRef) Name() string   { return r.entry.def.Name }
func (r *entryRef) Type() ast.Type { return r.entry.def.Type }

func (r *entryRef) Get() (values.Value, error) { return r.entry.value, nil }

func (r *entryRef) Set(value values.Value) error {
	if err := checkAssignable(r, value); err != nil {
		return err
	}
	r.entry.value = value
	return nil
}

type elementRef struct {
	parent  Ref
	element ast.Type
	index   int
}

func (r *elementRef) Name() string   { return fmt.Sprintf("%s(%d)", r.parent.Name(), r.index) }
func (r *elementRef) Type() ast.Type { return r.element }

func (r *elementRef) array() (*values.ArrayValue, error) {
	v, err := r.parent.Get()
	if err != nil {
		return nil, err
	}
	arr, ok := v.(*values.ArrayValue)
	if !ok {
		return nil, errors.NewTypeMismatchError("%s holds %s, not an array", r.parent.Name(), v.Kind())
	}
	if r.index > arr.Len() {
		return nil, errors.NewRuntimeError(errors.CodeInvalidIndex,
			fmt.Sprintf("index %d out of range 1..%d for %s", r.index, arr.Len(), r.parent.Name()))
	}
	return arr, nil
}

func (r *elementRef) Get() (values.Value, error) {
	arr, err := r.array()
	if err != nil {
		return nil, err
	}
	return arr.Elements[r.index-1], nil
}

// Set replaces one element and writes the array back through the parent,
// which is a no-op copy for arrays held directly in the table and a byte
// window update for arrays projected out of a data structure
func (r *elementRef) Set(value values.Value) error {
	if err := checkAssignable(r, value); err != nil {
		return err
	}
	arr, err := r.array()
	if err != nil {
		return err
	}
	arr.Elements[r.index-1] = value
	return r.parent.Set(arr)
}
