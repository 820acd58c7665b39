package programs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rpgexec/engine"
	"rpgexec/errors"
	"rpgexec/values"

	"github.com/shopspring/decimal"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// LuaProgram is a callable program written in Lua. Every parameter is a
// global of the script; after the script ends the globals are read back as
// the parameter values. The script can call dsply(text) to display.
type LuaProgram struct {
	name   string
	params []string
	proto  *lua.FunctionProto
}

// NewLuaProgram compiles source into a program
func NewLuaProgram(name string, params []string, source string) (*LuaProgram, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, errors.WrapError(err, errors.CodeProgramFailed, fmt.Sprintf("cannot parse Lua program %s", name)).WithProgram(name)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, errors.WrapError(err, errors.CodeProgramFailed, fmt.Sprintf("cannot compile Lua program %s", name)).WithProgram(name)
	}
	return &LuaProgram{name: name, params: params, proto: proto}, nil
}

// LoadLuaProgram compiles the script at path into a program
func LoadLuaProgram(name string, params []string, path string) (*LuaProgram, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CodeProgramFailed, fmt.Sprintf("cannot read Lua program %s", path)).WithProgram(name)
	}
	return NewLuaProgram(name, params, string(source))
}

// Params returns the parameter names
func (p *LuaProgram) Params() []string { return p.params }

// Execute runs the script in a fresh Lua state
func (p *LuaProgram) Execute(ctx context.Context, sys engine.SystemInterface, args map[string]values.Value) ([]values.Value, error) {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	L.SetGlobal("dsply", L.NewFunction(func(L *lua.LState) int {
		sys.Display(L.ToStringMeta(L.CheckAny(1)).String())
		return 0
	}))

	for _, name := range p.params {
		arg, ok := args[name]
		if !ok {
			continue
		}
		lv, err := toLua(L, arg)
		if err != nil {
			return nil, err
		}
		L.SetGlobal(name, lv)
	}

	L.Push(L.NewFunctionFromProto(p.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.WrapError(ctxErr, errors.CodeExecutionCancelled, "execution cancelled").WithProgram(p.name)
		}
		return nil, errors.WrapError(err, errors.CodeProgramFailed, fmt.Sprintf("Lua program %s failed", p.name)).WithProgram(p.name)
	}

	results := make([]values.Value, 0, len(p.params))
	for _, name := range p.params {
		original, passed := args[name]
		if !passed {
			break
		}
		value, err := fromLua(L.GetGlobal(name), original)
		if err != nil {
			return nil, err
		}
		results = append(results, value)
	}
	return results, nil
}

func toLua(L *lua.LState, v values.Value) (lua.LValue, error) {
	switch val := v.(type) {
	case values.StrValue:
		return lua.LString(val.Content()), nil
	case values.IntValue:
		return lua.LNumber(val.Value), nil
	case values.DecimalValue:
		return lua.LNumber(val.Value.InexactFloat64()), nil
	case values.BoolValue:
		return lua.LBool(val.Value), nil
	case values.BlanksValue:
		return lua.LString(""), nil
	case *values.ArrayValue:
		table := L.NewTable()
		for _, e := range val.Elements {
			lv, err := toLua(L, e)
			if err != nil {
				return nil, err
			}
			table.Append(lv)
		}
		return table, nil
	}
	return nil, errors.NewTypeMismatchError("cannot pass %s %s to Lua", v.Kind(), v)
}

// fromLua converts a Lua global back into a value shaped like the argument
// it was created from. nil leaves the argument unchanged.
func fromLua(lv lua.LValue, like values.Value) (values.Value, error) {
	switch val := lv.(type) {
	case *lua.LNilType:
		return like, nil
	case lua.LString:
		return values.NewStr(string(val)), nil
	case lua.LBool:
		return values.NewBool(bool(val)), nil
	case lua.LNumber:
		d := decimal.NewFromFloat(float64(val))
		if _, isInt := like.(values.IntValue); isInt || (d.IsInteger() && like.Kind() != values.KindDecimal) {
			return values.NewInt(d.IntPart()), nil
		}
		return values.NewDecimal(d), nil
	case *lua.LTable:
		array, ok := like.(*values.ArrayValue)
		if !ok {
			return nil, errors.NewTypeMismatchError("Lua table returned for %s %s", like.Kind(), like)
		}
		elements := make([]values.Value, 0, val.Len())
		for i := 1; i <= val.Len(); i++ {
			var elementLike values.Value = values.BlanksValue{}
			if i <= array.Len() {
				elementLike = array.Elements[i-1]
			}
			element, err := fromLua(val.RawGetInt(i), elementLike)
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
		}
		return values.NewArray(array.ElementType, elements...), nil
	}
	return nil, errors.NewTypeMismatchError("cannot convert Lua %s", lv.Type())
}
