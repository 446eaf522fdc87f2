// Package transform turns caller-supplied Lua scripts into board label
// transforms. A script must define a global transform(label) function
// returning the replacement label; it is executed outside the board's
// critical sections, so it is allowed to be slow.
package transform

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Lua is a compiled label transform backed by a Lua script.
type Lua struct {
	script string
}

// NewLua validates that script runs and defines a transform function.
func NewLua(script string) (*Lua, error) {
	state := lua.NewState()
	defer state.Close()

	if err := state.DoString(script); err != nil {
		return nil, fmt.Errorf("invalid transform script: %w", err)
	}
	if state.GetGlobal("transform").Type() != lua.LTFunction {
		return nil, fmt.Errorf("transform script must define a transform(label) function")
	}

	return &Lua{script: script}, nil
}

// Apply runs transform(label) in a fresh interpreter and returns the result.
// The interpreter honours ctx cancellation, so a runaway script cannot wedge
// a map operation forever once the caller gives up.
func (t *Lua) Apply(ctx context.Context, label string) (string, error) {
	state := lua.NewState()
	defer state.Close()
	state.SetContext(ctx)

	if err := state.DoString(t.script); err != nil {
		return "", fmt.Errorf("transform script failed: %w", err)
	}

	fn := state.GetGlobal("transform")
	if fn.Type() != lua.LTFunction {
		return "", fmt.Errorf("transform script must define a transform(label) function")
	}

	err := state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(label))
	if err != nil {
		return "", fmt.Errorf("transform(%q) failed: %w", label, err)
	}

	ret := state.Get(-1)
	state.Pop(1)

	result, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("transform(%q) returned %s, want string", label, ret.Type())
	}
	return string(result), nil
}
